package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

// Feed adapts an RSS/Atom feed to the pipeline's feed boundary. Target may
// override the configured feed URL, which lets one adapter serve any feed.
type Feed struct {
	parser *gofeed.Parser
	url    string
}

var _ ports.FeedSource = (*Feed)(nil)

// NewFeed points the adapter at a feed URL.
func NewFeed(url string) *Feed {
	return &Feed{parser: gofeed.NewParser(), url: url}
}

// Name identifies the adapter inside the registry.
func (f *Feed) Name() string {
	return "rss"
}

// Fetch parses the feed and maps entries to raw items, newest first as the
// feed orders them.
func (f *Feed) Fetch(ctx context.Context, req domain.FeedRequest) ([]domain.RawItem, error) {
	feedURL := f.url
	if strings.HasPrefix(req.Target, "http") {
		feedURL = req.Target
	}
	if feedURL == "" {
		return nil, fmt.Errorf("no feed url configured")
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]domain.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry.Link == "" {
			continue
		}

		var publishedAt time.Time
		if entry.PublishedParsed != nil {
			publishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			publishedAt = *entry.UpdatedParsed
		}
		if !req.Since.IsZero() && !publishedAt.IsZero() && publishedAt.Before(req.Since) {
			continue
		}

		body := entry.Description
		if body == "" {
			body = entry.Content
		}

		var author string
		if entry.Author != nil {
			author = entry.Author.Name
		}

		items = append(items, domain.RawItem{
			Title:       entry.Title,
			Body:        body,
			URL:         entry.Link,
			Author:      author,
			PublishedAt: publishedAt,
		})

		if req.Limit > 0 && len(items) >= req.Limit {
			break
		}
	}

	return items, nil
}
