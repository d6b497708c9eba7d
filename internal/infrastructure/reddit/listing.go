package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "stockpulse/1.0"
	listingPageSize  = 100
)

// Listing pulls new posts from a community's public JSON listing, filtered
// by flair. Target is the community name, Tag the flair to keep.
type Listing struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

var _ ports.FeedSource = (*Listing)(nil)

// NewListing wires an HTTP client for the public listing endpoint.
func NewListing(client *http.Client, baseURL, userAgent string) *Listing {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Listing{client: client, baseURL: baseURL, userAgent: userAgent}
}

// Name identifies the adapter inside the registry.
func (l *Listing) Name() string {
	return "reddit"
}

// listingResponse mirrors the fields of the public listing payload we use.
type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				URL        string  `json:"url"`
				Permalink  string  `json:"permalink"`
				Author     string  `json:"author"`
				Flair      string  `json:"link_flair_text"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Fetch returns up to req.Limit flair-matching posts in listing order.
func (l *Listing) Fetch(ctx context.Context, req domain.FeedRequest) ([]domain.RawItem, error) {
	community := strings.TrimSpace(req.Target)
	if community == "" {
		return nil, fmt.Errorf("no community provided")
	}

	endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=%d",
		strings.TrimSuffix(l.baseURL, "/"), community, listingPageSize)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	var payload listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	items := make([]domain.RawItem, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		post := child.Data
		if req.Tag != "" && !strings.EqualFold(post.Flair, req.Tag) {
			continue
		}

		url := post.URL
		if url == "" && post.Permalink != "" {
			url = strings.TrimSuffix(l.baseURL, "/") + post.Permalink
		}
		if url == "" {
			continue
		}

		publishedAt := time.Unix(int64(post.CreatedUTC), 0).UTC()
		if !req.Since.IsZero() && publishedAt.Before(req.Since) {
			continue
		}

		items = append(items, domain.RawItem{
			Title:       post.Title,
			Body:        post.SelfText,
			URL:         url,
			Author:      post.Author,
			PublishedAt: publishedAt,
		})

		if req.Limit > 0 && len(items) >= req.Limit {
			break
		}
	}

	return items, nil
}
