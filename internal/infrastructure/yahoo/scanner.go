package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

const (
	defaultBaseURL    = "https://finance.yahoo.com"
	defaultWindowDays = 30
	maxConcurrent     = 4
)

// Scanner pulls a ticker's news listing page and extracts recent articles.
// A comma-separated target fans out over each ticker with bounded
// concurrency and merges the results ordered by publish time.
type Scanner struct {
	client     *http.Client
	baseURL    string
	windowDays int
}

var _ ports.FeedSource = (*Scanner)(nil)

// NewScanner wires an HTTP client; windowDays defaults to 30.
func NewScanner(client *http.Client, baseURL string, windowDays int) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	return &Scanner{client: client, baseURL: baseURL, windowDays: windowDays}
}

// Name identifies the adapter inside the registry.
func (s *Scanner) Name() string {
	return "yahoo-news"
}

// Fetch returns the freshest articles for the requested ticker(s), oldest
// first, capped at req.Limit per ticker.
func (s *Scanner) Fetch(ctx context.Context, req domain.FeedRequest) ([]domain.RawItem, error) {
	tickers := splitTickers(req.Target)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ticker provided")
	}

	cutoff := req.Since
	if cutoff.IsZero() {
		cutoff = time.Now().AddDate(0, 0, -s.windowDays)
	}

	var (
		mu       sync.Mutex
		gathered []domain.RawItem
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrent)
	for _, ticker := range tickers {
		ticker := ticker
		group.Go(func() error {
			items, err := s.fetchTicker(groupCtx, ticker, cutoff, req.Limit)
			if err != nil {
				return fmt.Errorf("ticker %s: %w", ticker, err)
			}
			mu.Lock()
			gathered = append(gathered, items...)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(gathered, func(i, j int) bool {
		return gathered[i].PublishedAt.Before(gathered[j].PublishedAt)
	})
	return gathered, nil
}

func (s *Scanner) fetchTicker(ctx context.Context, ticker string, cutoff time.Time, limit int) ([]domain.RawItem, error) {
	doc, err := s.fetchDocument(ctx, s.listingURL(ticker))
	if err != nil {
		return nil, err
	}

	items := extractItems(doc, s.baseURL, cutoff)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Scanner) listingURL(ticker string) string {
	return fmt.Sprintf("%s/quote/%s/news", strings.TrimSuffix(s.baseURL, "/"), url.PathEscape(strings.ToUpper(ticker)))
}

func (s *Scanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "StockPulse/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return doc, nil
}

// extractItems walks the news stream markup. Items older than cutoff are
// the adapter's concern and never reach the pipeline.
func extractItems(doc *goquery.Document, baseURL string, cutoff time.Time) []domain.RawItem {
	var items []domain.RawItem

	doc.Find("li.stream-item").Each(func(_ int, li *goquery.Selection) {
		item, ok := parseItem(li, baseURL)
		if !ok {
			return
		}
		if !item.PublishedAt.IsZero() && item.PublishedAt.Before(cutoff) {
			return
		}
		items = append(items, item)
	})

	return items
}

func parseItem(li *goquery.Selection, baseURL string) (domain.RawItem, bool) {
	link := li.Find("a[href]").First()
	href, ok := link.Attr("href")
	if !ok || href == "" {
		return domain.RawItem{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = strings.TrimSuffix(baseURL, "/") + href
	}

	title := strings.TrimSpace(li.Find("h3").First().Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	if title == "" {
		return domain.RawItem{}, false
	}

	item := domain.RawItem{
		Title:  title,
		Body:   strings.TrimSpace(li.Find("p").First().Text()),
		URL:    href,
		Author: strings.TrimSpace(li.Find(".publishing").First().Text()),
	}

	if ts, ok := li.Find("time").First().Attr("datetime"); ok {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			item.PublishedAt = parsed
		}
	}

	return item, true
}

func splitTickers(target string) []string {
	parts := strings.Split(target, ",")
	tickers := make([]string, 0, len(parts))
	for _, part := range parts {
		if ticker := strings.TrimSpace(part); ticker != "" {
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}
