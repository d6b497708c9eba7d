package ports

import (
	"context"
	"errors"
	"time"

	"StockPulse/internal/domain"
)

// ErrAlreadyExists reports an insert that hit an existing row; callers treat
// it as "already present", never as a failure.
var ErrAlreadyExists = errors.New("record already exists")

// ErrNotFound reports a lookup that matched no row.
var ErrNotFound = errors.New("record not found")

// ErrAuthentication reports a rejected credential at the text-generation
// boundary.
var ErrAuthentication = errors.New("text generation authentication failed")

// FeedSource pulls a bounded, ordered batch of raw items from one upstream
// provider. Pagination and rate limiting are the adapter's concern.
type FeedSource interface {
	Name() string
	Fetch(ctx context.Context, req domain.FeedRequest) ([]domain.RawItem, error)
}

// Ledger tracks which source URLs were already fully processed. Load must
// succeed before any enrichment happens; an unreachable ledger aborts the run.
type Ledger interface {
	Load(ctx context.Context) error
	HasSeen(url string) bool
	// Record marks a URL as processed. Recording a seen URL is a no-op.
	Record(ctx context.Context, url string) error
}

// GenRequest is one call to the external text-generation capability.
type GenRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// TextGenerator is the boundary to the external language model.
type TextGenerator interface {
	Generate(ctx context.Context, req GenRequest) (string, error)
}

// Enricher derives summary, sentiment, and ticker symbols from a raw item.
// It degrades internally (sentinel summary, empty symbol set) and never
// fails the batch.
type Enricher interface {
	Enrich(ctx context.Context, item domain.RawItem) domain.Enrichment
}

// StockStore persists ticker rows keyed by case-insensitive abbreviation.
type StockStore interface {
	// Abbreviations returns the full lowercase-abbreviation to id mapping.
	Abbreviations(ctx context.Context) (map[string]int64, error)
	Insert(ctx context.Context, abbreviation, name string) (int64, error)
	FindByAbbreviation(ctx context.Context, abbreviation string) (int64, error)
}

// StockResolver maps a ticker symbol to a stable stock identifier, creating
// the row on first sight.
type StockResolver interface {
	Hydrate(ctx context.Context) error
	Resolve(ctx context.Context, symbol string) (int64, error)
}

// SourceStore persists source rows and their stock links.
type SourceStore interface {
	OriginID(ctx context.Context, name string) (int64, error)
	// InsertSource returns ErrAlreadyExists when the URL is already recorded.
	InsertSource(ctx context.Context, src domain.Source) (int64, error)
	// Link is idempotent; a duplicate pair is swallowed.
	Link(ctx context.Context, stockID, sourceID int64) error
}

// Notifier publishes a human-readable run summary to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
