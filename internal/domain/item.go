package domain

import "time"

// RawItem is a single article or post as yielded by a feed adapter.
// Immutable; lives for one pipeline pass.
type RawItem struct {
	Title       string
	Body        string
	URL         string
	Author      string
	PublishedAt time.Time
}

// SentimentLabel is the three-way category derived from polarity sign.
type SentimentLabel string

const (
	LabelPositive SentimentLabel = "Positive"
	LabelNegative SentimentLabel = "Negative"
	LabelNeutral  SentimentLabel = "Neutral"
)

// Sentiment holds the deterministic lexical scores for a text.
// Polarity is in [-1, 1], Subjectivity in [0, 1].
type Sentiment struct {
	Polarity     float64
	Subjectivity float64
	Label        SentimentLabel
}

// Enrichment is everything derived from a RawItem before persistence.
type Enrichment struct {
	Summary   string
	Sentiment Sentiment
	Symbols   []string
}

// Stock is a persisted ticker row. Abbreviation is canonical uppercase and
// case-insensitively unique.
type Stock struct {
	ID           int64
	Abbreviation string
	Name         string
}

// Source is a persisted record of one processed item, keyed by URL.
type Source struct {
	ID                    int64
	URL                   string
	OriginID              int64
	PredictedSentiment    float64
	PredictedSubjectivity float64
	FetchedAt             time.Time
}

// FeedRequest carries the parameters of a single feed pull.
type FeedRequest struct {
	// Target names what to pull: a ticker symbol for market news,
	// a community name for social feeds.
	Target string
	// Tag is an optional classification filter (e.g. a post flair).
	Tag string
	// Limit caps the number of items returned.
	Limit int
	// Since excludes items published before this instant.
	Since time.Time
}

// RunStats is the user-visible summary of one pipeline run.
type RunStats struct {
	RunID           string
	Fetched         int
	Skipped         int
	Enriched        int
	Persisted       int
	ResolveFailures int
}
