package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Source   ports.FeedSource
	Ledger   ports.Ledger
	Enricher ports.Enricher
	Resolver ports.StockResolver
	Sources  ports.SourceStore
	Notifier ports.Notifier
	Origin   string
	Logger   *slog.Logger
}

// Pipeline implements the ingestion-enrichment-resolution workflow:
// feed -> ledger gate -> enrichment -> symbol resolution -> persistence ->
// ledger commit. Per-item failures never abort the batch; only unreachable
// boundaries do.
type Pipeline struct {
	source   ports.FeedSource
	ledger   ports.Ledger
	enricher ports.Enricher
	resolver ports.StockResolver
	sources  ports.SourceStore
	notifier ports.Notifier
	origin   string
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:   deps.Source,
		ledger:   deps.Ledger,
		enricher: deps.Enricher,
		resolver: deps.Resolver,
		sources:  deps.Sources,
		notifier: deps.Notifier,
		origin:   deps.Origin,
		logger:   deps.Logger,
		now:      time.Now,
	}
}

// Run executes one batch. The ledger and resolver caches are loaded before
// any enrichment so an unreachable store aborts without wasting external
// calls; after that point already-committed items stay committed even if a
// later item fails, and re-running the batch is safe.
func (p *Pipeline) Run(ctx context.Context, req domain.FeedRequest) (domain.RunStats, error) {
	stats := domain.RunStats{RunID: uuid.NewString()}

	if p.source == nil || p.ledger == nil || p.enricher == nil || p.sources == nil {
		return stats, fmt.Errorf("pipeline is not fully wired")
	}

	if err := p.ledger.Load(ctx); err != nil {
		return stats, fmt.Errorf("load ledger: %w", err)
	}
	if p.resolver != nil {
		if err := p.resolver.Hydrate(ctx); err != nil {
			return stats, fmt.Errorf("hydrate resolver: %w", err)
		}
	}

	originID, err := p.sources.OriginID(ctx, p.origin)
	if err != nil {
		return stats, fmt.Errorf("origin %q: %w", p.origin, err)
	}

	items, err := p.source.Fetch(ctx, req)
	if err != nil {
		return stats, fmt.Errorf("fetch %s: %w", p.source.Name(), err)
	}
	stats.Fetched = len(items)

	for _, item := range items {
		if p.ledger.HasSeen(item.URL) {
			stats.Skipped++
			p.debug("already processed", "url", item.URL)
			continue
		}

		p.processItem(ctx, item, originID, &stats)
	}

	p.info("run complete",
		"run_id", stats.RunID,
		"source", p.source.Name(),
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"enriched", stats.Enriched,
		"persisted", stats.Persisted,
		"resolve_failures", stats.ResolveFailures,
	)

	if p.notifier != nil {
		if err := p.notifier.PublishDigest(ctx, formatDigest(p.source.Name(), stats)); err != nil {
			p.warn("publish digest", "error", err)
		}
	}

	return stats, nil
}

// processItem carries one item through enrichment, resolution, persistence,
// and the ledger commit.
func (p *Pipeline) processItem(ctx context.Context, item domain.RawItem, originID int64, stats *domain.RunStats) {
	enrichment := p.enricher.Enrich(ctx, item)
	stats.Enriched++

	fetchedAt := item.PublishedAt
	if fetchedAt.IsZero() {
		fetchedAt = p.now()
	}

	sourceID, err := p.sources.InsertSource(ctx, domain.Source{
		URL:                   item.URL,
		OriginID:              originID,
		PredictedSentiment:    enrichment.Sentiment.Polarity,
		PredictedSubjectivity: enrichment.Sentiment.Subjectivity,
		FetchedAt:             fetchedAt,
	})
	switch {
	case errors.Is(err, ports.ErrAlreadyExists):
		// Raced with another writer; the row exists, so only the
		// ledger needs repair.
		stats.Skipped++
		p.recordLedger(ctx, item.URL)
		return
	case err != nil:
		p.warn("persist source", "url", item.URL, "error", err)
		return
	}

	for _, symbol := range enrichment.Symbols {
		p.linkSymbol(ctx, symbol, sourceID, stats)
	}

	stats.Persisted++
	p.recordLedger(ctx, item.URL)
}

func (p *Pipeline) linkSymbol(ctx context.Context, symbol string, sourceID int64, stats *domain.RunStats) {
	if p.resolver == nil {
		return
	}

	stockID, err := p.resolver.Resolve(ctx, symbol)
	if err != nil {
		stats.ResolveFailures++
		p.warn("resolve symbol", "symbol", symbol, "error", err)
		return
	}

	if err := p.sources.Link(ctx, stockID, sourceID); err != nil && !errors.Is(err, ports.ErrAlreadyExists) {
		p.warn("link stock", "symbol", symbol, "stock_id", stockID, "error", err)
	}
}

func (p *Pipeline) recordLedger(ctx context.Context, url string) {
	if err := p.ledger.Record(ctx, url); err != nil {
		p.warn("record ledger", "url", url, "error", err)
	}
}

func formatDigest(source string, stats domain.RunStats) string {
	return fmt.Sprintf("%s run %s: fetched %d, skipped %d, enriched %d, persisted %d, resolve failures %d",
		source, stats.RunID, stats.Fetched, stats.Skipped, stats.Enriched, stats.Persisted, stats.ResolveFailures)
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
