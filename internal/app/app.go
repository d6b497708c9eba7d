package app

import (
	"context"
	"fmt"
	"log/slog"

	"StockPulse/internal/config"
	"StockPulse/internal/domain"
	"StockPulse/internal/enrich"
	"StockPulse/internal/feed"
	"StockPulse/internal/infrastructure/filestore"
	"StockPulse/internal/infrastructure/llm"
	"StockPulse/internal/infrastructure/reddit"
	"StockPulse/internal/infrastructure/rss"
	"StockPulse/internal/infrastructure/scheduler"
	"StockPulse/internal/infrastructure/storage"
	"StockPulse/internal/infrastructure/telegram"
	"StockPulse/internal/infrastructure/yahoo"
	"StockPulse/internal/ports"
	"StockPulse/internal/resolve"
	"StockPulse/internal/usecase"
)

// Application wires configuration to the pipeline for one feed source.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	request  domain.FeedRequest
	logger   *slog.Logger
	closeFns []func() error
}

// New builds a runnable application instance for the named feed. The
// durable store is opened here so an unreachable store fails the run at
// startup, before any feed or model traffic.
func New(ctx context.Context, cfg config.Config, feedName string, request domain.FeedRequest, logger *slog.Logger) (*Application, error) {
	registry := feed.NewRegistry()
	registry.Register(yahoo.NewScanner(nil, cfg.Feeds.News.BaseURL, cfg.Feeds.News.WindowDays))
	registry.Register(reddit.NewListing(nil, cfg.Feeds.Reddit.BaseURL, cfg.Feeds.Reddit.UserAgent))
	registry.Register(rss.NewFeed(cfg.Feeds.RSS.URL))

	source, err := registry.Resolve(feedName)
	if err != nil {
		return nil, err
	}

	application := &Application{cfg: cfg, request: request, logger: logger}

	ledger, stocks, sources, origin, err := application.openStorage(ctx, feedName)
	if err != nil {
		return nil, err
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:   source,
		Ledger:   ledger,
		Enricher: enrich.NewEngine(llm.NewClaudeClient(cfg.Claude), logger.With("component", "enrich")),
		Resolver: resolve.New(stocks, logger.With("component", "resolver")),
		Sources:  sources,
		Notifier: notifier,
		Origin:   origin,
		Logger:   logger.With("component", "pipeline"),
	})

	return application, nil
}

// openStorage selects the configured backend and returns its ledger,
// stock store, source store, and origin name for the feed.
func (a *Application) openStorage(ctx context.Context, feedName string) (ports.Ledger, ports.StockStore, ports.SourceStore, string, error) {
	origin := a.originFor(feedName)

	switch a.cfg.Storage.Driver {
	case config.DriverFile:
		store, err := filestore.NewCSVStore(a.cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, nil, "", fmt.Errorf("open csv store: %w", err)
		}
		ledger := filestore.NewFileLedger(a.cfg.Storage.LedgerPath)
		return ledger, store, store, origin, nil

	case config.DriverPostgres, "":
		store, err := storage.Open(ctx, a.cfg.Database.DSN)
		if err != nil {
			return nil, nil, nil, "", err
		}
		a.closeFns = append(a.closeFns, store.Close)

		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, "", err
		}
		if _, err := store.EnsureOrigin(ctx, origin); err != nil {
			_ = store.Close()
			return nil, nil, nil, "", err
		}
		return storage.NewLedgerFromStore(store), store, store, origin, nil

	default:
		return nil, nil, nil, "", fmt.Errorf("unknown storage driver %q", a.cfg.Storage.Driver)
	}
}

func (a *Application) originFor(feedName string) string {
	switch feedName {
	case "reddit":
		return a.cfg.Feeds.Reddit.Origin
	case "rss":
		return a.cfg.Feeds.RSS.Origin
	default:
		return a.cfg.Feeds.News.Origin
	}
}

// Run performs a single pipeline execution and reports its stats.
func (a *Application) Run(ctx context.Context) (domain.RunStats, error) {
	if a.pipeline == nil {
		return domain.RunStats{}, fmt.Errorf("application is not wired")
	}
	return a.pipeline.Run(ctx, a.request)
}

// RunOnSchedule blocks running the pipeline on the given cron expression
// until the context is cancelled.
func (a *Application) RunOnSchedule(ctx context.Context, cronExpr string) error {
	driver := scheduler.NewCronScheduler(cronExpr, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, a.request, a.logger)

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	var firstErr error
	for _, closeFn := range a.closeFns {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
