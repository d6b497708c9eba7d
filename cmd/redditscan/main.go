// Command redditscan ingests flair-filtered posts from a community feed,
// annotates each post with sentiment and referenced stocks, and persists
// the results exactly once per URL.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"StockPulse/internal/app"
	"StockPulse/internal/config"
	"StockPulse/internal/domain"
	"StockPulse/internal/logging"
)

func main() {
	subreddit := flag.String("subreddit", "wallstreetbets", "community to scan")
	flair := flag.String("flair", "dd", "only keep posts with this flair")
	limit := flag.Int("limit", 10, "maximum posts to process")
	cronExpr := flag.String("cron", "", "run on this cron expression instead of once")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level).With("cmd", "redditscan")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	request := domain.FeedRequest{Target: *subreddit, Tag: *flair, Limit: *limit}
	application, err := app.New(ctx, cfg, "reddit", request, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *cronExpr != "" {
		if err := application.RunOnSchedule(ctx, *cronExpr); err != nil {
			logger.Error("scheduler stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	if _, err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}
