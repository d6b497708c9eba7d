// Command newsscan ingests market news for one or more tickers, annotates
// each article with sentiment and referenced stocks, and persists the
// results exactly once per URL.
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
	ticker := flag.String("ticker", "", "ticker symbol(s) to scan, comma separated")
	limit := flag.Int("limit", 10, "maximum articles per ticker")
	cronExpr := flag.String("cron", "", "run on this cron expression instead of once")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level).With("cmd", "newsscan")

	if *ticker == "" {
		logger.Error("missing required -ticker flag")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	request := domain.FeedRequest{Target: *ticker, Limit: *limit}
	application, err := app.New(ctx, cfg, "yahoo-news", request, logger)
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
