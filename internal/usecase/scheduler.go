package usecase

import (
	"context"
	"log/slog"
	"time"

	"StockPulse/internal/domain"
	"StockPulse/internal/ports"
)

// Scheduler wires the cron driver with a recurring pipeline run.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	request  domain.FeedRequest
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs of one feed.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, request domain.FeedRequest, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, pipeline: pipeline, request: request, logger: logger}
}

// Start registers the pipeline with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.pipeline.Run(ctx, s.request); err != nil && s.logger != nil {
			s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
