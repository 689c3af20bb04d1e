package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/robfig/cron/v3"
)

// Scheduler triggers ingestion runs on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	ingestion portssvc.IngestionSvc
	logger    *slog.Logger
	timeout   time.Duration
}

// NewScheduler parses spec (standard five-field cron syntax) and registers
// the ingestion job. Runs are evaluated in UTC and never overlap.
func NewScheduler(spec string, ingestion portssvc.IngestionSvc, logger *slog.Logger, timeout time.Duration) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		ingestion: ingestion,
		logger:    logger,
		timeout:   timeout,
	}
	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce performs a single scheduled run.
func (s *Scheduler) RunOnce() {
	ctx := middleware.WithTrigger(context.Background(), middleware.TriggerScheduler)
	ctx = middleware.WithLogger(ctx, s.logger)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result := s.ingestion.Run(ctx)
	level := slog.LevelInfo
	if !result.Success {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "Scheduled rate update finished",
		slog.String("run_id", result.RunID),
		slog.String("message", result.Message),
		slog.Int("updated_count", result.UpdatedCount),
		slog.Any("errors", result.Errors),
	)
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Rate update scheduler started", slog.Time("next_run", s.Next()))
}

// Stop halts scheduling and waits for a running job up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out while a run was in progress")
	}
}

// Next returns the next scheduled run time.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
