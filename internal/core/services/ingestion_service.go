package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// SeriesLength is how many recent publications are fetched per currency.
	SeriesLength = 30

	msgAllUpdated   = "All rates updated successfully"
	msgPartial      = "Updated with some errors"
	ingestionEvent  = "rates_ingestion_completed"
	ingestionSource = "rates-ingestion"
)

// IngestionService runs the fetch, validate, persist pipeline.
type IngestionService struct {
	BaseService
	client      portssvc.RateClient
	validator   portssvc.RateValidatorSvc
	rates       portsrepo.RateWriter
	cache       portssvc.RateCache
	settings    portssvc.SettingsSvc
	tracker     portssvc.EventTracker
	concurrency int
	now         func() time.Time

	mu sync.Mutex
}

var _ portssvc.IngestionSvc = (*IngestionService)(nil)

// IngestionOption configures an IngestionService.
type IngestionOption func(*IngestionService)

// WithConcurrency sets how many currencies are processed at once.
func WithConcurrency(n int) IngestionOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithEventTracker reports each completed run to tracker.
func WithEventTracker(tracker portssvc.EventTracker) IngestionOption {
	return func(s *IngestionService) { s.tracker = tracker }
}

// WithIngestionClock overrides time.Now.
func WithIngestionClock(now func() time.Time) IngestionOption {
	return func(s *IngestionService) { s.now = now }
}

func NewIngestionService(
	client portssvc.RateClient,
	validator portssvc.RateValidatorSvc,
	rates portsrepo.RateWriter,
	cache portssvc.RateCache,
	settings portssvc.SettingsSvc,
	logger *slog.Logger,
	opts ...IngestionOption,
) *IngestionService {
	s := &IngestionService{
		BaseService: BaseService{Logger: logger},
		client:      client,
		validator:   validator,
		rates:       rates,
		cache:       cache,
		settings:    settings,
		concurrency: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// currencyOutcome is what one currency contributed to a run.
type currencyOutcome struct {
	saved  int
	failed int
	note   string
}

// Run executes one ingestion run. Overlapping calls in the same process are
// serialized. Failures of one currency never stop the others; only errors
// outside the per-currency step mark the run unsuccessful.
func (s *IngestionService) Run(ctx context.Context) domain.IngestionResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	logger := s.GetLogger(ctx).With(
		slog.String("run_id", runID),
		slog.String("trigger", middleware.GetTriggerFromCtx(ctx)),
	)
	started := s.now()

	result := domain.IngestionResult{RunID: runID, Errors: []string{}}

	settings, err := s.settings.Current(ctx)
	if err != nil {
		return s.fatal(logger, result, err)
	}
	if len(settings.EnabledCurrencies) == 0 {
		logger.Warn("No currencies enabled, nothing to fetch")
	}

	outcomes := s.processAll(ctx, logger, settings)
	for _, o := range outcomes {
		result.UpdatedCount += o.saved
		if o.note != "" {
			result.Errors = append(result.Errors, o.note)
		}
	}

	if settings.AutoCleanup {
		cutoff := settings.RetentionCutoff(s.now())
		deleted, err := s.rates.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Cleanup of old rates failed", slog.String("error", err.Error()))
		} else {
			logger.Info("Old currency rates cleaned up",
				slog.String("before", cutoff.Format("2006-01-02")),
				slog.Int64("deleted", deleted),
			)
		}
	}

	if err := s.cache.ClearAll(ctx); err != nil {
		return s.fatal(logger, result, fmt.Errorf("failed to clear cache: %w", err))
	}
	if err := s.settings.RecordLastRun(ctx, s.now()); err != nil {
		return s.fatal(logger, result, fmt.Errorf("failed to record last run: %w", err))
	}

	result.Success = true
	result.Message = msgAllUpdated
	if len(result.Errors) > 0 {
		result.Message = msgPartial
	}

	logger.Info("Currency rates updated",
		slog.Int("updated_count", result.UpdatedCount),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("duration", s.now().Sub(started)),
	)
	s.track(ctx, result, settings.TableType)
	return result
}

// processAll runs every enabled currency and returns outcomes in list order.
func (s *IngestionService) processAll(ctx context.Context, logger *slog.Logger, settings domain.Settings) []currencyOutcome {
	outcomes := make([]currencyOutcome, len(settings.EnabledCurrencies))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, code := range settings.EnabledCurrencies {
		i, code := i, code
		g.Go(func() error {
			outcomes[i] = s.processCurrency(ctx, logger, code, settings.TableType)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// processCurrency is the isolation boundary of a single currency: errors and
// panics are turned into a note on the outcome.
func (s *IngestionService) processCurrency(ctx context.Context, logger *slog.Logger, code string, tableType domain.TableType) (out currencyOutcome) {
	logger = logger.With(slog.String("currency", code), slog.String("table_type", string(tableType)))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while updating currency", slog.Any("panic", r))
			out = currencyOutcome{note: fmt.Sprintf("Error updating %s: %v", code, r)}
		}
	}()

	saved, failed, err := s.updateCurrency(ctx, logger, code, tableType)
	switch {
	case err != nil:
		logger.Error("Error updating currency", slog.String("error", err.Error()))
		return currencyOutcome{note: fmt.Sprintf("Error updating %s: %v", code, err)}
	case saved == 0:
		return currencyOutcome{failed: failed, note: fmt.Sprintf("No data available for %s", code)}
	default:
		return currencyOutcome{saved: saved, failed: failed}
	}
}

func (s *IngestionService) updateCurrency(ctx context.Context, logger *slog.Logger, code string, tableType domain.TableType) (int, int, error) {
	body, found, err := s.client.FetchCurrencySeries(ctx, tableType, code, SeriesLength)
	if err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, nil
	}

	batch, err := s.validator.Process(body, tableType)
	if err != nil {
		return 0, 0, err
	}

	saved, failed := 0, batch.Failed
	for _, rec := range batch.Records {
		if err := s.upsert(ctx, rec); err != nil {
			failed++
			logger.Error("Failed to save rate",
				slog.String("effective_date", rec.EffectiveDate.Format("2006-01-02")),
				slog.String("error", err.Error()),
			)
			continue
		}
		saved++
	}

	if failed > 0 {
		logger.Warn("Rate processing completed with rejected entries",
			slog.Int("saved", saved),
			slog.Int("failed", failed),
		)
	}
	return saved, failed, nil
}

// upsert retries once on a unique-key race with a concurrent writer.
func (s *IngestionService) upsert(ctx context.Context, rec domain.RateRecord) error {
	_, err := s.rates.Upsert(ctx, rec)
	if apperrors.IsRetryable(err) {
		_, err = s.rates.Upsert(ctx, rec)
	}
	return err
}

func (s *IngestionService) fatal(logger *slog.Logger, result domain.IngestionResult, err error) domain.IngestionResult {
	logger.Error("Currency rate update failed", slog.String("error", err.Error()))
	result.Success = false
	result.Message = fmt.Sprintf("Fatal error: %s", err.Error())
	return result
}

func (s *IngestionService) track(ctx context.Context, result domain.IngestionResult, tableType domain.TableType) {
	if s.tracker == nil {
		return
	}
	s.tracker.Enqueue(ingestionSource, ingestionEvent, map[string]any{
		"run_id":        result.RunID,
		"trigger":       middleware.GetTriggerFromCtx(ctx),
		"table_type":    string(tableType),
		"updated_count": result.UpdatedCount,
		"errors":        len(result.Errors),
	})
}
