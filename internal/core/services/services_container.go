package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	client portssvc.RateClient,
	cache portssvc.RateCache,
	tracker portssvc.EventTracker,
	logger *slog.Logger,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settings come first; every other service reads them per call
	settings := NewSettingsService(repos.SettingsRepo, cfg.Settings(), logger)
	container.Settings = settings

	ingestionOpts := []IngestionOption{WithConcurrency(cfg.IngestConcurrency)}
	if tracker != nil {
		ingestionOpts = append(ingestionOpts, WithEventTracker(tracker))
	}
	container.Ingestion = NewIngestionService(
		client,
		NewRateValidator(logger, nil),
		repos.RateRepo,
		cache,
		settings,
		logger,
		ingestionOpts...,
	)

	container.Converter = NewConverterService(
		repos.RateRepo,
		NewStoredRateConverter(repos.RateRepo, settings),
		settings,
		logger,
	)
	container.History = NewHistoryService(repos.RateRepo, settings, logger)
	container.Currency = NewCurrencyService(client, cache, repos.RateRepo, settings, logger)

	return container
}
