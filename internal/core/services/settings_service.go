package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/platform/config"
	"github.com/go-playground/validator/v10"
)

// Keys of the persisted overrides.
const (
	SettingTableType         = "table_type"
	SettingEnabledCurrencies = "enabled_currencies"
	SettingLastRun           = "last_run"
)

// SettingsService overlays persisted runtime overrides on the configured defaults.
type SettingsService struct {
	BaseService
	repo     portsrepo.SettingsRepository
	defaults domain.Settings
	validate *validator.Validate
}

var _ portssvc.SettingsSvc = (*SettingsService)(nil)

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo portsrepo.SettingsRepository, defaults domain.Settings, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		BaseService: BaseService{Logger: logger},
		repo:        repo,
		defaults:    defaults,
		validate:    validator.New(),
	}
}

// Current returns the effective settings. A malformed override is logged
// and the configured default is kept.
func (s *SettingsService) Current(ctx context.Context) (domain.Settings, error) {
	values, err := s.repo.GetAll(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	current := s.defaults
	current.EnabledCurrencies = append([]string{}, s.defaults.EnabledCurrencies...)

	if raw, ok := values[SettingTableType]; ok {
		if t, err := domain.ParseTableType(raw); err == nil {
			current.TableType = t
		} else {
			s.LogWarn(ctx, "Ignoring stored table type", slog.String("value", raw))
		}
	}
	if raw, ok := values[SettingEnabledCurrencies]; ok {
		current.EnabledCurrencies = config.SplitList(raw)
	}
	if raw, ok := values[SettingLastRun]; ok && raw != "" {
		if at, err := time.Parse(time.RFC3339, raw); err == nil {
			current.LastRun = &at
		} else {
			s.LogWarn(ctx, "Ignoring stored last run timestamp", slog.String("value", raw))
		}
	}
	return current, nil
}

func (s *SettingsService) RecordLastRun(ctx context.Context, at time.Time) error {
	return s.repo.Set(ctx, SettingLastRun, at.UTC().Format(time.RFC3339))
}

// UpdateEnabledCurrencies replaces the enabled list. An empty list is allowed.
func (s *SettingsService) UpdateEnabledCurrencies(ctx context.Context, codes []string) (domain.Settings, error) {
	normalized := config.SplitList(strings.Join(codes, ","))
	for _, code := range normalized {
		if err := s.validate.Var(code, "len=3,alpha,uppercase"); err != nil {
			return domain.Settings{}, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, code)
		}
	}

	if err := s.repo.Set(ctx, SettingEnabledCurrencies, strings.Join(normalized, ",")); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to save enabled currencies: %w", err)
	}
	s.LogInfo(ctx, "Enabled currencies updated", slog.Any("currencies", normalized))
	return s.Current(ctx)
}

func (s *SettingsService) SetTableType(ctx context.Context, tableType domain.TableType) error {
	if !tableType.Valid() {
		return fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}
	return s.repo.Set(ctx, SettingTableType, string(tableType))
}
