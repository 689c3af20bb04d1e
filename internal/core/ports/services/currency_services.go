package services

import (
	"context"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
)

// CurrencySvc manages the currency catalogue of the active table type.
type CurrencySvc interface {
	// AvailableCurrencies lists currencies published in the active table.
	AvailableCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)

	// SwitchTableType changes the active table type and drops data of the old one.
	SwitchTableType(ctx context.Context, tableType domain.TableType) (*domain.TableTypeChange, error)
}

// SettingsSvc exposes the runtime settings.
type SettingsSvc interface {
	Current(ctx context.Context) (domain.Settings, error)
	RecordLastRun(ctx context.Context, at time.Time) error
	UpdateEnabledCurrencies(ctx context.Context, codes []string) (domain.Settings, error)
	SetTableType(ctx context.Context, tableType domain.TableType) error
}
