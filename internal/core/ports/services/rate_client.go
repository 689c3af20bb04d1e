package services

import (
	"context"
	"encoding/json"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
)

// RateClient fetches publications from the upstream rate source.
// found is false for "no data": a 404 or a request that kept failing after retries.
type RateClient interface {
	// FetchTable returns the last count whole tables of the given type.
	FetchTable(ctx context.Context, tableType domain.TableType, count int) (body json.RawMessage, found bool, err error)

	// FetchCurrencySeries returns the last count rates of one currency.
	FetchCurrencySeries(ctx context.Context, tableType domain.TableType, code string, count int) (body json.RawMessage, found bool, err error)

	// FetchCurrentRate returns the current rate of one currency.
	FetchCurrentRate(ctx context.Context, tableType domain.TableType, code string) (body json.RawMessage, found bool, err error)

	// GetAvailableCurrencies lists the currencies of the latest table.
	GetAvailableCurrencies(ctx context.Context, tableType domain.TableType) ([]domain.CurrencyInfo, error)
}
