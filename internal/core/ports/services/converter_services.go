package services

import (
	"context"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts an amount into the pivot (base) currency.
// ok is false when the conversion is not possible.
type CurrencyConverter interface {
	ToBase(ctx context.Context, amount decimal.Decimal, from, base string) (converted decimal.Decimal, ok bool, err error)
}

// ConverterSvc converts amounts into the enabled target currencies.
type ConverterSvc interface {
	// Convert returns one entry per convertible target; unconvertible targets are omitted.
	Convert(ctx context.Context, amount decimal.Decimal, source string, targets []string) ([]domain.ConvertedRate, error)

	// ConvertPaginated converts once and returns the requested page of the result.
	ConvertPaginated(ctx context.Context, amount decimal.Decimal, source string, targets []string, page, pageSize int) (*domain.ConversionPage, error)
}
