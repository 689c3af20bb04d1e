package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
)

// RateReader defines read operations for stored rates.
type RateReader interface {
	// FindLatest returns the most recent record for the pair by effective date.
	FindLatest(ctx context.Context, currencyCode string, tableType domain.TableType) (*domain.RateRecord, error)

	// FindByKey returns the record with the given natural key.
	FindByKey(ctx context.Context, key domain.RateKey) (*domain.RateRecord, error)

	// Query returns one sorted page of records matching the filter.
	Query(ctx context.Context, q domain.RateQuery) ([]domain.RateRecord, error)

	// Count returns the number of records matching the filter, ignoring paging.
	Count(ctx context.Context, filter domain.RateFilter) (int, error)

	// DistinctCurrencies lists (code, name) pairs ordered by code, optionally scoped to a table type.
	DistinctCurrencies(ctx context.Context, tableType *domain.TableType) ([]domain.CurrencyInfo, error)
}

// RateWriter defines write operations for stored rates.
type RateWriter interface {
	// Upsert inserts the record or updates the row sharing its natural key.
	Upsert(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error)

	// DeleteOlderThan removes records with an effective date strictly before date.
	DeleteOlderThan(ctx context.Context, date time.Time) (int64, error)

	// DeleteByTableType removes every record of the given table type.
	DeleteByTableType(ctx context.Context, tableType domain.TableType) (int64, error)
}

// RateRepositoryFacade combines all rate repository interfaces.
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
