package services

import (
	"context"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
)

// RateValidatorSvc turns one upstream envelope into canonical records.
type RateValidatorSvc interface {
	Process(envelope []byte, tableType domain.TableType) (domain.BatchResult, error)
}

// IngestionSvc runs the fetch, validate, persist pipeline for all enabled currencies.
type IngestionSvc interface {
	// Run never returns an error; fatal conditions are reported in the result.
	Run(ctx context.Context) domain.IngestionResult
}
