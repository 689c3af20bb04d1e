package services

import (
	"context"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/SscSPs/currency_rate_app/internal/dto"
)

// HistorySvc serves filtered, paged rate history.
type HistorySvc interface {
	History(ctx context.Context, params dto.HistoryQueryParams) (*dto.HistoryResponse, error)
	Latest(ctx context.Context, code string) (*domain.RateRecord, error)
}
