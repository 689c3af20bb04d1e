package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/dto"
	"github.com/SscSPs/currency_rate_app/internal/utils/pagination"
)

type HistoryService struct {
	BaseService
	rates    portsrepo.RateReader
	settings portssvc.SettingsSvc
}

var _ portssvc.HistorySvc = (*HistoryService)(nil)

func NewHistoryService(rates portsrepo.RateReader, settings portssvc.SettingsSvc, logger *slog.Logger) *HistoryService {
	return &HistoryService{
		BaseService: BaseService{Logger: logger},
		rates:       rates,
		settings:    settings,
	}
}

// History returns one page of the active table's history. The currency
// filter only applies to enabled currencies; other values are ignored.
// Pages past the end select the last page.
func (s *HistoryService) History(ctx context.Context, params dto.HistoryQueryParams) (*dto.HistoryResponse, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	page := pagination.ParsePage(params.Page)
	pageSize := settings.ItemsPerPage
	if pageSize <= 0 {
		pageSize = 10
	}
	filters := dto.HistoryFilters{
		OrderBy:  domain.NormalizeSortField(params.OrderBy),
		OrderWay: domain.NormalizeDirection(params.OrderWay),
		Search:   strings.TrimSpace(params.Search),
	}

	filter := domain.RateFilter{TableType: settings.TableType, Search: filters.Search}
	if code := strings.ToUpper(strings.TrimSpace(params.Currency)); code != "" && settings.IsEnabled(code) {
		filter.CurrencyCode = code
		filters.Currency = code
	}

	total, err := s.rates.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count rates: %w", err)
	}
	totalPages := pagination.TotalPages(total, pageSize)
	page = pagination.ClampPage(page, totalPages)
	records, err := s.rates.Query(ctx, domain.RateQuery{
		Filter:    filter,
		Page:      page,
		PageSize:  pageSize,
		SortField: filters.OrderBy,
		Direction: filters.OrderWay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}

	tableType := settings.TableType
	available, err := s.rates.DistinctCurrencies(ctx, &tableType)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored currencies: %w", err)
	}

	return &dto.HistoryResponse{
		Records: dto.ToListRateResponse(records),
		Pagination: dto.PaginationResponse{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalRecords: total,
			ItemsPerPage: pageSize,
		},
		Filters:             filters,
		AvailableCurrencies: available,
		TableType:           tableType,
	}, nil
}

// Latest returns the newest stored rate of code in the active table.
func (s *HistoryService) Latest(ctx context.Context, code string) (*domain.RateRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, code)
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	return s.rates.FindLatest(ctx, code, settings.TableType)
}
