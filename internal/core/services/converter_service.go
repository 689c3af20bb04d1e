package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const pricePlaces = 2

// latestRate looks up the usable latest rate of code in the table. The
// quotation unit itself always has rate 1. ok is false when no usable
// positive rate is stored.
func latestRate(ctx context.Context, rates portsrepo.RateReader, code string, settings domain.Settings) (rate decimal.Decimal, name string, ok bool, err error) {
	if code == settings.QuotationUnit {
		return decimal.NewFromInt(1), code, true, nil
	}

	rec, err := rates.FindLatest(ctx, code, settings.TableType)
	if errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, "", false, nil
	}
	if err != nil {
		return decimal.Zero, "", false, err
	}

	value, usable := domain.UsableRate(rec.Rate)
	if !usable || !value.IsPositive() {
		return decimal.Zero, rec.CurrencyName, false, nil
	}
	return value, rec.CurrencyName, true, nil
}

// StoredRateConverter converts between currencies with the cross rate of
// their latest stored quotations.
type StoredRateConverter struct {
	rates    portsrepo.RateReader
	settings portssvc.SettingsSvc
}

var _ portssvc.CurrencyConverter = (*StoredRateConverter)(nil)

func NewStoredRateConverter(rates portsrepo.RateReader, settings portssvc.SettingsSvc) *StoredRateConverter {
	return &StoredRateConverter{rates: rates, settings: settings}
}

func (c *StoredRateConverter) ToBase(ctx context.Context, amount decimal.Decimal, from, base string) (decimal.Decimal, bool, error) {
	if from == base {
		return amount, true, nil
	}
	settings, err := c.settings.Current(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}

	fromRate, _, ok, err := latestRate(ctx, c.rates, from, settings)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	baseRate, _, ok, err := latestRate(ctx, c.rates, base, settings)
	if err != nil || !ok {
		return decimal.Zero, false, err
	}
	return amount.Mul(fromRate).Div(baseRate), true, nil
}

// ConverterService converts an amount into the enabled currencies through
// the base currency and the table's quotation unit.
type ConverterService struct {
	BaseService
	rates     portsrepo.RateReader
	converter portssvc.CurrencyConverter
	settings  portssvc.SettingsSvc
}

var _ portssvc.ConverterSvc = (*ConverterService)(nil)

func NewConverterService(rates portsrepo.RateReader, converter portssvc.CurrencyConverter, settings portssvc.SettingsSvc, logger *slog.Logger) *ConverterService {
	return &ConverterService{
		BaseService: BaseService{Logger: logger},
		rates:       rates,
		converter:   converter,
		settings:    settings,
	}
}

// Convert returns the converted price per target. Targets without a usable
// rate are omitted; a zero amount or a missing pivot rate yields an empty list.
func (s *ConverterService) Convert(ctx context.Context, amount decimal.Decimal, source string, targets []string) ([]domain.ConvertedRate, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if amount.IsZero() {
		return []domain.ConvertedRate{}, nil
	}
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	converted := []domain.ConvertedRate{}
	base := settings.BaseCurrency
	source = strings.ToUpper(strings.TrimSpace(source))
	if source == "" {
		source = base
	}

	pivotAmount := amount
	if source != base {
		var ok bool
		pivotAmount, ok, err = s.converter.ToBase(ctx, amount, source, base)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %s to %s: %w", source, base, err)
		}
		if !ok {
			s.LogWarn(ctx, "Cannot convert source amount to base currency", slog.String("from", source), slog.String("base", base))
			return converted, nil
		}
	}

	amountInUnit := pivotAmount
	if base != settings.QuotationUnit {
		baseRate, _, ok, err := latestRate(ctx, s.rates, base, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to load rate of %s: %w", base, err)
		}
		if !ok {
			s.LogWarn(ctx, "No rate stored for base currency", slog.String("base", base))
			return converted, nil
		}
		amountInUnit = pivotAmount.Mul(baseRate)
	}

	for _, target := range targets {
		rate, name, ok, err := latestRate(ctx, s.rates, target, settings)
		if err != nil {
			s.LogError(ctx, err, "Failed to load target rate", slog.String("currency", target))
			continue
		}
		if !ok {
			continue
		}
		converted = append(converted, domain.ConvertedRate{
			CurrencyCode:   target,
			CurrencyName:   name,
			Rate:           rate,
			ConvertedPrice: amountInUnit.Div(rate).Round(pricePlaces),
		})
	}
	return converted, nil
}

// ConvertPaginated converts once and slices the result. page is clamped
// into [1, totalPages].
func (s *ConverterService) ConvertPaginated(ctx context.Context, amount decimal.Decimal, source string, targets []string, page, pageSize int) (*domain.ConversionPage, error) {
	all, err := s.Convert(ctx, amount, source, targets)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	totalPages := pagination.TotalPages(len(all), pageSize)
	page = pagination.ClampPage(page, totalPages)

	return &domain.ConversionPage{
		Rates:    pagination.Slice(all, page, pageSize),
		AllRates: all,
		Pagination: domain.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			ItemsPerPage: pageSize,
		},
		TotalRates: len(all),
	}, nil
}
