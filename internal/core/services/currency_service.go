package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
)

// CurrencyListTTL is how long the upstream currency catalogue stays cached.
const CurrencyListTTL = 7 * 24 * time.Hour

// CurrencyListCacheKey is the cache key of the catalogue of a table type.
func CurrencyListCacheKey(tableType domain.TableType) string {
	return "nbp_currencies_table_" + string(tableType)
}

type CurrencyService struct {
	BaseService
	client   portssvc.RateClient
	cache    portssvc.RateCache
	rateRepo portsrepo.RateWriter
	settings portssvc.SettingsSvc
}

var _ portssvc.CurrencySvc = (*CurrencyService)(nil)

func NewCurrencyService(client portssvc.RateClient, cache portssvc.RateCache, rateRepo portsrepo.RateWriter, settings portssvc.SettingsSvc, logger *slog.Logger) *CurrencyService {
	return &CurrencyService{
		BaseService: BaseService{Logger: logger},
		client:      client,
		cache:       cache,
		rateRepo:    rateRepo,
		settings:    settings,
	}
}

// AvailableCurrencies lists the currencies of the active table as
// "CODE - name" labels. When the upstream listing is empty or fails the
// built-in catalogue is returned and nothing is cached.
func (s *CurrencyService) AvailableCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	settings, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}
	tableType := settings.TableType
	key := CurrencyListCacheKey(tableType)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.LogWarn(ctx, "Currency list cache read failed", slog.String("error", err.Error()))
	} else if ok {
		var cached []domain.CurrencyInfo
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.LogWarn(ctx, "Discarding undecodable cached currency list", slog.String("key", key))
	}

	upstream, err := s.client.GetAvailableCurrencies(ctx, tableType)
	if err != nil {
		s.LogError(ctx, err, "Error fetching currencies from upstream", slog.String("table_type", string(tableType)))
	}
	if len(upstream) == 0 {
		return labelled(domain.DefaultCurrencies(tableType)), nil
	}

	formatted := labelled(upstream)
	if payload, err := json.Marshal(formatted); err == nil {
		if err := s.cache.Set(ctx, key, payload, CurrencyListTTL); err != nil {
			s.LogWarn(ctx, "Currency list cache write failed", slog.String("error", err.Error()))
		}
	}
	return formatted, nil
}

// SwitchTableType makes tableType active. Moving away from a previously set
// type deletes that type's rows and empties the enabled currency list, since
// currency sets differ between tables. The new type is saved last, so a
// failed switch leaves the old type active and can simply be repeated.
func (s *CurrencyService) SwitchTableType(ctx context.Context, tableType domain.TableType) (*domain.TableTypeChange, error) {
	if !tableType.Valid() {
		return nil, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}
	current, err := s.settings.Current(ctx)
	if err != nil {
		return nil, err
	}

	change := &domain.TableTypeChange{
		Previous: current.TableType,
		Current:  tableType,
		Changed:  current.TableType != "" && current.TableType != tableType,
	}

	if change.Changed {
		deleted, err := s.rateRepo.DeleteByTableType(ctx, current.TableType)
		if err != nil {
			return nil, fmt.Errorf("failed to remove rates of table %s: %w", current.TableType, err)
		}
		change.DeletedRows = deleted

		if _, err := s.settings.UpdateEnabledCurrencies(ctx, []string{}); err != nil {
			return nil, fmt.Errorf("failed to reset enabled currencies: %w", err)
		}
	}

	if err := s.settings.SetTableType(ctx, tableType); err != nil {
		return nil, err
	}

	for _, t := range domain.AllTableTypes {
		if err := s.cache.Delete(ctx, CurrencyListCacheKey(t)); err != nil {
			s.LogWarn(ctx, "Failed to drop cached currency list", slog.String("table_type", string(t)), slog.String("error", err.Error()))
		}
	}
	if !change.Changed {
		return change, nil
	}

	if err := s.cache.ClearAll(ctx); err != nil {
		s.LogWarn(ctx, "Failed to clear cache after table switch", slog.String("error", err.Error()))
	}

	s.LogInfo(ctx, "Table type changed",
		slog.String("from", string(change.Previous)),
		slog.String("to", string(change.Current)),
		slog.Int64("deleted_rows", change.DeletedRows),
	)
	return change, nil
}

func labelled(list []domain.CurrencyInfo) []domain.CurrencyInfo {
	out := make([]domain.CurrencyInfo, len(list))
	for i, c := range list {
		out[i] = domain.CurrencyInfo{Code: c.Code, Name: c.Label()}
	}
	return out
}
