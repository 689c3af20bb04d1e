package services_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindLatest(ctx context.Context, currencyCode string, tableType domain.TableType) (*domain.RateRecord, error) {
	args := m.Called(ctx, currencyCode, tableType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) FindByKey(ctx context.Context, key domain.RateKey) (*domain.RateRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) Query(ctx context.Context, q domain.RateQuery) ([]domain.RateRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) Count(ctx context.Context, filter domain.RateFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRateRepository) DistinctCurrencies(ctx context.Context, tableType *domain.TableType) ([]domain.CurrencyInfo, error) {
	args := m.Called(ctx, tableType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyInfo), args.Error(1)
}

func (m *MockRateRepository) Upsert(ctx context.Context, record domain.RateRecord) (*domain.RateRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

func (m *MockRateRepository) DeleteOlderThan(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRateRepository) DeleteByTableType(ctx context.Context, tableType domain.TableType) (int64, error) {
	args := m.Called(ctx, tableType)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock SettingsRepository ---
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// --- Mock SettingsSvc ---
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Current(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) RecordLastRun(ctx context.Context, at time.Time) error {
	args := m.Called(ctx, at)
	return args.Error(0)
}

func (m *MockSettingsService) UpdateEnabledCurrencies(ctx context.Context, codes []string) (domain.Settings, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) SetTableType(ctx context.Context, tableType domain.TableType) error {
	args := m.Called(ctx, tableType)
	return args.Error(0)
}

// --- Mock RateClient ---
type MockRateClient struct {
	mock.Mock
}

func (m *MockRateClient) FetchTable(ctx context.Context, tableType domain.TableType, count int) (json.RawMessage, bool, error) {
	args := m.Called(ctx, tableType, count)
	return rawArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockRateClient) FetchCurrencySeries(ctx context.Context, tableType domain.TableType, code string, count int) (json.RawMessage, bool, error) {
	args := m.Called(ctx, tableType, code, count)
	return rawArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockRateClient) FetchCurrentRate(ctx context.Context, tableType domain.TableType, code string) (json.RawMessage, bool, error) {
	args := m.Called(ctx, tableType, code)
	return rawArg(args.Get(0)), args.Bool(1), args.Error(2)
}

func (m *MockRateClient) GetAvailableCurrencies(ctx context.Context, tableType domain.TableType) ([]domain.CurrencyInfo, error) {
	args := m.Called(ctx, tableType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyInfo), args.Error(1)
}

func rawArg(v interface{}) json.RawMessage {
	switch body := v.(type) {
	case nil:
		return nil
	case string:
		return json.RawMessage(body)
	default:
		return body.(json.RawMessage)
	}
}

// --- Mock EventTracker ---
type MockEventTracker struct {
	mock.Mock
}

func (m *MockEventTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

func testSettings() domain.Settings {
	return domain.Settings{
		EnabledCurrencies: []string{"EUR", "USD", "GBP"},
		TableType:         domain.TableA,
		CacheTTL:          time.Hour,
		ItemsPerPage:      10,
		AutoCleanup:       true,
		RetentionDays:     30,
		QuotationUnit:     "PLN",
		BaseCurrency:      "PLN",
	}
}
