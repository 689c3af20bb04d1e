package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/dto"
	"github.com/SscSPs/currency_rate_app/internal/handlers"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock services ---

type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) Run(ctx context.Context) domain.IngestionResult {
	args := m.Called(ctx)
	return args.Get(0).(domain.IngestionResult)
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) History(ctx context.Context, params dto.HistoryQueryParams) (*dto.HistoryResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HistoryResponse), args.Error(1)
}

func (m *MockHistoryService) Latest(ctx context.Context, code string) (*domain.RateRecord, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRecord), args.Error(1)
}

type MockConverterService struct {
	mock.Mock
}

func (m *MockConverterService) Convert(ctx context.Context, amount decimal.Decimal, source string, targets []string) ([]domain.ConvertedRate, error) {
	args := m.Called(ctx, amount, source, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ConvertedRate), args.Error(1)
}

func (m *MockConverterService) ConvertPaginated(ctx context.Context, amount decimal.Decimal, source string, targets []string, page, pageSize int) (*domain.ConversionPage, error) {
	args := m.Called(ctx, amount, source, targets, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionPage), args.Error(1)
}

type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) AvailableCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyInfo), args.Error(1)
}

func (m *MockCurrencyService) SwitchTableType(ctx context.Context, tableType domain.TableType) (*domain.TableTypeChange, error) {
	args := m.Called(ctx, tableType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TableTypeChange), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Current(ctx context.Context) (domain.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) RecordLastRun(ctx context.Context, at time.Time) error {
	return m.Called(ctx, at).Error(0)
}

func (m *MockSettingsService) UpdateEnabledCurrencies(ctx context.Context, codes []string) (domain.Settings, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).(domain.Settings), args.Error(1)
}

func (m *MockSettingsService) SetTableType(ctx context.Context, tableType domain.TableType) error {
	return m.Called(ctx, tableType).Error(0)
}

var (
	_ portssvc.IngestionSvc = (*MockIngestionService)(nil)
	_ portssvc.HistorySvc   = (*MockHistoryService)(nil)
	_ portssvc.ConverterSvc = (*MockConverterService)(nil)
	_ portssvc.CurrencySvc  = (*MockCurrencyService)(nil)
	_ portssvc.SettingsSvc  = (*MockSettingsService)(nil)
)

// --- Test Suite ---

const testToken = "s3cret-token"

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	ingestion *MockIngestionService
	history   *MockHistoryService
	converter *MockConverterService
	currency  *MockCurrencyService
	settings  *MockSettingsService
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.ingestion = new(MockIngestionService)
	suite.history = new(MockHistoryService)
	suite.converter = new(MockConverterService)
	suite.currency = new(MockCurrencyService)
	suite.settings = new(MockSettingsService)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, nil, &portssvc.ServiceContainer{
		Ingestion: suite.ingestion,
		Converter: suite.converter,
		History:   suite.history,
		Currency:  suite.currency,
		Settings:  suite.settings,
	})
}

func (suite *HandlersTestSuite) settingsValue() domain.Settings {
	return domain.Settings{
		EnabledCurrencies: []string{"EUR", "USD"},
		TableType:         domain.TableA,
		ItemsPerPage:      5,
		RetentionDays:     30,
		CronToken:         testToken,
		QuotationUnit:     "PLN",
		BaseCurrency:      "PLN",
	}
}

func (suite *HandlersTestSuite) do(method, url string, body string, header ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (suite *HandlersTestSuite) TestCronUpdate_MissingToken() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)

	w := suite.do(http.MethodGet, "/api/v1/cron/update", "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.JSONEq(`{"success":false,"message":"Invalid or missing token"}`, w.Body.String())
	suite.ingestion.AssertNotCalled(suite.T(), "Run", mock.Anything)
}

func (suite *HandlersTestSuite) TestCronUpdate_WrongToken() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)

	w := suite.do(http.MethodPost, "/api/v1/cron/update?token=nope", "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCronUpdate_QueryToken() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)
	suite.ingestion.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
		return middleware.GetTriggerFromCtx(ctx) == middleware.TriggerHTTP
	})).Return(domain.IngestionResult{
		RunID:        "run-1",
		Success:      true,
		Message:      "Updated with some errors",
		UpdatedCount: 4,
		Errors:       []string{"No data available for USD"},
	}).Once()

	w := suite.do(http.MethodGet, "/api/v1/cron/update?token="+testToken, "")

	suite.Equal(http.StatusOK, w.Code)
	var got domain.IngestionResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.Success)
	suite.Equal(4, got.UpdatedCount)
	suite.Equal([]string{"No data available for USD"}, got.Errors)
	suite.ingestion.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestCronUpdate_HeaderTokenFatal() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)
	suite.ingestion.On("Run", mock.Anything).Return(domain.IngestionResult{
		Success: false, Message: "Fatal error: db down", Errors: []string{},
	}).Once()

	w := suite.do(http.MethodPost, "/api/v1/cron/update", "", middleware.CronTokenHeader, testToken)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Body.String(), "Fatal error: db down")
}

func (suite *HandlersTestSuite) TestCronUpdate_OpenWhenTokenEmpty() {
	s := suite.settingsValue()
	s.CronToken = ""
	suite.settings.On("Current", mock.Anything).Return(s, nil)
	suite.ingestion.On("Run", mock.Anything).Return(domain.IngestionResult{Success: true, Errors: []string{}}).Once()

	w := suite.do(http.MethodGet, "/api/v1/cron/update", "")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestHistory_InvalidCurrencyParam() {
	w := suite.do(http.MethodGet, "/api/v1/rates/history?currency=EURO", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.history.AssertNotCalled(suite.T(), "History", mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestHistory_Success() {
	params := dto.HistoryQueryParams{Page: "2", OrderBy: "rate_mid", OrderWay: "asc", Currency: "EUR"}
	suite.history.On("History", mock.Anything, params).Return(&dto.HistoryResponse{
		Records:    []dto.RateResponse{},
		Pagination: dto.PaginationResponse{CurrentPage: 2, TotalPages: 3, TotalRecords: 25, ItemsPerPage: 10},
		Filters:    dto.HistoryFilters{OrderBy: "rateMid", OrderWay: domain.SortAsc, Currency: "EUR"},
		TableType:  domain.TableA,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/history?page=2&orderby=rate_mid&orderway=asc&currency=EUR", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"totalRecords":25`)
	suite.Contains(w.Body.String(), `"orderBy":"rateMid"`)
	suite.history.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestLatest() {
	rec := &domain.RateRecord{
		ID:            7,
		CurrencyCode:  "EUR",
		CurrencyName:  "euro",
		TableType:     domain.TableA,
		Rate:          domain.MidRate{Mid: decimal.NewNullDecimal(decimal.RequireFromString("4.3012"))},
		EffectiveDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		TableNumber:   "090/A/NBP/2024",
	}
	suite.history.On("Latest", mock.Anything, "EUR").Return(rec, nil).Once()
	suite.history.On("Latest", mock.Anything, "JPY").Return(nil, apperrors.ErrNotFound).Once()
	suite.history.On("Latest", mock.Anything, "EURO").Return(nil, apperrors.ErrValidation).Once()
	suite.history.On("Latest", mock.Anything, "GBP").Return(nil, errors.New("conn refused")).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/latest/EUR", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"rateMid":"4.3012"`)
	suite.Contains(w.Body.String(), `"effectiveDate":"2024-05-10"`)
	suite.NotContains(w.Body.String(), "rateBid")

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/rates/latest/JPY", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/latest/EURO", "").Code)

	w = suite.do(http.MethodGet, "/api/v1/rates/latest/GBP", "")
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "conn refused")
}

func (suite *HandlersTestSuite) TestConvert_BadAmount() {
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/convert", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/convert?amount=abc", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/rates/convert?amount=-5", "").Code)
	suite.converter.AssertNotCalled(suite.T(), "ConvertPaginated", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestConvert_Success() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)
	suite.converter.On("ConvertPaginated", mock.Anything,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("100.50")) }),
		"EUR", []string{"EUR", "USD"}, 2, 5,
	).Return(&domain.ConversionPage{
		Rates:      []domain.ConvertedRate{},
		AllRates:   []domain.ConvertedRate{},
		Pagination: domain.Pagination{CurrentPage: 1, TotalPages: 1, ItemsPerPage: 5},
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/rates/convert?amount=100.50&from=EUR&page=2", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"items_per_page":5`)
	suite.converter.AssertExpectations(suite.T())
}

func (suite *HandlersTestSuite) TestAvailableCurrencies() {
	suite.currency.On("AvailableCurrencies", mock.Anything).
		Return([]domain.CurrencyInfo{{Code: "EUR", Name: "EUR - euro"}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/currencies/available", "")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[{"code":"EUR","name":"EUR - euro"}]`, w.Body.String())
}

func (suite *HandlersTestSuite) TestSwitchTableType() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)
	suite.currency.On("SwitchTableType", mock.Anything, domain.TableC).Return(&domain.TableTypeChange{
		Changed: true, Previous: domain.TableA, Current: domain.TableC, DeletedRows: 12,
	}, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/admin/table-type?token="+testToken, `{"tableType":"c"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"deletedRows":12`)

	w = suite.do(http.MethodPut, "/api/v1/admin/table-type?token="+testToken, `{"tableType":"D"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPut, "/api/v1/admin/table-type", `{"tableType":"B"}`)
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.currency.AssertNumberOfCalls(suite.T(), "SwitchTableType", 1)
}

func (suite *HandlersTestSuite) TestUpdateCurrencies() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)
	updated := suite.settingsValue()
	updated.EnabledCurrencies = []string{"CHF"}
	suite.settings.On("UpdateEnabledCurrencies", mock.Anything, []string{"chf"}).Return(updated, nil).Once()

	w := suite.do(http.MethodPut, "/api/v1/admin/currencies", `{"currencies":["chf"]}`, middleware.CronTokenHeader, testToken)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"enabledCurrencies":["CHF"]`)
	suite.NotContains(w.Body.String(), testToken)

	w = suite.do(http.MethodPut, "/api/v1/admin/currencies", `{"currencies":["EURO"]}`, middleware.CronTokenHeader, testToken)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSettingsNeverExposeToken() {
	suite.settings.On("Current", mock.Anything).Return(suite.settingsValue(), nil)

	w := suite.do(http.MethodGet, "/api/v1/admin/settings?token="+testToken, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), testToken)
	suite.Contains(w.Body.String(), `"tableType":"A"`)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
