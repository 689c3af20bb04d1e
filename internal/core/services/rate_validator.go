package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// rateEnvelope is the upstream series shape. Pointers and raw rates let the
// validator tell a missing field from an empty one.
type rateEnvelope struct {
	Table    string          `json:"table"`
	Currency *string         `json:"currency"`
	Code     *string         `json:"code"`
	Rates    json.RawMessage `json:"rates"`
}

type rateEntry struct {
	No            string          `json:"no"`
	EffectiveDate string          `json:"effectiveDate"`
	Mid           json.RawMessage `json:"mid"`
	Bid           json.RawMessage `json:"bid"`
	Ask           json.RawMessage `json:"ask"`
}

// rateCandidate carries the string fields checked by struct rules.
type rateCandidate struct {
	CurrencyCode  string `validate:"required,len=3,alpha,uppercase"`
	CurrencyName  string `validate:"max=100"`
	EffectiveDate string `validate:"required,datetime=2006-01-02"`
	TableNumber   string `validate:"max=20"`
}

// RateValidator validates and normalizes upstream rate envelopes.
// A bad entry is skipped and counted; only a malformed envelope fails the batch.
type RateValidator struct {
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger
}

var _ portssvc.RateValidatorSvc = (*RateValidator)(nil)

// NewRateValidator creates a validator. now defaults to time.Now.
func NewRateValidator(logger *slog.Logger, now func() time.Time) *RateValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &RateValidator{validate: validator.New(), now: now, logger: logger}
}

// Process turns one envelope into zero or more records.
func (v *RateValidator) Process(envelope []byte, tableType domain.TableType) (domain.BatchResult, error) {
	result := domain.BatchResult{Records: []domain.RateRecord{}}

	if !tableType.Valid() {
		return result, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}

	var env rateEnvelope
	if err := json.Unmarshal(envelope, &env); err != nil {
		return result, fmt.Errorf("%w: invalid response envelope: %v", apperrors.ErrValidation, err)
	}
	if env.Code == nil || env.Currency == nil || !isJSONArray(env.Rates) {
		return result, fmt.Errorf("%w: invalid response structure: code, currency and rates are required", apperrors.ErrValidation)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(env.Rates, &entries); err != nil {
		return result, fmt.Errorf("%w: invalid rates list: %v", apperrors.ErrValidation, err)
	}

	for i, raw := range entries {
		record, err := v.normalize(*env.Code, *env.Currency, tableType, raw)
		if err != nil {
			result.Failed++
			msg := fmt.Sprintf("%s entry %d: %v", *env.Code, i, err)
			result.Errors = append(result.Errors, msg)
			v.logger.Warn("Rejected rate entry",
				slog.String("currency", *env.Code),
				slog.String("table_type", string(tableType)),
				slog.Int("index", i),
				slog.String("error", err.Error()),
			)
			continue
		}
		result.Records = append(result.Records, record)
	}
	return result, nil
}

func (v *RateValidator) normalize(code, name string, tableType domain.TableType, raw json.RawMessage) (domain.RateRecord, error) {
	var entry rateEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.RateRecord{}, fmt.Errorf("malformed entry: %w", err)
	}

	candidate := rateCandidate{
		CurrencyCode:  code,
		CurrencyName:  strings.TrimSpace(name),
		EffectiveDate: entry.EffectiveDate,
		TableNumber:   entry.No,
	}
	if err := v.validate.Struct(candidate); err != nil {
		return domain.RateRecord{}, describe(err)
	}

	date, err := time.Parse(dateLayout, entry.EffectiveDate)
	if err != nil {
		return domain.RateRecord{}, fmt.Errorf("invalid effective date %q", entry.EffectiveDate)
	}
	now := v.now()
	limit := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	if date.After(limit) {
		return domain.RateRecord{}, fmt.Errorf("effective date %s is in the future", entry.EffectiveDate)
	}

	var schema domain.RateSchema
	switch domain.SchemaFor(tableType).(type) {
	case domain.BidAskRate:
		bid, err := positiveRate("bid", entry.Bid)
		if err != nil {
			return domain.RateRecord{}, err
		}
		ask, err := positiveRate("ask", entry.Ask)
		if err != nil {
			return domain.RateRecord{}, err
		}
		schema = domain.BidAskRate{Bid: bid, Ask: ask}
	case domain.MidRate:
		mid, err := positiveRate("mid", entry.Mid)
		if err != nil {
			return domain.RateRecord{}, err
		}
		schema = domain.MidRate{Mid: mid}
	}

	return domain.RateRecord{
		CurrencyCode:  candidate.CurrencyCode,
		CurrencyName:  candidate.CurrencyName,
		TableType:     tableType,
		Rate:          schema,
		EffectiveDate: date,
		TableNumber:   candidate.TableNumber,
	}, nil
}

// positiveRate accepts an absent or null value as "not quoted". A present
// value must be a positive number; numeric strings are tolerated.
func positiveRate(field string, raw json.RawMessage) (decimal.NullDecimal, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.NullDecimal{}, nil
	}

	text := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("invalid %s rate", field)
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s rate %s", field, text)
	}
	if !d.IsPositive() {
		return decimal.NullDecimal{}, fmt.Errorf("%s rate must be positive, got %s", field, d.String())
	}
	return decimal.NewNullDecimal(d), nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s %q failed %s", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return errors.New(strings.Join(parts, "; "))
}
