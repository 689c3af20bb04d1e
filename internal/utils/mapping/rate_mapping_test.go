package mapping_test

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/SscSPs/currency_rate_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestToModelCurrencyRate_SchemaColumns(t *testing.T) {
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	mid := mapping.ToModelCurrencyRate(domain.RateRecord{
		CurrencyCode: "EUR", TableType: domain.TableA, EffectiveDate: day,
		Rate: domain.MidRate{Mid: nd("4.30")},
	})
	assert.True(t, mid.RateMid.Valid)
	assert.False(t, mid.RateBid.Valid)
	assert.False(t, mid.RateAsk.Valid)

	bidAsk := mapping.ToModelCurrencyRate(domain.RateRecord{
		CurrencyCode: "USD", TableType: domain.TableC, EffectiveDate: day,
		Rate: domain.BidAskRate{Bid: nd("3.9"), Ask: nd("4.0")},
	})
	assert.False(t, bidAsk.RateMid.Valid)
	assert.True(t, bidAsk.RateBid.Valid)
	assert.True(t, bidAsk.RateAsk.Valid)

	// a schema that contradicts the table type never reaches the row
	mismatched := mapping.ToModelCurrencyRate(domain.RateRecord{
		CurrencyCode: "USD", TableType: domain.TableC, EffectiveDate: day,
		Rate: domain.MidRate{Mid: nd("4.0")},
	})
	assert.False(t, mismatched.RateMid.Valid)
}

func TestRoundTrip(t *testing.T) {
	in := domain.RateRecord{
		ID:            7,
		CurrencyCode:  "GBP",
		CurrencyName:  "funt szterling",
		TableType:     domain.TableB,
		Rate:          domain.MidRate{Mid: nd("5.0123")},
		EffectiveDate: time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC),
		TableNumber:   "001/B/NBP/2024",
	}

	out := mapping.ToDomainRateRecord(mapping.ToModelCurrencyRate(in))

	assert.Equal(t, in.CurrencyCode, out.CurrencyCode)
	assert.Equal(t, in.TableNumber, out.TableNumber)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), out.EffectiveDate)
	assert.Equal(t, in.Rate, out.Rate)
}
