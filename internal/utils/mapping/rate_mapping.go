package mapping

import (
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/SscSPs/currency_rate_app/internal/models"
)

// ToModelCurrencyRate flattens a domain record into a row. The rate columns
// that do not belong to the record's table type are always left NULL.
func ToModelCurrencyRate(d domain.RateRecord) models.CurrencyRate {
	m := models.CurrencyRate{
		ID:            d.ID,
		CurrencyCode:  d.CurrencyCode,
		CurrencyName:  d.CurrencyName,
		TableType:     string(d.TableType),
		EffectiveDate: DateOnly(d.EffectiveDate),
		TableNumber:   d.TableNumber,
		Timestamps: models.Timestamps{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}

	switch r := d.Rate.(type) {
	case domain.MidRate:
		if d.TableType != domain.TableC {
			m.RateMid = r.Mid
		}
	case domain.BidAskRate:
		if d.TableType == domain.TableC {
			m.RateBid = r.Bid
			m.RateAsk = r.Ask
		}
	}
	return m
}

// ToDomainRateRecord rebuilds the rate schema from the row's table type.
func ToDomainRateRecord(m models.CurrencyRate) domain.RateRecord {
	tableType := domain.TableType(m.TableType)

	var rate domain.RateSchema
	switch domain.SchemaFor(tableType).(type) {
	case domain.BidAskRate:
		rate = domain.BidAskRate{Bid: m.RateBid, Ask: m.RateAsk}
	case domain.MidRate:
		rate = domain.MidRate{Mid: m.RateMid}
	}

	return domain.RateRecord{
		ID:            m.ID,
		CurrencyCode:  m.CurrencyCode,
		CurrencyName:  m.CurrencyName,
		TableType:     tableType,
		Rate:          rate,
		EffectiveDate: DateOnly(m.EffectiveDate),
		TableNumber:   m.TableNumber,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// DateOnly drops the clock part, keeping the calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
