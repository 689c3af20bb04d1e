package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timestamps are set by the store on every write.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CurrencyRate is a row of the currency_rates table.
// Only rate_mid or rate_bid/rate_ask is set, depending on TableType.
type CurrencyRate struct {
	ID            int64               `json:"id"`
	CurrencyCode  string              `json:"currencyCode"`
	CurrencyName  string              `json:"currencyName"`
	TableType     string              `json:"tableType"`
	RateMid       decimal.NullDecimal `json:"rateMid"`
	RateBid       decimal.NullDecimal `json:"rateBid"`
	RateAsk       decimal.NullDecimal `json:"rateAsk"`
	EffectiveDate time.Time           `json:"effectiveDate"`
	TableNumber   string              `json:"tableNumber"`
	Timestamps
}
