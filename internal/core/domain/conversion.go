package domain

import "github.com/shopspring/decimal"

// ConvertedRate is one target currency of a conversion.
type ConvertedRate struct {
	CurrencyCode   string          `json:"currency_code"`
	CurrencyName   string          `json:"currency_name"`
	Rate           decimal.Decimal `json:"rate"`
	ConvertedPrice decimal.Decimal `json:"converted_price"`
}

// Pagination describes a page of an in-memory list.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	ItemsPerPage int `json:"items_per_page"`
}

// ConversionPage is a paginated conversion result. AllRates holds the
// unsliced list so clients can page locally.
type ConversionPage struct {
	Rates      []ConvertedRate `json:"rates"`
	AllRates   []ConvertedRate `json:"all_rates"`
	Pagination Pagination      `json:"pagination"`
	TotalRates int             `json:"total_rates"`
}
