package dto

import (
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HistoryQueryParams defines the query string accepted by the history endpoint.
// Page stays a string so that junk input is coerced to the first page rather than rejected.
type HistoryQueryParams struct {
	Page     string `form:"page"`
	OrderBy  string `form:"orderby"`
	OrderWay string `form:"orderway"`
	Currency string `form:"currency" binding:"omitempty,len=3,alpha"`
	Search   string `form:"search" binding:"max=100"`
}

// RateResponse is the API shape of a stored rate. Only the columns of the
// record's table type are set.
type RateResponse struct {
	ID            int64            `json:"id"`
	CurrencyCode  string           `json:"currencyCode"`
	CurrencyName  string           `json:"currencyName"`
	TableType     domain.TableType `json:"tableType"`
	RateMid       *decimal.Decimal `json:"rateMid,omitempty"`
	RateBid       *decimal.Decimal `json:"rateBid,omitempty"`
	RateAsk       *decimal.Decimal `json:"rateAsk,omitempty"`
	EffectiveDate string           `json:"effectiveDate"`
	TableNumber   string           `json:"tableNumber"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PaginationResponse describes the page returned by the history endpoint.
type PaginationResponse struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// HistoryFilters echoes the filters that were actually applied.
type HistoryFilters struct {
	OrderBy  string               `json:"orderBy"`
	OrderWay domain.SortDirection `json:"orderWay"`
	Currency string               `json:"currency"`
	Search   string               `json:"search"`
}

// HistoryResponse is the payload of the history endpoint.
type HistoryResponse struct {
	Records             []RateResponse        `json:"records"`
	Pagination          PaginationResponse    `json:"pagination"`
	Filters             HistoryFilters        `json:"filters"`
	AvailableCurrencies []domain.CurrencyInfo `json:"availableCurrencies"`
	TableType           domain.TableType      `json:"tableType"`
}

// ToRateResponse converts a domain.RateRecord to RateResponse DTO
func ToRateResponse(rec domain.RateRecord) RateResponse {
	resp := RateResponse{
		ID:            rec.ID,
		CurrencyCode:  rec.CurrencyCode,
		CurrencyName:  rec.CurrencyName,
		TableType:     rec.TableType,
		EffectiveDate: rec.EffectiveDate.Format("2006-01-02"),
		TableNumber:   rec.TableNumber,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}

	switch r := rec.Rate.(type) {
	case domain.MidRate:
		resp.RateMid = nullable(r.Mid)
	case domain.BidAskRate:
		resp.RateBid = nullable(r.Bid)
		resp.RateAsk = nullable(r.Ask)
	}
	return resp
}

// ToListRateResponse converts records to a non-nil slice of RateResponse DTOs.
func ToListRateResponse(records []domain.RateRecord) []RateResponse {
	res := make([]RateResponse, len(records))
	for i, rec := range records {
		res[i] = ToRateResponse(rec)
	}
	return res
}

func nullable(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
