package dto

import "github.com/shopspring/decimal"

// ConvertQueryParams defines the query string of the conversion endpoint.
type ConvertQueryParams struct {
	Amount string `form:"amount" binding:"required"`
	From   string `form:"from" binding:"omitempty,len=3,alpha"`
	Page   string `form:"page"`
}

// ParsedAmount returns the amount as a decimal; ok is false for junk or negative input.
func (p ConvertQueryParams) ParsedAmount() (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount, true
}
