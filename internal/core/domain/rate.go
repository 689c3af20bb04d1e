package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TableType classifies an upstream rate publication.
// Tables A and B carry a single mid rate, table C carries bid/ask quotes.
type TableType string

const (
	TableA TableType = "A"
	TableB TableType = "B"
	TableC TableType = "C"
)

// DefaultTableType is used when nothing else is configured.
const DefaultTableType = TableA

// AllTableTypes lists every known table type in publication order.
var AllTableTypes = []TableType{TableA, TableB, TableC}

// Valid reports whether t is one of A, B or C.
func (t TableType) Valid() bool {
	switch t {
	case TableA, TableB, TableC:
		return true
	}
	return false
}

// ParseTableType accepts a case-insensitive table letter.
func ParseTableType(s string) (TableType, error) {
	t := TableType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid table type %q", s)
	}
	return t, nil
}

// RateSchema is the rate payload of a record. It is either MidRate or BidAskRate;
// the variant is chosen by the record's table type.
type RateSchema interface {
	isRateSchema()
}

// MidRate is the schema of tables A and B.
type MidRate struct {
	Mid decimal.NullDecimal `json:"mid"`
}

// BidAskRate is the schema of table C.
type BidAskRate struct {
	Bid decimal.NullDecimal `json:"bid"`
	Ask decimal.NullDecimal `json:"ask"`
}

func (MidRate) isRateSchema()    {}
func (BidAskRate) isRateSchema() {}

// SchemaFor returns an empty schema of the variant that belongs to t.
func SchemaFor(t TableType) RateSchema {
	if t == TableC {
		return BidAskRate{}
	}
	return MidRate{}
}

// UsableRate returns the single rate value used for conversions:
// the mid rate, or the bid/ask midpoint when both quotes are present.
func UsableRate(s RateSchema) (decimal.Decimal, bool) {
	switch r := s.(type) {
	case MidRate:
		if r.Mid.Valid {
			return r.Mid.Decimal, true
		}
	case BidAskRate:
		if r.Bid.Valid && r.Ask.Valid {
			return r.Bid.Decimal.Add(r.Ask.Decimal).Div(decimal.NewFromInt(2)), true
		}
	}
	return decimal.Zero, false
}

// RateRecord is a single validated rate for one currency, table type and day.
// The natural key is (CurrencyCode, TableType, EffectiveDate).
type RateRecord struct {
	ID            int64      `json:"id"`
	CurrencyCode  string     `json:"currencyCode"`
	CurrencyName  string     `json:"currencyName"`
	TableType     TableType  `json:"tableType"`
	Rate          RateSchema `json:"rate"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	TableNumber   string     `json:"tableNumber"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Key returns the natural key of the record.
func (r RateRecord) Key() RateKey {
	return RateKey{CurrencyCode: r.CurrencyCode, TableType: r.TableType, EffectiveDate: r.EffectiveDate}
}

// RateKey identifies a record by business fields.
type RateKey struct {
	CurrencyCode  string
	TableType     TableType
	EffectiveDate time.Time
}

// CurrencyInfo is a (code, name) pair as listed by the upstream tables.
type CurrencyInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
