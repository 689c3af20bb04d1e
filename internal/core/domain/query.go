package domain

import (
	"strings"
	"time"
)

// SortDirection for rate queries.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// RateFilter narrows rate queries. Zero values mean "no constraint".
type RateFilter struct {
	CurrencyCode string
	TableType    TableType
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
}

// RateQuery is a paged, sorted rate listing request.
// SortField is matched against an allow-list by the store.
type RateQuery struct {
	Filter    RateFilter
	Page      int
	PageSize  int
	SortField string
	Direction SortDirection
}

// DefaultSortField is used when the requested sort field is not allow-listed.
const DefaultSortField = "effectiveDate"

// sortFields maps a normalized name (lowercase, no underscores) to the API name.
var sortFields = map[string]string{
	"effectivedate": "effectiveDate",
	"currencycode":  "currencyCode",
	"ratemid":       "rateMid",
	"ratebid":       "rateBid",
	"rateask":       "rateAsk",
	"tabletype":     "tableType",
}

// NormalizeSortField resolves field against the allow-list. Both camelCase
// and snake_case spellings are accepted; anything else yields DefaultSortField.
func NormalizeSortField(field string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(field), "_", ""))
	if name, ok := sortFields[key]; ok {
		return name
	}
	return DefaultSortField
}

// NormalizeDirection returns SortAsc only for an explicit ascending request.
func NormalizeDirection(direction string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(direction), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}
