package domain

import (
	"slices"
	"time"
)

// Settings is the runtime configuration the ingestion pipeline and the
// converter are built with. It is passed by value; nothing mutates it globally.
type Settings struct {
	EnabledCurrencies []string      `json:"enabledCurrencies"`
	TableType         TableType     `json:"tableType"`
	CacheTTL          time.Duration `json:"cacheTTL"`
	ItemsPerPage      int           `json:"itemsPerPage"`
	AutoCleanup       bool          `json:"autoCleanup"`
	RetentionDays     int           `json:"retentionDays"`
	CronToken         string        `json:"-"`
	QuotationUnit     string        `json:"quotationUnit"`
	BaseCurrency      string        `json:"baseCurrency"`
	LastRun           *time.Time    `json:"lastRun,omitempty"`
}

// IsEnabled reports whether code is among the enabled currencies.
func (s Settings) IsEnabled(code string) bool {
	return slices.Contains(s.EnabledCurrencies, code)
}

// RetentionCutoff returns the first day that survives pruning relative to now.
func (s Settings) RetentionCutoff(now time.Time) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -s.RetentionDays)
}
