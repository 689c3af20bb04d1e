package dto

import "github.com/SscSPs/currency_rate_app/internal/core/domain"

// SwitchTableTypeRequest defines the body of the table-type switch.
type SwitchTableTypeRequest struct {
	TableType string `json:"tableType" binding:"required,oneof=A B C a b c"`
}

// UpdateCurrenciesRequest defines the body of the enabled-currencies update.
type UpdateCurrenciesRequest struct {
	Currencies []string `json:"currencies" binding:"required,dive,len=3,alpha"`
}

// SettingsResponse is the public view of the runtime settings.
type SettingsResponse struct {
	EnabledCurrencies []string         `json:"enabledCurrencies"`
	TableType         domain.TableType `json:"tableType"`
	ItemsPerPage      int              `json:"itemsPerPage"`
	AutoCleanup       bool             `json:"autoCleanup"`
	RetentionDays     int              `json:"retentionDays"`
	QuotationUnit     string           `json:"quotationUnit"`
	BaseCurrency      string           `json:"baseCurrency"`
	LastRun           string           `json:"lastRun,omitempty"`
}

// ToSettingsResponse converts domain.Settings to SettingsResponse DTO.
func ToSettingsResponse(s domain.Settings) SettingsResponse {
	resp := SettingsResponse{
		EnabledCurrencies: append([]string{}, s.EnabledCurrencies...),
		TableType:         s.TableType,
		ItemsPerPage:      s.ItemsPerPage,
		AutoCleanup:       s.AutoCleanup,
		RetentionDays:     s.RetentionDays,
		QuotationUnit:     s.QuotationUnit,
		BaseCurrency:      s.BaseCurrency,
	}
	if s.LastRun != nil {
		resp.LastRun = s.LastRun.UTC().Format("2006-01-02 15:04:05")
	}
	return resp
}
