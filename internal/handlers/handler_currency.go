package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/dto"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currencyHandler handles HTTP requests related to the currency catalogue and runtime settings.
type currencyHandler struct {
	currencyService portssvc.CurrencySvc
	settingsService portssvc.SettingsSvc
}

func newCurrencyHandler(cs portssvc.CurrencySvc, ss portssvc.SettingsSvc) *currencyHandler {
	return &currencyHandler{
		currencyService: cs,
		settingsService: ss,
	}
}

// registerCurrencyRoutes registers the public catalogue route and the token-protected admin routes.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvc, settingsService portssvc.SettingsSvc) {
	h := newCurrencyHandler(currencyService, settingsService)

	rg.GET("/currencies/available", h.listAvailable)

	admin := rg.Group("/admin", middleware.CronTokenAuth(settingsService))
	{
		admin.GET("/settings", h.getSettings)
		admin.PUT("/table-type", h.switchTableType)
		admin.PUT("/currencies", h.updateCurrencies)
	}
}

// listAvailable godoc
// @Summary List available currencies
// @Description Currencies published in the active table, labelled "CODE - name".
// @Tags currencies
// @Produce json
// @Success 200 {array} domain.CurrencyInfo
// @Failure 500 {object} ErrorResponse
// @Router /currencies/available [get]
func (h *currencyHandler) listAvailable(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	currencies, err := h.currencyService.AvailableCurrencies(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list currencies")
		return
	}
	logger.Info("Currencies listed successfully", slog.Int("count", len(currencies)))
	c.JSON(http.StatusOK, currencies)
}

// getSettings godoc
// @Summary Current runtime settings
// @Tags admin
// @Produce json
// @Param token query string false "Shared-secret token"
// @Success 200 {object} dto.SettingsResponse
// @Failure 401 {object} map[string]interface{}
// @Router /admin/settings [get]
func (h *currencyHandler) getSettings(c *gin.Context) {
	settings, err := h.settingsService.Current(c.Request.Context())
	if err != nil {
		respondServiceError(c, middleware.GetLoggerFromContext(c), err, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}

// switchTableType godoc
// @Summary Switch the active table type
// @Description Moving to a different table deletes the stored rates of the old one,
// @Description clears the cache and empties the enabled currency list.
// @Tags admin
// @Accept json
// @Produce json
// @Param token query string false "Shared-secret token"
// @Param request body dto.SwitchTableTypeRequest true "Table type"
// @Success 200 {object} domain.TableTypeChange
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /admin/table-type [put]
func (h *currencyHandler) switchTableType(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.SwitchTableTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SwitchTableType", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	tableType, err := domain.ParseTableType(req.TableType)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	change, err := h.currencyService.SwitchTableType(c.Request.Context(), tableType)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to switch table type")
		return
	}
	c.JSON(http.StatusOK, change)
}

// updateCurrencies godoc
// @Summary Replace the enabled currencies
// @Tags admin
// @Accept json
// @Produce json
// @Param token query string false "Shared-secret token"
// @Param request body dto.UpdateCurrenciesRequest true "Currency codes"
// @Success 200 {object} dto.SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} ErrorResponse
// @Router /admin/currencies [put]
func (h *currencyHandler) updateCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.UpdateCurrenciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCurrencies", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	settings, err := h.settingsService.UpdateEnabledCurrencies(c.Request.Context(), req.Currencies)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update currencies")
		return
	}
	c.JSON(http.StatusOK, dto.ToSettingsResponse(settings))
}
