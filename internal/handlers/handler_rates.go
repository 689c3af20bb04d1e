package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/dto"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/SscSPs/currency_rate_app/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// ratesHandler serves stored rates: history, latest and conversions.
type ratesHandler struct {
	historyService   portssvc.HistorySvc
	converterService portssvc.ConverterSvc
	settingsService  portssvc.SettingsSvc
}

func registerRatesRoutes(rg *gin.RouterGroup, history portssvc.HistorySvc, converter portssvc.ConverterSvc, settings portssvc.SettingsSvc) {
	h := &ratesHandler{
		historyService:   history,
		converterService: converter,
		settingsService:  settings,
	}

	rates := rg.Group("/rates")
	{
		rates.GET("/history", h.history)
		rates.GET("/latest/:code", h.latest)
		rates.GET("/convert", h.convert)
	}
}

// history godoc
// @Summary Rate history
// @Description Returns one page of stored rates of the active table type.
// @Description Unknown sort fields fall back to effectiveDate; invalid pages select page 1.
// @Tags rates
// @Produce json
// @Param page query string false "Page number"
// @Param orderby query string false "Sort field" Enums(effectiveDate, currencyCode, rateMid, rateBid, rateAsk, tableType)
// @Param orderway query string false "Sort direction" Enums(asc, desc)
// @Param currency query string false "Enabled currency code"
// @Param search query string false "Substring of code or name"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rates/history [get]
func (h *ratesHandler) history(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.HistoryQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid history query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.historyService.History(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load rate history")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// latest godoc
// @Summary Latest rate of a currency
// @Tags rates
// @Produce json
// @Param code path string true "Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rates/latest/{code} [get]
func (h *ratesHandler) latest(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c).With(slog.String("currency_code", c.Param("code")))

	rec, err := h.historyService.Latest(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve rate")
		return
	}
	c.JSON(http.StatusOK, dto.ToRateResponse(*rec))
}

// convert godoc
// @Summary Convert an amount
// @Description Converts amount (in from, default the base currency) into every enabled currency.
// @Description Currencies without a usable stored rate are omitted.
// @Tags rates
// @Produce json
// @Param amount query string true "Non-negative decimal amount"
// @Param from query string false "Source currency code"
// @Param page query string false "Page number"
// @Success 200 {object} domain.ConversionPage
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rates/convert [get]
func (h *ratesHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var params dto.ConvertQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid conversion query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	amount, ok := params.ParsedAmount()
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "amount must be a non-negative number"})
		return
	}

	settings, err := h.settingsService.Current(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load settings")
		return
	}

	page, err := h.converterService.ConvertPaginated(
		c.Request.Context(),
		amount,
		params.From,
		settings.EnabledCurrencies,
		pagination.ParsePage(params.Page),
		settings.ItemsPerPage,
	)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to convert amount")
		return
	}
	c.JSON(http.StatusOK, page)
}
