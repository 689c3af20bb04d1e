package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ingestionHandler struct {
	ingestionService portssvc.IngestionSvc
}

func registerIngestionRoutes(rg *gin.RouterGroup, ingestion portssvc.IngestionSvc, settings portssvc.SettingsSvc) {
	h := &ingestionHandler{ingestionService: ingestion}

	cron := rg.Group("/cron", middleware.CronTokenAuth(settings))
	{
		cron.GET("/update", h.update)
		cron.POST("/update", h.update)
	}
}

// update godoc
// @Summary Run a rate update
// @Description Fetches, validates and stores the latest rates of every enabled currency.
// @Description Per-currency failures are reported in errors and do not fail the run.
// @Tags ingestion
// @Produce json
// @Param token query string false "Shared-secret token (or X-Cron-Token header)"
// @Success 200 {object} domain.IngestionResult
// @Failure 401 {object} map[string]interface{} "Invalid or missing token"
// @Failure 500 {object} domain.IngestionResult "Fatal error"
// @Router /cron/update [get]
// @Router /cron/update [post]
func (h *ingestionHandler) update(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	logger.Info("Received rate update request")

	result := h.ingestionService.Run(c.Request.Context())
	if !result.Success {
		logger.Error("Rate update failed", slog.String("run_id", result.RunID), slog.String("message", result.Message))
		c.JSON(http.StatusInternalServerError, result)
		return
	}

	logger.Info("Rate update finished",
		slog.String("run_id", result.RunID),
		slog.Int("updated_count", result.UpdatedCount),
		slog.Int("error_count", len(result.Errors)),
	)
	c.JSON(http.StatusOK, result)
}
