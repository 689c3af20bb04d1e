package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func getHome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Currency rates API v1"})
}

// healthHandler godoc
// @Summary Liveness and database check
// @Tags root
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 503 {string} string "database unavailable"
// @Router /health [get]
func healthHandler(db portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				middleware.GetLoggerFromContext(c).Error("Health check failed", slog.String("error", err.Error()))
				c.String(http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
