package middleware

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// CronTokenHeader is the header alternative to the token query parameter.
const CronTokenHeader = "X-Cron-Token"

// CronTokenAuth guards a route with the shared-secret token from the current
// settings. An empty configured token leaves the route open.
func CronTokenAuth(settingsSvc services.SettingsSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)

		settings, err := settingsSvc.Current(c.Request.Context())
		if err != nil {
			logger.Error("Failed to load settings for token check", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
			return
		}

		if settings.CronToken != "" {
			provided := c.Query("token")
			if provided == "" {
				provided = c.GetHeader(CronTokenHeader)
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(settings.CronToken)) != 1 {
				err := fmt.Errorf("%w: invalid or missing token from %s", apperrors.ErrUnauthorized, c.ClientIP())
				logger.Warn("Rejected request", slog.String("error", err.Error()))
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or missing token"})
				return
			}
		}

		c.Request = c.Request.WithContext(WithTrigger(c.Request.Context(), TriggerHTTP))
		c.Next()
	}
}
