package middleware

import (
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware reports every successful API call as an event named
// after the route, e.g. "/api/v1/rates/history" -> "api_v1_rates_history".
// The API is anonymous, so the client IP is used as the distinct id.
func PosthogMiddleware(tracker portssvc.EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		// unmatched routes have no full path
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
			"trigger":     GetTriggerFromCtx(c.Request.Context()),
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		tracker.Enqueue(distinctID(c), eventName, props)
	}
}

func distinctID(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return c.GetString("request_id")
}
