package handlers

import (
	portsrepo "github.com/SscSPs/currency_rate_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	db portsrepo.HealthChecker,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)
	r.GET("/health", healthHandler(db))

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(r *gin.Engine, service *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerIngestionRoutes(v1, service.Ingestion, service.Settings)
	registerRatesRoutes(v1, service.History, service.Converter, service.Settings)
	registerCurrencyRoutes(v1, service.Currency, service.Settings)
}
