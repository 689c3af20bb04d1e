package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/adapters/cache"
	"github.com/SscSPs/currency_rate_app/internal/adapters/nbp"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/core/services"
	"github.com/SscSPs/currency_rate_app/internal/handlers"
	"github.com/SscSPs/currency_rate_app/internal/middleware"
	"github.com/SscSPs/currency_rate_app/internal/platform/config"
	"github.com/SscSPs/currency_rate_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/currency_rate_app/internal/utils"
	"github.com/SscSPs/currency_rate_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	migrationsPath   = "file://migrations"
	scheduledTimeout = 10 * time.Minute
	shutdownTimeout  = 15 * time.Second
)

// @title Currency Rates API
// @version 1.0
// @description Ingests central-bank exchange rates and serves history and conversions.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, migrationsPath, logger); err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db := database.OpenSQLDB(dbPool)
	defer db.Close()
	repos := pgsql.NewRepositoryProvider(db)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("Failed to connect to Redis", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
	}
	rateCache := newRateCache(cfg, redisClient, logger)

	client := nbp.NewClient(nbp.NewHTTPTransport(), rateCache, logger,
		nbp.WithBaseURL(cfg.NBPBaseURL),
		nbp.WithTimeout(cfg.NBPTimeout),
		nbp.WithCacheTTL(cfg.CacheTTL),
		nbp.WithMaxAttempts(cfg.NBPMaxAttempts),
		nbp.WithBackOff(nbp.ExponentialBackOff(cfg.NBPInitialBackoff)),
	)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()
	var tracker portssvc.EventTracker
	if posthogClient.IsInitialized() {
		tracker = posthogClient
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, client, rateCache, tracker, logger)

	var scheduler *services.Scheduler
	if cfg.CronSchedule != "" {
		scheduler, err = services.NewScheduler(cfg.CronSchedule, serviceContainer.Ingestion, logger, scheduledTimeout)
		if err != nil {
			logger.Error("Failed to create scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
	} else {
		logger.Info("RATES_CRON_SCHEDULE is empty, scheduled updates disabled")
	}

	rateLimiter, err := newRateLimiter(cfg, redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.RateLimit(rateLimiter),
		middleware.PosthogMiddleware(tracker),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, repos.Health, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

func newRateCache(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) portssvc.RateCache {
	if redisClient != nil {
		logger.Info("Using Redis rate cache", slog.String("addr", cfg.RedisAddr))
		return cache.NewRedisCache(redisClient, cfg.CachePrefix, cfg.CacheTTL, logger)
	}
	return cache.NewMemoryCache(cfg.CachePrefix, cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries))
}

// newRateLimiter shares counters through Redis when it is configured so
// that every replica enforces the same budget. Its keys live outside the
// cache prefix so that clearing the cache keeps the counters.
func newRateLimiter(cfg *config.Config, redisClient *redis.Client) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	if redisClient == nil {
		return limiter.New(memory.NewStore(), rate), nil
	}
	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix: cfg.RateLimitPrefix,
	})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, rate), nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}
	c.AddAllowHeaders("X-Request-ID", middleware.CronTokenHeader)
	c.AddExposeHeaders("X-Request-ID")
	return c
}
