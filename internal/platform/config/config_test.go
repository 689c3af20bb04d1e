package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/SscSPs/currency_rate_app/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.nbp.pl/api/exchangerates", cfg.NBPBaseURL)
	assert.Equal(t, 10*time.Second, cfg.NBPTimeout)
	assert.Equal(t, 3, cfg.NBPMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.NBPInitialBackoff)
	assert.Equal(t, domain.TableA, cfg.TableType)
	assert.Equal(t, []string{"EUR", "USD", "GBP", "CHF"}, cfg.EnabledCurrencies)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "currencyrate_", cfg.CachePrefix)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.True(t, cfg.AutoCleanup)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, "PLN", cfg.QuotationUnit)
	assert.Equal(t, "ratelimit", cfg.RateLimitPrefix)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RATES_TABLE_TYPE", "c")
	t.Setenv("RATES_ENABLED_CURRENCIES", " usd,eur,,USD ")
	t.Setenv("RATES_CACHE_TTL", "600")
	t.Setenv("RATES_RETENTION_DAYS", "-4")
	t.Setenv("NBP_TIMEOUT", "not-a-duration")
	t.Setenv("RATES_CRON_TOKEN", "s3cret")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, domain.TableC, cfg.TableType)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.EnabledCurrencies)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 10*time.Second, cfg.NBPTimeout)

	settings := cfg.Settings()
	assert.Equal(t, "s3cret", settings.CronToken)
	assert.Equal(t, domain.TableC, settings.TableType)
}

func TestLoadConfig_InvalidTableTypeFallsBack(t *testing.T) {
	t.Setenv("RATES_TABLE_TYPE", "Z")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, domain.TableA, cfg.TableType)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, config.SplitList(""))
	assert.Equal(t, []string{"EUR", "GBP"}, config.SplitList("eur, gbp ,EUR"))
}

func TestLoadConfig_LimiterPrefixStaysOutsideCacheNamespace(t *testing.T) {
	t.Setenv("RATES_CACHE_PREFIX", "currencyrate_")
	t.Setenv("RATE_LIMIT_PREFIX", "currencyrate_limiter")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "ratelimit", cfg.RateLimitPrefix)
}

func TestLimiterPrefix(t *testing.T) {
	assert.Equal(t, "api_limits", config.LimiterPrefix("currencyrate_", "api_limits"))
	assert.Equal(t, "ratelimit", config.LimiterPrefix("currencyrate_", ""))
	assert.Equal(t, "limiter", config.LimiterPrefix("r", "rl"))
}
