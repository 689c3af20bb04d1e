package config

import (
	"log"
	"strings"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Upstream rate API
	NBPBaseURL        string
	NBPTimeout        time.Duration
	NBPMaxAttempts    int
	NBPInitialBackoff time.Duration

	// Rate pipeline defaults; persisted overrides take precedence at runtime
	TableType         domain.TableType
	EnabledCurrencies []string
	CacheTTL          time.Duration
	CachePrefix       string
	CacheMaxEntries   int
	ItemsPerPage      int
	AutoCleanup       bool
	RetentionDays     int
	CronToken         string `mapstructure:"RATES_CRON_TOKEN"`
	CronSchedule      string
	QuotationUnit     string
	BaseCurrency      string
	IngestConcurrency int

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int

	RateLimit          string
	RateLimitPrefix    string
	CORSAllowedOrigins []string

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)

	v.SetDefault("NBP_BASE_URL", "https://api.nbp.pl/api/exchangerates")
	v.SetDefault("NBP_TIMEOUT", "10s")
	v.SetDefault("NBP_MAX_ATTEMPTS", 3)
	v.SetDefault("NBP_INITIAL_BACKOFF", "2s")

	v.SetDefault("RATES_TABLE_TYPE", string(domain.DefaultTableType))
	v.SetDefault("RATES_ENABLED_CURRENCIES", "EUR,USD,GBP,CHF")
	v.SetDefault("RATES_CACHE_TTL", 86400)
	v.SetDefault("RATES_CACHE_PREFIX", "currencyrate_")
	v.SetDefault("RATES_CACHE_MAX_ENTRIES", 1000)
	v.SetDefault("RATES_ITEMS_PER_PAGE", 10)
	v.SetDefault("RATES_AUTO_CLEANUP", true)
	v.SetDefault("RATES_RETENTION_DAYS", 30)
	v.SetDefault("RATES_CRON_TOKEN", "")
	v.SetDefault("RATES_CRON_SCHEDULE", "30 12 * * 1-5")
	v.SetDefault("RATES_QUOTATION_UNIT", "PLN")
	v.SetDefault("RATES_BASE_CURRENCY", "PLN")
	v.SetDefault("RATES_INGEST_CONCURRENCY", 1)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("RATE_LIMIT_PREFIX", "ratelimit")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.DatabaseURL = v.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = v.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = v.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = v.GetBool("ENABLE_DB_CHECK")

	cfg.NBPBaseURL = strings.TrimRight(v.GetString("NBP_BASE_URL"), "/")
	cfg.NBPTimeout = durationOr(v.GetString("NBP_TIMEOUT"), 10*time.Second, "NBP_TIMEOUT")
	cfg.NBPMaxAttempts = v.GetInt("NBP_MAX_ATTEMPTS")
	if cfg.NBPMaxAttempts < 1 {
		log.Printf("Warning: Invalid value for NBP_MAX_ATTEMPTS (%d). Defaulting to 3.\n", cfg.NBPMaxAttempts)
		cfg.NBPMaxAttempts = 3
	}
	cfg.NBPInitialBackoff = durationOr(v.GetString("NBP_INITIAL_BACKOFF"), 2*time.Second, "NBP_INITIAL_BACKOFF")

	tableType, err := domain.ParseTableType(v.GetString("RATES_TABLE_TYPE"))
	if err != nil {
		log.Printf("Warning: %v. Defaulting to %s.\n", err, domain.DefaultTableType)
		tableType = domain.DefaultTableType
	}
	cfg.TableType = tableType
	cfg.EnabledCurrencies = SplitList(v.GetString("RATES_ENABLED_CURRENCIES"))

	ttlSeconds := v.GetInt("RATES_CACHE_TTL")
	if ttlSeconds <= 0 {
		ttlSeconds = 86400
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second
	cfg.CachePrefix = v.GetString("RATES_CACHE_PREFIX")
	if cfg.CachePrefix == "" {
		log.Println("Warning: RATES_CACHE_PREFIX is empty. Defaulting to currencyrate_.")
		cfg.CachePrefix = "currencyrate_"
	}
	cfg.CacheMaxEntries = v.GetInt("RATES_CACHE_MAX_ENTRIES")

	cfg.ItemsPerPage = v.GetInt("RATES_ITEMS_PER_PAGE")
	if cfg.ItemsPerPage <= 0 {
		cfg.ItemsPerPage = 10
	}
	cfg.AutoCleanup = v.GetBool("RATES_AUTO_CLEANUP")
	cfg.RetentionDays = v.GetInt("RATES_RETENTION_DAYS")
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}

	cfg.CronToken = v.GetString("RATES_CRON_TOKEN")
	if cfg.CronToken == "" {
		log.Println("Warning: RATES_CRON_TOKEN not set. The update endpoint is open to anyone.")
	}
	cfg.CronSchedule = v.GetString("RATES_CRON_SCHEDULE")
	cfg.QuotationUnit = strings.ToUpper(v.GetString("RATES_QUOTATION_UNIT"))
	cfg.BaseCurrency = strings.ToUpper(v.GetString("RATES_BASE_CURRENCY"))
	cfg.IngestConcurrency = v.GetInt("RATES_INGEST_CONCURRENCY")
	if cfg.IngestConcurrency < 1 {
		cfg.IngestConcurrency = 1
	}

	cfg.RedisAddr = v.GetString("REDIS_ADDR")
	cfg.RedisPassword = v.GetString("REDIS_PASSWORD")
	cfg.RedisDB = v.GetInt("REDIS_DB")

	cfg.RateLimit = v.GetString("RATE_LIMIT")
	cfg.RateLimitPrefix = LimiterPrefix(cfg.CachePrefix, v.GetString("RATE_LIMIT_PREFIX"))
	cfg.CORSAllowedOrigins = strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",")

	cfg.PosthogAPIKey = v.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = v.GetString("POSTHOG_ENDPOINT")

	return cfg
}

// Settings returns the pipeline defaults as a domain value.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		EnabledCurrencies: append([]string(nil), c.EnabledCurrencies...),
		TableType:         c.TableType,
		CacheTTL:          c.CacheTTL,
		ItemsPerPage:      c.ItemsPerPage,
		AutoCleanup:       c.AutoCleanup,
		RetentionDays:     c.RetentionDays,
		CronToken:         c.CronToken,
		QuotationUnit:     c.QuotationUnit,
		BaseCurrency:      c.BaseCurrency,
	}
}

// LimiterPrefix returns requested unless it falls inside the cache namespace,
// whose keys are all removed when the cache is cleared.
func LimiterPrefix(cachePrefix, requested string) string {
	for _, candidate := range []string{requested, "ratelimit", "limiter"} {
		if candidate != "" && !strings.HasPrefix(candidate, cachePrefix) {
			if candidate != requested {
				log.Printf("Warning: RATE_LIMIT_PREFIX ('%s') overlaps the cache prefix. Defaulting to %s.\n", requested, candidate)
			}
			return candidate
		}
	}
	return "limiter"
}

// SplitList parses a comma-joined currency list, upper-casing and dropping blanks and repeats.
func SplitList(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func durationOr(raw string, fallback time.Duration, key string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
