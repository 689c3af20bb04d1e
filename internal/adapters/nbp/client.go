package nbp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/apperrors"
	"github.com/SscSPs/currency_rate_app/internal/core/domain"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL     = "https://api.nbp.pl/api/exchangerates"
	DefaultCount       = 30
	MaxCount           = 255
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultBackoff     = 2 * time.Second
)

// Client reads exchange-rate tables from the NBP API. Successful responses
// are cached; 404s and requests that keep failing are reported as "no data".
type Client struct {
	baseURL     string
	transport   Transport
	cache       portssvc.RateCache
	cacheTTL    time.Duration
	timeout     time.Duration
	maxAttempts int
	newBackOff  func() backoff.BackOff
	logger      *slog.Logger
	inflight    singleflight.Group
}

var _ portssvc.RateClient = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) { c.cacheTTL = d }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackOff replaces the wait policy between attempts.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(c *Client) { c.newBackOff = factory }
}

// ExponentialBackOff waits initial, 2*initial, 4*initial... with no jitter.
func ExponentialBackOff(initial time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = initial
		b.Multiplier = 2
		b.RandomizationFactor = 0
		b.MaxInterval = time.Minute
		b.MaxElapsedTime = 0
		b.Reset()
		return b
	}
}

// NewClient creates a Client. cache may be nil to disable caching.
func NewClient(transport Transport, cache portssvc.RateCache, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL:     DefaultBaseURL,
		transport:   transport,
		cache:       cache,
		timeout:     DefaultTimeout,
		maxAttempts: DefaultMaxAttempts,
		newBackOff:  ExponentialBackOff(DefaultBackoff),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeCount clamps count to [1, MaxCount]; non-positive values select DefaultCount.
func NormalizeCount(count int) int {
	if count <= 0 {
		count = DefaultCount
	}
	return min(MaxCount, max(1, count))
}

func (c *Client) FetchTable(ctx context.Context, tableType domain.TableType, count int) (json.RawMessage, bool, error) {
	if !tableType.Valid() {
		return nil, false, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}
	count = NormalizeCount(count)
	key := fmt.Sprintf("nbp_table_%s_last_%d", tableType, count)
	return c.fetch(ctx, key, fmt.Sprintf("/tables/%s/last/%d/", tableType, count))
}

func (c *Client) FetchCurrencySeries(ctx context.Context, tableType domain.TableType, code string, count int) (json.RawMessage, bool, error) {
	if !tableType.Valid() {
		return nil, false, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}
	code = strings.ToUpper(code)
	count = NormalizeCount(count)
	key := fmt.Sprintf("nbp_currency_%s_%s_last_%d", code, tableType, count)
	return c.fetch(ctx, key, fmt.Sprintf("/rates/%s/%s/last/%d/", tableType, code, count))
}

func (c *Client) FetchCurrentRate(ctx context.Context, tableType domain.TableType, code string) (json.RawMessage, bool, error) {
	if !tableType.Valid() {
		return nil, false, fmt.Errorf("%w: invalid table type %q", apperrors.ErrValidation, tableType)
	}
	code = strings.ToUpper(code)
	key := fmt.Sprintf("nbp_current_%s_%s", code, tableType)
	return c.fetch(ctx, key, fmt.Sprintf("/rates/%s/%s/", tableType, code))
}

type tableEnvelope struct {
	Rates []struct {
		Currency string `json:"currency"`
		Code     string `json:"code"`
	} `json:"rates"`
}

// GetAvailableCurrencies lists the currencies of the most recent table.
func (c *Client) GetAvailableCurrencies(ctx context.Context, tableType domain.TableType) ([]domain.CurrencyInfo, error) {
	body, found, err := c.FetchTable(ctx, tableType, 1)
	if err != nil {
		return nil, err
	}
	currencies := []domain.CurrencyInfo{}
	if !found {
		return currencies, nil
	}

	var tables []tableEnvelope
	if err := json.Unmarshal(body, &tables); err != nil {
		return nil, fmt.Errorf("%w: unexpected table shape: %v", apperrors.ErrValidation, err)
	}
	if len(tables) == 0 {
		return currencies, nil
	}
	for _, r := range tables[0].Rates {
		currencies = append(currencies, domain.CurrencyInfo{Code: r.Code, Name: r.Currency})
	}
	return currencies, nil
}

type fetchResult struct {
	body  []byte
	found bool
}

func (c *Client) fetch(ctx context.Context, key, path string) (json.RawMessage, bool, error) {
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		} else if ok {
			return cached, true, nil
		}
	}

	v, err, _ := c.inflight.Do(key, func() (interface{}, error) {
		return c.fetchWithRetry(ctx, c.baseURL+path+"?format=json")
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(fetchResult)
	if !res.found {
		return nil, false, nil
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, res.body, c.cacheTTL); err != nil {
			c.logger.Warn("Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return res.body, true, nil
}

// fetchWithRetry only returns an error when ctx is done. Exhausted retries
// degrade to a not-found result.
func (c *Client) fetchWithRetry(ctx context.Context, url string) (fetchResult, error) {
	var res fetchResult
	attempt := 0

	op := func() error {
		attempt++
		body, err := c.transport.Get(ctx, url, nil, c.timeout)
		if errors.Is(err, ErrNoData) {
			c.logger.Info("No data available upstream", slog.String("url", url))
			return nil
		}
		if err != nil {
			c.logger.Warn("Rate API request failed",
				slog.String("url", url),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return err
		}
		res = fetchResult{body: body, found: true}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fetchResult{}, ctxErr
		}
		gaveUp := fmt.Errorf("%w: %s after %d attempts: %w", apperrors.ErrUnavailable, url, attempt, err)
		c.logger.Error("Rate API request gave up", slog.String("error", gaveUp.Error()))
		return fetchResult{}, nil
	}
	return res, nil
}
