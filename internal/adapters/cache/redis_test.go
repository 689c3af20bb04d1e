package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/adapters/cache"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/SscSPs/currency_rate_app/internal/platform/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ portssvc.RateCache = (*cache.RedisCache)(nil)

func newRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisCache(client, "currencyrate_", time.Hour, nil), mr
}

func TestRedisCache_SetGetExpire(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "nbp_table_A_last_1", []byte(`[{"table":"A"}]`), time.Minute))
	assert.True(t, mr.Exists("currencyrate_nbp_table_A_last_1"))

	got, ok, err := c.Get(ctx, "nbp_table_A_last_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"table":"A"}]`, string(got))

	mr.FastForward(2 * time.Minute)

	_, ok, err = c.Get(ctx, "nbp_table_A_last_1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	c, mr := newRedisCache(t)

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.Equal(t, time.Hour, mr.TTL("currencyrate_k"))
}

func TestRedisCache_ClearAllOnlyTouchesPrefix(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, k, []byte(k), 0))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.ClearAll(ctx))

	for _, k := range []string{"a", "b", "c"} {
		has, err := c.Has(ctx, k)
		require.NoError(t, err)
		assert.False(t, has)
	}
	assert.True(t, mr.Exists("unrelated"))
}

func TestRedisCache_ClearAllKeepsRateLimitCounters(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	counter := config.LimiterPrefix("currencyrate_", "currencyrate_limiter") + ":203.0.113.7"
	require.NoError(t, mr.Set(counter, "12"))
	require.NoError(t, c.Set(ctx, "nbp_currency_EUR_A_last_30", []byte("[]"), 0))

	require.NoError(t, c.ClearAll(ctx))

	assert.False(t, mr.Exists("currencyrate_nbp_currency_EUR_A_last_30"))
	require.True(t, mr.Exists(counter))
	got, err := mr.Get(counter)
	require.NoError(t, err)
	assert.Equal(t, "12", got)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	has, err := c.Has(ctx, "k")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := newRedisCache(t)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
