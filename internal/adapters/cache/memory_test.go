package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/currency_rate_app/internal/adapters/cache"
	portssvc "github.com/SscSPs/currency_rate_app/internal/core/ports/services"
	"github.com/stretchr/testify/suite"
)

var _ portssvc.RateCache = (*cache.MemoryCache)(nil)

type MemoryCacheTestSuite struct {
	suite.Suite
	now   time.Time
	cache *cache.MemoryCache
	ctx   context.Context
}

func (suite *MemoryCacheTestSuite) SetupTest() {
	suite.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.ctx = context.Background()
	suite.cache = cache.NewMemoryCache("currencyrate_", time.Hour, cache.WithClock(func() time.Time { return suite.now }))
}

func (suite *MemoryCacheTestSuite) TestSetThenGet() {
	suite.Require().NoError(suite.cache.Set(suite.ctx, "k", []byte("v"), 0))

	got, ok, err := suite.cache.Get(suite.ctx, "k")
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Equal([]byte("v"), got)

	has, err := suite.cache.Has(suite.ctx, "k")
	suite.Require().NoError(err)
	suite.True(has)
}

func (suite *MemoryCacheTestSuite) TestExpiredEntryIsAbsentAndRemoved() {
	suite.Require().NoError(suite.cache.Set(suite.ctx, "k", []byte("v"), time.Minute))

	suite.now = suite.now.Add(time.Minute)
	_, ok, _ := suite.cache.Get(suite.ctx, "k")
	suite.True(ok, "entry is still live at exactly its expiry instant")

	suite.now = suite.now.Add(time.Second)
	_, ok, err := suite.cache.Get(suite.ctx, "k")
	suite.Require().NoError(err)
	suite.False(ok)
	suite.Equal(0, suite.cache.Len())
}

func (suite *MemoryCacheTestSuite) TestDefaultTTLApplied() {
	suite.Require().NoError(suite.cache.Set(suite.ctx, "k", []byte("v"), -5))

	suite.now = suite.now.Add(59 * time.Minute)
	has, _ := suite.cache.Has(suite.ctx, "k")
	suite.True(has)

	suite.now = suite.now.Add(2 * time.Minute)
	has, _ = suite.cache.Has(suite.ctx, "k")
	suite.False(has)
}

func (suite *MemoryCacheTestSuite) TestDeleteAndClearAll() {
	suite.Require().NoError(suite.cache.Set(suite.ctx, "a", []byte("1"), 0))
	suite.Require().NoError(suite.cache.Set(suite.ctx, "b", []byte("2"), 0))
	suite.Require().NoError(suite.cache.Set(suite.ctx, "c", []byte("3"), 0))

	suite.Require().NoError(suite.cache.Delete(suite.ctx, "a"))
	has, _ := suite.cache.Has(suite.ctx, "a")
	suite.False(has)

	suite.Require().NoError(suite.cache.ClearAll(suite.ctx))
	suite.Equal(0, suite.cache.Len())
}

func (suite *MemoryCacheTestSuite) TestReturnedValueIsACopy() {
	suite.Require().NoError(suite.cache.Set(suite.ctx, "k", []byte("abc"), 0))

	got, _, _ := suite.cache.Get(suite.ctx, "k")
	got[0] = 'z'

	again, _, _ := suite.cache.Get(suite.ctx, "k")
	suite.Equal([]byte("abc"), again)
}

func (suite *MemoryCacheTestSuite) TestMaxEntriesEvictsExpiredFirst() {
	c := cache.NewMemoryCache("p_", time.Hour,
		cache.WithMaxEntries(2),
		cache.WithClock(func() time.Time { return suite.now }),
	)
	suite.Require().NoError(c.Set(suite.ctx, "short", []byte("1"), time.Minute))
	suite.Require().NoError(c.Set(suite.ctx, "long", []byte("2"), 3*time.Hour))

	suite.now = suite.now.Add(2 * time.Minute)
	suite.Require().NoError(c.Set(suite.ctx, "new", []byte("3"), time.Hour))

	suite.Equal(2, c.Len())
	has, _ := c.Has(suite.ctx, "long")
	suite.True(has)
	has, _ = c.Has(suite.ctx, "new")
	suite.True(has)
}

func (suite *MemoryCacheTestSuite) TestMaxEntriesEvictsSoonestToExpire() {
	c := cache.NewMemoryCache("p_", time.Hour,
		cache.WithMaxEntries(2),
		cache.WithClock(func() time.Time { return suite.now }),
	)
	suite.Require().NoError(c.Set(suite.ctx, "soon", []byte("1"), time.Hour))
	suite.Require().NoError(c.Set(suite.ctx, "later", []byte("2"), 5*time.Hour))
	suite.Require().NoError(c.Set(suite.ctx, "third", []byte("3"), 2*time.Hour))

	suite.Equal(2, c.Len())
	has, _ := c.Has(suite.ctx, "soon")
	suite.False(has)
	has, _ = c.Has(suite.ctx, "later")
	suite.True(has)
}

func (suite *MemoryCacheTestSuite) TestOverwriteDoesNotEvict() {
	c := cache.NewMemoryCache("p_", time.Hour, cache.WithMaxEntries(1))
	suite.Require().NoError(c.Set(suite.ctx, "k", []byte("1"), 0))
	suite.Require().NoError(c.Set(suite.ctx, "k", []byte("2"), 0))

	got, ok, _ := c.Get(suite.ctx, "k")
	suite.True(ok)
	suite.Equal([]byte("2"), got)
}

func TestMemoryCacheTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryCacheTestSuite))
}
