package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called without a positive ttl.
const DefaultTTL = 24 * time.Hour

// CacheEntry wraps a cached value with its expiry.
type CacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

func (e CacheEntry) expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// MemoryCache is a process-local cache with lazy expiry: an entry is only
// checked, and dropped, when it is read. With a positive MaxEntries the cache
// evicts on insert, expired entries first, then the entry closest to expiry.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]CacheEntry
	prefix     string
	defaultTTL time.Duration
	maxEntries int
	now        func() time.Time
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxEntries bounds the number of stored entries. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(c *MemoryCache) { c.maxEntries = n }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemoryCache creates a MemoryCache whose keys live under prefix.
func NewMemoryCache(prefix string, defaultTTL time.Duration, opts ...MemoryOption) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	c := &MemoryCache{
		entries:    make(map[string]CacheEntry),
		prefix:     prefix,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) key(key string) string {
	return c.prefix + key
}

// Get returns a copy of the live value under key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	entry, ok := c.entries[k]
	if !ok {
		return nil, false, nil
	}
	if entry.expired(c.now()) {
		delete(c.entries, k)
		return nil, false, nil
	}
	return append([]byte(nil), entry.Data...), true, nil
}

// Set stores value under key for ttl, or the default TTL when ttl <= 0.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(key)
	now := c.now()
	if _, exists := c.entries[k]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[k] = CacheEntry{
		Data:      append([]byte(nil), value...),
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

// evictLocked frees at least one slot. Caller holds mu.
func (c *MemoryCache) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var victim string
	var soonest time.Time
	for k, e := range c.entries {
		if victim == "" || e.ExpiresAt.Before(soonest) {
			victim, soonest = k, e.ExpiresAt
		}
	}
	delete(c.entries, victim)
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, c.key(key))
	return nil
}

// ClearAll removes every entry under the cache prefix.
func (c *MemoryCache) ClearAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.HasPrefix(k, c.prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

// Has reports whether a live entry exists under key.
func (c *MemoryCache) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.Get(ctx, key)
	return ok, err
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
