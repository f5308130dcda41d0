package collector

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"OpportunityScanner/internal/model"
)

// DefaultCacheTTL bounds how often a ticker is requested from the provider.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	series    *model.PriceSeries
	expiresAt time.Time
}

// Cache is a time-boxed memo of fetched series keyed by ticker and period.
// Entries never count against a capacity; they simply expire.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates a cache whose entries live for ttl.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{ttl: ttl, now: time.Now, entries: make(map[string]cacheEntry)}
}

// WithClock replaces the time source, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func cacheKey(ticker, period string) string { return ticker + "|" + period }

// Get returns the cached series if it has not expired.
func (c *Cache) Get(ticker, period string) (*model.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey(ticker, period)]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.series, true
}

// Put stores a series with a fresh expiry.
func (c *Cache) Put(ticker, period string, series *model.PriceSeries) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(ticker, period)] = cacheEntry{series: series, expiresAt: c.now().Add(c.ttl)}
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CachedFetcher serves repeated requests from a Cache. Failures are not cached.
type CachedFetcher struct {
	Fetcher Fetcher
	Cache   *Cache
	log     zerolog.Logger
}

// NewCachedFetcher wraps fetcher with cache.
func NewCachedFetcher(fetcher Fetcher, cache *Cache, log zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{
		Fetcher: fetcher,
		Cache:   cache,
		log:     log.With().Str("component", "cache").Logger(),
	}
}

func (f *CachedFetcher) Name() string { return f.Fetcher.Name() + "+cache" }

func (f *CachedFetcher) FetchDailyCloses(ctx context.Context, ticker, period string) (*model.PriceSeries, error) {
	if s, ok := f.Cache.Get(ticker, period); ok {
		f.log.Debug().Str("ticker", ticker).Msg("cache hit")
		return s, nil
	}
	s, err := f.Fetcher.FetchDailyCloses(ctx, ticker, period)
	if err != nil {
		return nil, err
	}
	f.Cache.Put(ticker, period, s)
	return s, nil
}
