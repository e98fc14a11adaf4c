package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bbernstein/evfinder/backend-go/internal/config"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
	"github.com/hashicorp/golang-lru/v2"
)

type GeocodeCacheEntry struct {
	Point     models.GeoPoint
	ExpiresAt time.Time
}

// GeocodeCache remembers resolved postal codes for the lifetime of the
// process. Entries expire after the configured TTL.
type GeocodeCache struct {
	lru    *lru.Cache[string, *GeocodeCacheEntry]
	ttl    time.Duration
	clock  clock
	mu     sync.Mutex
	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewGeocodeCache(cfg *config.CacheConfig) (*GeocodeCache, error) {
	lruCache, err := lru.New[string, *GeocodeCacheEntry](cfg.GeocodeLRUSize)
	if err != nil {
		return nil, err
	}

	return &GeocodeCache{
		lru:   lruCache,
		ttl:   cfg.GetGeocodeLRUTTL(),
		clock: systemClock{},
	}, nil
}

func (c *GeocodeCache) Add(postalCode string, point models.GeoPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(postalCode, &GeocodeCacheEntry{
		Point:     point,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

func (c *GeocodeCache) Get(postalCode string) (models.GeoPoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(postalCode)
	if !ok {
		c.misses.Add(1)
		return models.GeoPoint{}, false
	}

	if c.clock.Now().After(entry.ExpiresAt) {
		c.lru.Remove(postalCode)
		c.misses.Add(1)
		return models.GeoPoint{}, false
	}

	c.hits.Add(1)
	return entry.Point, true
}

// GetCacheStats returns statistics about cache hits and misses
func (c *GeocodeCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":   c.hits.Load(),
		"lru_misses": c.misses.Load(),
	}
}
