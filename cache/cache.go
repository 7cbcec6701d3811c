// Package cache keeps recent successful price results so dashboard
// refreshes don't hammer the storefronts. Entries expire; nothing persists.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/shelfwatch/shelfwatch/models"
)

// entry holds a cached result with its creation timestamp.
type entry struct {
	result    models.ScrapeResult
	createdAt time.Time
}

// Cache is a simple in-memory cache for scrape results.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
	maxTTL     time.Duration
}

// New creates a Cache with the given capacity and hard TTL cap. A background
// goroutine evicts entries older than maxTTL every 5 minutes.
func New(maxEntries int, maxTTL time.Duration) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
		maxTTL:     maxTTL,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the product URL and the store name.
func Key(url, store string) string {
	h := sha256.New()
	h.Write([]byte(url))
	h.Write([]byte("|"))
	h.Write([]byte(strings.ToLower(store)))
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached result if it exists and is younger than maxAge,
// capped by the cache's hard TTL. maxAge is in milliseconds; if <= 0, no
// lookup is performed.
func (c *Cache) Get(key string, maxAgeMs int) (models.ScrapeResult, bool) {
	if maxAgeMs <= 0 {
		return models.ScrapeResult{}, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return models.ScrapeResult{}, false
	}

	maxAge := time.Duration(maxAgeMs) * time.Millisecond
	if maxAge > c.maxTTL {
		maxAge = c.maxTTL
	}
	if time.Since(e.createdAt) > maxAge {
		return models.ScrapeResult{}, false
	}

	return e.result, true
}

// Set stores a result. Only successful extractions are worth keeping:
// error results are re-tried on the next request anyway.
func (c *Cache) Set(key string, result models.ScrapeResult) {
	if result.Status != models.StatusSuccess {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		result:    result,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than the hard TTL every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-c.maxTTL)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
