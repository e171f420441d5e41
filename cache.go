package mimemagic

import (
	"sync"
	"time"
)

// ============================================================================
// Cache Interface
// ============================================================================

// Cache defines the interface for detection result caches.
// Implementations should be thread-safe.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns the value and true if found, nil and false otherwise.
	Get(key string) (interface{}, bool)

	// Set stores a value in the cache with the given TTL.
	// A TTL of 0 means no expiration.
	Set(key string, value interface{}, ttl time.Duration)

	// Delete removes a value from the cache.
	Delete(key string)

	// Clear removes all values from the cache.
	Clear()
}

// CacheStats provides statistics about cache usage.
// Implementations may optionally support this interface.
type CacheStats interface {
	Stats() CacheStatistics
}

// CacheStatistics contains cache performance metrics.
type CacheStatistics struct {
	Hits      int64
	Misses    int64
	Size      int64
	Evictions int64
	HitRate   float64
}

// ============================================================================
// In-Memory Cache Implementation
// ============================================================================

type cacheEntry struct {
	value      interface{}
	expiration time.Time
	hasExpiry  bool
}

func (e *cacheEntry) expired(now time.Time) bool {
	return e.hasExpiry && now.After(e.expiration)
}

// MemoryCache is an in-memory cache with TTL expiration and an optional
// entry limit. When full, expired entries are dropped first and then the
// entry closest to expiry.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	maxEntries int
	hits       int64
	misses     int64
	evictions  int64
}

// NewMemoryCache creates a new in-memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		entries:    make(map[string]*cacheEntry),
		maxEntries: maxEntries,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if entry.expired(time.Now()) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.value, true
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}

	entry := &cacheEntry{value: value}
	if ttl > 0 {
		entry.expiration = time.Now().Add(ttl)
		entry.hasExpiry = true
	}
	c.entries[key] = entry
}

func (c *MemoryCache) evictLocked() {
	now := time.Now()
	var victim string
	var victimEntry *cacheEntry
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
			c.evictions++
			continue
		}
		if victimEntry == nil || (entry.hasExpiry && (!victimEntry.hasExpiry || entry.expiration.Before(victimEntry.expiration))) {
			victim, victimEntry = key, entry
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}
	if victimEntry != nil {
		delete(c.entries, victim)
		c.evictions++
	}
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStatistics {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return CacheStatistics{
		Hits:      c.hits,
		Misses:    c.misses,
		Size:      int64(len(c.entries)),
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}

// Cleanup removes expired entries from the cache.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

var (
	_ Cache      = (*MemoryCache)(nil)
	_ CacheStats = (*MemoryCache)(nil)
)
