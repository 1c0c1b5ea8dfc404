package cache

import (
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING WITH TTL
// ============================================================================
// Thread-safe cache with automatic expiration. Used to absorb repeated
// reverse-geocode lookups from the SOS position watch (samples arrive every
// few seconds from nearly the same spot) and to throttle status-board reads.
//
// Usage:
//   c := NewCache(5*time.Minute, 10*time.Minute)
//   c.Set("reverse:28.6139,77.2090", place)
//   if v, found := c.Get("reverse:28.6139,77.2090"); found {
//       return v
//   }

// Item is a cached value with its expiration timestamp.
type Item struct {
	Value      interface{}
	Expiration int64 // Unix nanoseconds, 0 = never expires
}

// Cache is a thread-safe key-value store with TTL.
type Cache struct {
	items             map[string]Item
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan bool
}

// NewCache creates a cache with a default TTL. cleanupInterval controls
// how often expired items are swept.
func NewCache(defaultExpiration, cleanupInterval time.Duration) *Cache {
	cache := &Cache{
		items:             make(map[string]Item),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan bool),
	}

	go cache.startCleanupTimer()

	return cache
}

// Set stores a value with the default expiration.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL stores a value with a specific expiration.
func (c *Cache) SetWithTTL(key string, value interface{}, duration time.Duration) {
	var expiration int64

	if duration > 0 {
		expiration = time.Now().Add(duration).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = Item{
		Value:      value,
		Expiration: expiration,
	}
	c.mu.Unlock()
}

// Get retrieves a value. Returns (nil, false) when the key is missing or
// expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	item, found := c.items[key]
	c.mu.RUnlock()

	if !found {
		return nil, false
	}

	if item.Expiration > 0 && time.Now().UnixNano() > item.Expiration {
		c.Delete(key)
		return nil, false
	}

	return item.Value, true
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix removes every key starting with prefix and returns how
// many were dropped (e.g. "reverse:" invalidates all geocode entries).
func (c *Cache) DeletePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key := range c.items {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(c.items, key)
			count++
		}
	}
	return count
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]Item)
	c.mu.Unlock()
}

// Count returns the number of items, expired ones included.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, item := range c.items {
		if item.Expiration > 0 && now > item.Expiration {
			delete(c.items, key)
		}
	}
}

// Stop halts the background sweeper.
func (c *Cache) Stop() {
	c.stopCleanup <- true
}

// ============================================================================
// CACHE PRESETS
// ============================================================================

var (
	// GeocodeCache - reverse-geocode results (TTL: 10 minutes).
	// Place names around a coordinate do not change while SOS is active.
	GeocodeCache *Cache

	// BoardCache - status board snapshots (TTL: 2 seconds).
	// The dashboard polls aggressively; a short TTL keeps DB load flat.
	BoardCache *Cache
)

// InitCaches initializes the preset caches.
func InitCaches() {
	GeocodeCache = NewCache(10*time.Minute, 15*time.Minute)
	BoardCache = NewCache(2*time.Second, 1*time.Minute)
}

// StopCaches stops all preset caches.
func StopCaches() {
	if GeocodeCache != nil {
		GeocodeCache.Stop()
	}
	if BoardCache != nil {
		BoardCache.Stop()
	}
}
