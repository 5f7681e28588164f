package cache

import (
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// TTL is a Cache whose entries expire a fixed duration after they were stored.
// Reads do not extend the lifetime of an entry.
type TTL[K comparable, V any] struct {
	cache *ttlcache.Cache[K, V]
	ttl   time.Duration

	mu      sync.Mutex
	running bool
}

var _ Cache[string, int] = (*TTL[string, int])(nil)

// NewTTL creates a TTL cache with the given lifetime.
func NewTTL[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		cache: ttlcache.New(
			ttlcache.WithTTL[K, V](ttl),
			ttlcache.WithDisableTouchOnHit[K, V](),
		),
		ttl: ttl,
	}
}

// Get returns the cached value, or false when it is missing or expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	item := c.cache.Get(key)
	if item == nil || item.IsExpired() {
		var zero V
		return zero, false
	}
	return item.Value(), true
}

func (c *TTL[K, V]) Set(key K, value V) {
	c.cache.Set(key, value, ttlcache.DefaultTTL)
}

func (c *TTL[K, V]) Delete(key K) {
	c.cache.Delete(key)
}

func (c *TTL[K, V]) Clear() {
	c.cache.DeleteAll()
}

// Len returns the number of stored entries, expired ones included until cleanup runs.
func (c *TTL[K, V]) Len() int {
	return c.cache.Len()
}

// TTL returns the lifetime of new entries.
func (c *TTL[K, V]) TTL() time.Duration {
	return c.ttl
}

// Start runs the expired-entry cleanup loop in the background until Stop is called.
func (c *TTL[K, V]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.cache.Start()
}

// Stop ends the cleanup loop. It is a no-op when Start was never called.
func (c *TTL[K, V]) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.cache.Stop()
}
