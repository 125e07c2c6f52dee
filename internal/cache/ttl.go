// Package cache provides a typed, time-boxed read cache on top of go-cache.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Stats reports cache effectiveness
type Stats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	Items    int     `json:"items"`
	HitRatio float64 `json:"hit_ratio"`
}

// DefaultLoadTimeout bounds a shared load once it is detached from its callers
const DefaultLoadTimeout = 30 * time.Second

// TTL caches values of type V for a fixed duration. A non-positive ttl disables caching.
type TTL[V any] struct {
	store       *gocache.Cache
	ttl         time.Duration
	loadTimeout time.Duration
	group       singleflight.Group
	hits        atomic.Uint64
	misses      atomic.Uint64
}

// NewTTL creates a new cache whose entries expire after ttl
func NewTTL[V any](ttl time.Duration) *TTL[V] {
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = time.Minute
	}
	return &TTL[V]{
		store:       gocache.New(ttl, cleanup),
		ttl:         ttl,
		loadTimeout: DefaultLoadTimeout,
	}
}

// SetLoadTimeout changes how long a shared load may run. Non-positive values are ignored.
func (c *TTL[V]) SetLoadTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.loadTimeout = timeout
	}
}

// Enabled reports whether entries are retained at all
func (c *TTL[V]) Enabled() bool {
	return c.ttl > 0
}

// Get retrieves a cached value
func (c *TTL[V]) Get(key string) (V, bool) {
	if raw, found := c.store.Get(key); found {
		if value, ok := raw.(V); ok {
			c.hits.Add(1)
			return value, true
		}
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Set stores a value
func (c *TTL[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}
	c.store.Set(key, value, c.ttl)
}

// GetOrLoad returns the cached value or calls load once per key, sharing the result with
// concurrent callers. Errors are not cached.
//
// The shared load ignores the cancellation of whichever caller started it and is bounded by the
// load timeout instead. Each caller waits only as long as its own ctx allows.
func (c *TTL[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, bool, error) {
	if value, ok := c.Get(key); ok {
		return value, true, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		value, err := load(loadCtx)
		if err != nil {
			return value, err
		}
		c.Set(key, value)
		return value, nil
	})

	var zero V
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, false, res.Err
		}
		value, _ := res.Val.(V)
		return value, false, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// Delete removes a key
func (c *TTL[V]) Delete(key string) {
	c.store.Delete(key)
}

// Flush removes every entry
func (c *TTL[V]) Flush() {
	c.store.Flush()
}

// Len returns the number of entries, including ones expired but not yet cleaned up
func (c *TTL[V]) Len() int {
	return c.store.ItemCount()
}

// Stats returns hit and miss counters
func (c *TTL[V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	stats := Stats{Hits: hits, Misses: misses, Items: c.Len()}
	if total := hits + misses; total > 0 {
		stats.HitRatio = float64(hits) / float64(total)
	}
	return stats
}
