// Package memo caches the results of expensive keyed lookups.
package memo

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes successful results by key for its own lifetime.
// Concurrent callers for one key share a single in-flight call; errors are not cached.
type Cache[V any] struct {
	mu     sync.RWMutex
	values map[string]V
	group  singleflight.Group
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{values: make(map[string]V)}
}

// Do returns the cached value for key or computes it with fn. The shared call
// runs detached from the caller's cancellation, so one caller giving up does
// not fail the others waiting on the same key.
func (c *Cache[V]) Do(ctx context.Context, key string, fn func(ctx context.Context) (V, error)) (V, error) {
	c.mu.RLock()
	v, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		c.mu.RLock()
		v, ok := c.values[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fn(shared)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		c.values[key] = v
		c.mu.Unlock()
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err() //nolint:wrapcheck // caller's own cancellation
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err //nolint:wrapcheck // fn's error is returned as is
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[V]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}
