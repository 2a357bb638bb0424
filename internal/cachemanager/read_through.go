package cachemanager

import (
	"context"
	"time"
)

// Loader fetches the value for input on a miss.
type Loader[V, I any] func(ctx context.Context, input I) (V, error)

// ReadThrough serves values from a Cache and loads misses. Failed loads are
// not cached.
type ReadThrough[V, I any] struct {
	cache  Cache[V]
	load   Loader[V, I]
	ttl    time.Duration
	bypass bool
}

// NewReadThrough creates a read-through cache. With a zero ttl every call
// loads, matching a disabled cache.
func NewReadThrough[V, I any](cache Cache[V], load Loader[V, I], ttl time.Duration) *ReadThrough[V, I] {
	return &ReadThrough[V, I]{
		cache:  cache,
		load:   load,
		ttl:    ttl,
		bypass: ttl <= 0,
	}
}

// Get returns the cached value for key or loads it from input.
func (r *ReadThrough[V, I]) Get(ctx context.Context, key string, input I) (V, error) {
	if r.bypass {
		return r.load(ctx, input)
	}
	if v, ok := r.cache.Get(ctx, key); ok {
		return v, nil
	}

	v, err := r.load(ctx, input)
	if err != nil {
		return v, err
	}
	r.cache.Set(ctx, key, v, r.ttl)
	return v, nil
}

// Refresh loads input, replacing any cached value for key.
func (r *ReadThrough[V, I]) Refresh(ctx context.Context, key string, input I) (V, error) {
	r.cache.Delete(ctx, key)
	return r.Get(ctx, key, input)
}

// Invalidate drops every cached value.
func (r *ReadThrough[V, I]) Invalidate(ctx context.Context) {
	r.cache.Flush(ctx)
}
