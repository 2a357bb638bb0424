// Package cachemanager provides short-lived in-memory caches. The worklist
// page is read through one so rapid re-renders and re-sorts reuse a recent
// fetch.
package cachemanager

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"recworklist/internal/log"
)

// DefaultCleanupInterval is how often expired entries are purged.
const DefaultCleanupInterval = time.Minute

// Cache is a string-keyed cache of V.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Flush(ctx context.Context)
}

// Stats counts lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Memory is a Cache backed by go-cache.
type Memory[V any] struct {
	name   string
	cache  *gocache.Cache
	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ Cache[int] = (*Memory[int])(nil)

// NewMemory creates a cache. name identifies it in logs.
func NewMemory[V any](name string, defaultTTL, cleanupInterval time.Duration) *Memory[V] {
	return &Memory[V]{
		name:  name,
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached value for key.
func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	raw, found := m.cache.Get(key)
	if !found {
		m.misses.Add(1)
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "Cached value has wrong type", "cache", m.name, "key", key)
		m.cache.Delete(key)
		m.misses.Add(1)
		return zero, false
	}

	m.hits.Add(1)
	log.Debug(log.CatCache, "Cache hit", "cache", m.name, "key", key)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.cache.Set(key, value, ttl)
}

// Delete removes keys.
func (m *Memory[V]) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		m.cache.Delete(key)
	}
}

// Flush removes everything.
func (m *Memory[V]) Flush(context.Context) {
	m.cache.Flush()
	log.Debug(log.CatCache, "Cache flushed", "cache", m.name)
}

// Len returns the number of entries, including expired ones not yet purged.
func (m *Memory[V]) Len() int {
	return m.cache.ItemCount()
}

// Stats returns the hit and miss counts.
func (m *Memory[V]) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
}
