package cache

import (
	"context"
	"sync"
	"time"
)

const defaultMemoryTTL = time.Hour

type memoryEntry struct {
	value    interface{}
	expireAt time.Time
	lastUsed time.Time
}

func (e *memoryEntry) expired() bool { return time.Now().After(e.expireAt) }

// MemoryCache is the in-process response cache. It is the default
// backend and the L1 layer in front of Redis; entries beyond MaxEntries
// evict least-recently-used.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	max     int
	janitor *time.Ticker
}

func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	cfg := &MemoryConfig{
		MaxEntries:      1000,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	mc := &MemoryCache{
		entries: make(map[string]*memoryEntry),
		max:     cfg.MaxEntries,
		janitor: time.NewTicker(cfg.CleanupInterval),
	}
	go mc.sweep()
	return mc
}

func (mc *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.max {
		mc.evictLRU()
	}
	if expiration <= 0 {
		expiration = defaultMemoryTTL
	}
	now := time.Now()
	mc.entries[key] = &memoryEntry{
		value:    value,
		expireAt: now.Add(expiration),
		lastUsed: now,
	}
	return nil
}

func (mc *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	e, ok := mc.entries[key]
	if !ok || e.expired() {
		if ok {
			delete(mc.entries, key)
		}
		return ErrCacheMiss
	}
	e.lastUsed = time.Now()

	if p, ok := dest.(*string); ok {
		if s, ok := e.value.(string); ok {
			*p = s
			return nil
		}
	}
	*dest.(*interface{}) = e.value
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, keys ...string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		delete(mc.entries, key)
	}
	return nil
}

func (mc *MemoryCache) Exists(_ context.Context, keys ...string) (bool, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, key := range keys {
		if e, ok := mc.entries[key]; ok && !e.expired() {
			return true, nil
		}
	}
	return false, nil
}

// Close stops the background sweeper.
func (mc *MemoryCache) Close() error {
	if mc.janitor != nil {
		mc.janitor.Stop()
	}
	return nil
}

func (mc *MemoryCache) evictLRU() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range mc.entries {
		if first || e.lastUsed.Before(oldest) {
			oldestKey, oldest, first = key, e.lastUsed, false
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
	}
}

func (mc *MemoryCache) sweep() {
	for range mc.janitor.C {
		mc.mu.Lock()
		for key, e := range mc.entries {
			if e.expired() {
				delete(mc.entries, key)
			}
		}
		mc.mu.Unlock()
	}
}
