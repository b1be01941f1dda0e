package cache

import (
	"context"
	"time"
)

// LayeredCache puts a small in-process layer in front of Redis: reads
// hit memory first, writes go through to both. Used when Redis is
// enabled so hot score payloads never leave the process.
type LayeredCache struct {
	mem   *MemoryCache
	redis *RedisCache
}

func NewLayeredCache(redisCache *RedisCache) *LayeredCache {
	return &LayeredCache{
		mem:   NewMemoryCache(WithMemoryMaxEntries(256)),
		redis: redisCache,
	}
}

func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.redis.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	_ = lc.mem.Set(ctx, key, value, expiration)
	return nil
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.mem.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.redis.Get(ctx, key, dest); err != nil {
		return err
	}
	if p, ok := dest.(*string); ok {
		_ = lc.mem.Set(ctx, key, *p, 0)
	}
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.mem.Delete(ctx, keys...)
	return lc.redis.Delete(ctx, keys...)
}

func (lc *LayeredCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	return lc.redis.Exists(ctx, keys...)
}

// Close closes both layers.
func (lc *LayeredCache) Close() error {
	_ = lc.mem.Close()
	return lc.redis.Close()
}
