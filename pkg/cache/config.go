package cache

import "time"

// RedisOption configures the Redis-backed cache.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis connection settings. Prefix namespaces every
// key so shared Redis instances never collide.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

func WithRedisHost(host string) RedisOption {
	return func(c *RedisConfig) { c.Host = host }
}

func WithRedisPort(port int) RedisOption {
	return func(c *RedisConfig) { c.Port = port }
}

func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) { c.Password = password }
}

func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) { c.DB = db }
}

// MemoryOption configures the in-memory cache.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds in-memory cache settings.
type MemoryConfig struct {
	MaxEntries      int
	CleanupInterval time.Duration
}

func WithMemoryMaxEntries(n int) MemoryOption {
	return func(c *MemoryConfig) { c.MaxEntries = n }
}
