package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a per-client token bucket guarding the analysis API.
// Buckets are created lazily per key (the caller's IP) and refill
// continuously, so short bursts pass while sustained polling is shed.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

type tokenBucket struct {
	tokens   float64
	capacity float64
	rate     float64 // tokens added per second
	updated  time.Time
}

func New() *Limiter {
	return &Limiter{buckets: make(map[string]*tokenBucket)}
}

// Allow consumes one token for key, creating a full bucket on first
// sight. capacity bounds the burst; refillPerSec is the sustained rate.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: capacity, capacity: capacity, rate: refillPerSec, updated: now}
		l.buckets[key] = b
	}

	if elapsed := now.Sub(b.updated).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.rate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.updated = now
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
