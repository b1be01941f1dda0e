package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow("10.0.0.1", 5, 1))
	}
	assert.False(t, l.Allow("10.0.0.1", 5, 1))
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("10.0.0.1", 1, 1))
	assert.False(t, l.Allow("10.0.0.1", 1, 1))
	assert.True(t, l.Allow("10.0.0.2", 1, 1))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("10.0.0.1", 1, 1))
	assert.False(t, l.Allow("10.0.0.1", 1, 1))

	// Wind the bucket's clock back one second instead of sleeping.
	l.mu.Lock()
	l.buckets["10.0.0.1"].updated = l.buckets["10.0.0.1"].updated.Add(-time.Second)
	l.mu.Unlock()

	assert.True(t, l.Allow("10.0.0.1", 1, 1))
}
