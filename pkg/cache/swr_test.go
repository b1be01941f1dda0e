package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSWRFreshValueServedWithoutRefetch(t *testing.T) {
	var calls int32
	s := NewSWR(time.Minute, time.Minute, func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	v, stale, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, stale)

	v, stale, err = s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, stale)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSWRStaleValueServedWhileRevalidating(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	s := NewSWR(time.Millisecond, time.Minute, func(context.Context) (int, error) {
		n := int(atomic.AddInt32(&calls, 1))
		if n > 1 {
			<-release
		}
		return n, nil
	})

	_, _, err := s.Get(context.Background())
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond) // let the entry go stale

	v, stale, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v) // old value, not the in-flight refresh
	assert.True(t, stale)
	close(release)
}

func TestSWRExpiredCoalescesConcurrentFetches(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	s := NewSWR(time.Minute, time.Minute, func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	})

	const n = 8
	var wg sync.WaitGroup
	results := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := s.Get(context.Background())
			require.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestSWRFetchErrorServesLastKnownValue(t *testing.T) {
	var calls int32
	s := NewSWR(time.Millisecond, time.Millisecond, func(context.Context) (int, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return 7, nil
		}
		return 0, errors.New("feed down")
	})

	v, _, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	time.Sleep(5 * time.Millisecond) // past fresh+stale

	v, stale, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, stale)
}

func TestSWRFirstFetchErrorPropagates(t *testing.T) {
	s := NewSWR(time.Minute, time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("feed down")
	})
	_, _, err := s.Get(context.Background())
	assert.Error(t, err)
}

func TestSWRInvalidateForcesRefetch(t *testing.T) {
	var calls int32
	s := NewSWR(time.Minute, time.Minute, func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	_, _, _ = s.Get(context.Background())
	s.Invalidate()
	v, _, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
