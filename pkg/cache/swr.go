package cache

import (
	"context"
	"sync"
	"time"
)

// SWR is a single-value stale-while-revalidate cache around a fetch
// function. Entries are fresh for the fresh window, then served stale
// while one background refresh runs, then expired: an expired entry
// blocks callers behind exactly one coalesced fetch.
type SWR[T any] struct {
	fetch func(ctx context.Context) (T, error)
	fresh time.Duration
	stale time.Duration
	now   func() time.Time

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	has       bool
	pending   chan struct{} // non-nil while a fetch is in flight
	lastErr   error
}

// NewSWR builds the cache. fresh is the period during which Get returns
// without refetching; stale extends it with background revalidation.
func NewSWR[T any](fresh, stale time.Duration, fetch func(ctx context.Context) (T, error)) *SWR[T] {
	return &SWR[T]{
		fetch: fetch,
		fresh: fresh,
		stale: stale,
		now:   time.Now,
	}
}

// Get returns the cached value per the freshness state machine. The
// bool reports whether the returned value was served stale.
func (s *SWR[T]) Get(ctx context.Context) (T, bool, error) {
	s.mu.Lock()
	age := s.now().Sub(s.fetchedAt)

	if s.has && age < s.fresh {
		v := s.value
		s.mu.Unlock()
		return v, false, nil
	}

	if s.has && age < s.fresh+s.stale {
		v := s.value
		if s.pending == nil {
			done := make(chan struct{})
			s.pending = done
			go s.refresh(done)
		}
		s.mu.Unlock()
		return v, true, nil
	}

	// Expired or never fetched: coalesce on one in-flight fetch.
	if s.pending != nil {
		wait := s.pending
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
		s.mu.Lock()
		v, has, err := s.value, s.has, s.lastErr
		s.mu.Unlock()
		if !has && err != nil {
			var zero T
			return zero, false, err
		}
		return v, false, nil
	}

	done := make(chan struct{})
	s.pending = done
	s.mu.Unlock()

	v, err := s.fetch(ctx)

	s.mu.Lock()
	s.pending = nil
	close(done)
	s.lastErr = err
	if err != nil {
		// Serve the last known value if one exists, however old.
		if s.has {
			old := s.value
			s.mu.Unlock()
			return old, true, nil
		}
		s.mu.Unlock()
		var zero T
		return zero, false, err
	}
	s.value = v
	s.fetchedAt = s.now()
	s.has = true
	s.mu.Unlock()
	return v, false, nil
}

// refresh revalidates in the background off a detached context; a
// failed refresh keeps the stale value in place.
func (s *SWR[T]) refresh(done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	v, err := s.fetch(ctx)

	s.mu.Lock()
	s.pending = nil
	close(done)
	s.lastErr = err
	if err == nil {
		s.value = v
		s.fetchedAt = s.now()
		s.has = true
	}
	s.mu.Unlock()
}

// Invalidate drops the cached value so the next Get refetches.
func (s *SWR[T]) Invalidate() {
	s.mu.Lock()
	s.has = false
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}
