package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in process memory. It is the default for a
// single instance; expired buckets are dropped by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]Bucket
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]Bucket)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (Bucket, bool, error) {
	s.mu.Lock()
	b, ok := s.buckets[key]
	s.mu.Unlock()
	return b, ok, nil
}

// CompareAndSwap implements Store.
func (s *MemoryStore) CompareAndSwap(_ context.Context, key string, old *Bucket, next Bucket) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.buckets[key]
	switch {
	case old == nil && ok:
		return false, nil
	case old != nil && (!ok || current.Count != old.Count || !current.ResetAt.Equal(old.ResetAt)):
		return false, nil
	}

	s.buckets[key] = next
	return true, nil
}

// Len reports how many buckets are held. Useful for tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

// Sweep removes buckets whose window ended before now.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		if now.After(b.ResetAt) {
			delete(s.buckets, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired buckets every interval until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Sweep(now)
			}
		}
	}()
}

var _ Store = (*MemoryStore)(nil)
