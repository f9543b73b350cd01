package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps admission timestamps in process memory.
//
// State is lost on restart and is not shared between processes. Addresses whose
// timestamps have all aged out are swept at most once per window.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string][]time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]time.Time),
	}
}

// Hit implements Store.
func (s *MemoryStore) Hit(_ context.Context, key string, now time.Time, window time.Duration, limit int) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= window {
		s.sweepLocked(now, window)
		s.lastSweep = now
	}

	attempts := prune(s.entries[key], now, window)

	if len(attempts) >= limit {
		if len(attempts) == 0 {
			delete(s.entries, key)
		} else {
			s.entries[key] = attempts
		}
		return Decision{Allowed: false, Remaining: 0}, nil
	}

	attempts = append(attempts, now)
	s.entries[key] = attempts

	return Decision{Allowed: true, Remaining: limit - len(attempts)}, nil
}

// Sweep drops every address with no attempt inside the window ending at now.
func (s *MemoryStore) Sweep(now time.Time, window time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now, window)
}

// Len reports how many addresses are tracked.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked(now time.Time, window time.Duration) {
	for key, attempts := range s.entries {
		recent := prune(attempts, now, window)
		if len(recent) == 0 {
			delete(s.entries, key)
			continue
		}
		s.entries[key] = recent
	}
}

// prune returns the suffix of attempts (oldest first) that is still inside the window.
func prune(attempts []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(attempts) && now.Sub(attempts[i]) >= window {
		i++
	}
	return attempts[i:]
}
