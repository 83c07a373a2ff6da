package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps seen IDs for the lifetime of the process.
type MemoryStore struct {
	mu   sync.RWMutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore constructs an empty MemoryStore. ttl of zero never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Contains(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	seenAt, ok := s.seen[id]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.expired(seenAt) {
		s.mu.Lock()
		// Re-check: Insert may have refreshed it meanwhile.
		if at, still := s.seen[id]; still && s.expired(at) {
			delete(s.seen, id)
		}
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Insert(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = s.now()
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 {
		for id, at := range s.seen {
			if s.expired(at) {
				delete(s.seen, id)
			}
		}
	}
	return len(s.seen), nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) expired(seenAt time.Time) bool {
	return s.ttl > 0 && s.now().Sub(seenAt) >= s.ttl
}
