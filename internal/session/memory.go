package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process session store. It is the default provider for
// single-instance deployments where Redis is not configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]State
	ttl      time.Duration
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]State),
		ttl:      ttl,
	}
}

// Put stores the state, replacing any previous state for the same id.
func (s *MemoryStore) Put(_ context.Context, st State) error {
	st.UpdatedAt = time.Now()
	s.mu.Lock()
	s.sessions[st.ID] = st
	s.mu.Unlock()
	return nil
}

// Get retrieves state by session id.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (State, error) {
	s.mu.RLock()
	st, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return State{}, ErrNotFound
	}
	if s.ttl > 0 && time.Since(st.UpdatedAt) > s.ttl {
		return State{}, ErrNotFound
	}
	return st, nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
// The janitor loop in main calls this periodically.
func (s *MemoryStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, st := range s.sessions {
		if st.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Janitor runs Sweep every interval until ctx is cancelled.
func (s *MemoryStore) Janitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}
