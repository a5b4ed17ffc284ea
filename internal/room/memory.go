package room

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-node use.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// Save inserts or replaces the session. The stored copy shares no state
// with the caller's value.
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.GameID] = s.clone()
	return nil
}

// Load retrieves a session by game id.
func (m *MemoryStore) Load(ctx context.Context, gameID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[gameID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(ctx context.Context, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, gameID)
	return nil
}

// DeleteExpired removes every session not updated since the cutoff.
func (m *MemoryStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, s := range m.sessions {
		if s.UpdatedAt.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports how many sessions are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
