package session

import (
	"sync"

	"github.com/hupe1980/agentrun/core"
)

// Store persists per-session conversation histories. Implementations must be
// safe for concurrent use.
type Store interface {
	// Items returns the stored history for the session, empty if unknown.
	Items(sessionID string) ([]core.RunItem, error)

	// Append adds items to the end of the session history, creating the
	// session if it does not exist yet.
	Append(sessionID string, items ...core.RunItem) error

	// Clear removes the session and its history.
	Clear(sessionID string) error
}

// InMemoryStore is a volatile Store implementation keeping histories in a
// process local map. It is safe for concurrent access and best suited for
// tests or ephemeral demo servers. Returned slices are cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.RunItem
}

// NewInMemoryStore constructs an empty in‑memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.RunItem)}
}

// Items returns a clone of the stored history, or an empty slice for an
// unknown session id.
func (s *InMemoryStore) Items(sessionID string) ([]core.RunItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.CloneItems(s.sessions[sessionID]), nil
}

// Append adds items to the session history, creating the session lazily.
func (s *InMemoryStore) Append(sessionID string, items ...core.RunItem) error {
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], core.CloneItems(items)...)
	return nil
}

// Clear removes the session history.
func (s *InMemoryStore) Clear(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
