package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/layer-3/walletbridge/core"
	"github.com/layer-3/walletbridge/ports"
)

// MemoryStore is an in-memory implementation of the SessionStore interface
type MemoryStore struct {
	sessions map[string][]byte
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() ports.SessionStore {
	return &MemoryStore{
		sessions: make(map[string][]byte),
	}
}

// Save serializes the session under key, replacing any previous one
func (s *MemoryStore) Save(ctx context.Context, key string, session core.ConnectionSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[key] = data

	return nil
}

// Load returns the session stored under key
func (s *MemoryStore) Load(ctx context.Context, key string) (core.ConnectionSession, error) {
	s.mu.RLock()
	data, exists := s.sessions[key]
	s.mu.RUnlock()

	if !exists {
		return core.ConnectionSession{}, core.ErrSessionNotFound
	}

	return decodeSession(data)
}

// Delete removes the session stored under key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	return nil
}

func decodeSession(data []byte) (core.ConnectionSession, error) {
	var session core.ConnectionSession
	if err := json.Unmarshal(data, &session); err != nil {
		return core.ConnectionSession{}, fmt.Errorf("failed to decode session: %w: %w", core.ErrSessionCorrupt, err)
	}
	return session, nil
}
