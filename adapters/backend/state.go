package backend

import (
	"sync"

	"github.com/layer-3/walletbridge/ports"
)

// state is the cached connection shared by every backend variant.
type state struct {
	mu       sync.RWMutex
	address  string
	listener ports.SessionListener
}

func (s *state) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// IsConnected is a pure check of cached state.
func (s *state) IsConnected() bool {
	return s.Address() != ""
}

func (s *state) SetListener(l ports.SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *state) setAddress(a string) (previous string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous, s.address = s.address, a
	return previous
}

func (s *state) currentListener() ports.SessionListener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener
}
