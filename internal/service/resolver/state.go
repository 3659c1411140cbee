// internal/service/resolver/state.go
package resolver

import (
	"sync"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/domain/role"
)

// State is the resolver's published view of who the principal is and what
// role they hold. Loading is true only until the first auth event has been
// processed far enough to know the identity; role refinement can continue
// after Loading drops to false.
type State struct {
	Identity *auth.Identity
	Role     role.Role
	Loading  bool
}

// Store holds the current State and fans out change notifications. All
// writes go through the owning resolver goroutine; watchers only read.
type Store struct {
	mu       sync.RWMutex
	state    State
	watchers map[chan State]struct{}
}

func NewStore() *Store {
	return &Store{
		state:    State{Loading: true},
		watchers: make(map[chan State]struct{}),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Watch returns a channel that receives every state written after the
// call, plus the current state immediately. Cancel releases the watcher.
func (s *Store) Watch() (<-chan State, func()) {
	ch := make(chan State, 8)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	ch <- s.state
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.watchers[ch]; ok {
			delete(s.watchers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) set(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = st
	for ch := range s.watchers {
		select {
		case ch <- st:
		default:
		}
	}
}
