// internal/pkg/authstate/feed.go
package authstate

import (
	"sync"

	"sitterhub-service/internal/domain/auth"
)

type EventKind string

const (
	EventSignedIn       EventKind = "signed_in"
	EventSignedOut      EventKind = "signed_out"
	EventTokenRefreshed EventKind = "token_refreshed"
)

// Event is one change of auth state. Identity is nil for signed_out.
type Event struct {
	Kind     EventKind
	Identity *auth.Identity
}

// Feed fans auth-state changes out to subscribers in publish order. The
// auth service is the only publisher; session/role resolvers subscribe
// for the lifetime of the principal they track.
type Feed struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of events and a cancel func. The channel is
// buffered; a subscriber that stops draining loses events rather than
// blocking the publisher.
func (f *Feed) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subs[ch]; ok {
			delete(f.subs, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *Feed) Publish(ev Event) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
