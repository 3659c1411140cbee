// internal/service/resolver/state_test.go
package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sitterhub-service/internal/domain/role"
)

func TestStoreInitialState(t *testing.T) {
	s := NewStore()
	st := s.Snapshot()

	assert.Nil(t, st.Identity)
	assert.Equal(t, role.Unknown, st.Role)
	assert.True(t, st.Loading)
}

func TestStoreWatchDeliversCurrentThenUpdates(t *testing.T) {
	s := NewStore()

	ch, cancel := s.Watch()
	defer cancel()

	first := <-ch
	assert.True(t, first.Loading)

	s.set(State{Role: role.Parent, Loading: false})

	second := <-ch
	assert.Equal(t, role.Parent, second.Role)
	assert.False(t, second.Loading)

	assert.Equal(t, role.Parent, s.Snapshot().Role)
}

func TestStoreCancelIsIdempotent(t *testing.T) {
	s := NewStore()

	_, cancel := s.Watch()
	cancel()
	cancel()

	// Writes after cancel must not panic on the closed channel.
	s.set(State{Role: role.Admin, Loading: false})
	assert.Equal(t, role.Admin, s.Snapshot().Role)
}
