// internal/service/resolver/resolver_test.go
package resolver

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/domain/role"
	"sitterhub-service/internal/pkg/authstate"
)

type fakeSources struct {
	rolesTable      role.Role
	rolesTableDelay time.Duration
	usersTable      role.Role
	parentRow       bool
	babysitterRow   bool
	profileDelay    time.Duration

	rolesTableCalls atomic.Int32
	usersTableCalls atomic.Int32
}

func (f *fakeSources) RoleFromRolesTable(ctx context.Context, _ uuid.UUID) (role.Role, error) {
	f.rolesTableCalls.Add(1)
	if f.rolesTableDelay > 0 {
		select {
		case <-time.After(f.rolesTableDelay):
		case <-ctx.Done():
			return role.Unknown, ctx.Err()
		}
	}
	return f.rolesTable, nil
}

func (f *fakeSources) RoleFromUsersTable(ctx context.Context, _ uuid.UUID) (role.Role, error) {
	f.usersTableCalls.Add(1)
	return f.usersTable, nil
}

func (f *fakeSources) ParentProfileExists(ctx context.Context, _ uuid.UUID) (bool, error) {
	if err := f.sleep(ctx); err != nil {
		return false, err
	}
	return f.parentRow, nil
}

func (f *fakeSources) BabysitterProfileExists(ctx context.Context, _ uuid.UUID) (bool, error) {
	if err := f.sleep(ctx); err != nil {
		return false, err
	}
	return f.babysitterRow, nil
}

func (f *fakeSources) sleep(ctx context.Context) error {
	if f.profileDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(f.profileDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func identityWithRole(r string) *auth.Identity {
	id := &auth.Identity{ID: uuid.New(), Email: "user@example.com"}
	if r != "" {
		id.Metadata = map[string]interface{}{"role": r}
	}
	return id
}

func newTestResolver(sources RoleSources) (*Resolver, *authstate.Feed) {
	feed := authstate.NewFeed()
	r := New(sources, feed, zap.NewNop())
	r.FallbackTimeout = 100 * time.Millisecond
	return r, feed
}

func TestResolveMetadataShortCircuit(t *testing.T) {
	sources := &fakeSources{rolesTable: role.Admin}
	r, _ := newTestResolver(sources)

	got := r.Resolve(context.Background(), identityWithRole("babysitter"))

	assert.Equal(t, role.Babysitter, got)
	assert.Zero(t, sources.rolesTableCalls.Load(), "metadata hit must not query fallback tables")
	assert.Zero(t, sources.usersTableCalls.Load())
}

func TestResolveRolesTableWinsOverUsersTable(t *testing.T) {
	sources := &fakeSources{rolesTable: role.Admin, usersTable: role.Parent}
	r, _ := newTestResolver(sources)

	got := r.Resolve(context.Background(), identityWithRole(""))

	assert.Equal(t, role.Admin, got)
}

func TestResolveUsersTableWhenRolesTableEmpty(t *testing.T) {
	sources := &fakeSources{usersTable: role.Parent}
	r, _ := newTestResolver(sources)

	got := r.Resolve(context.Background(), identityWithRole(""))

	assert.Equal(t, role.Parent, got)
}

func TestResolveTimeoutDegradesToNextStep(t *testing.T) {
	// The roles-table query outlives the timeout; resolution must fall
	// through to the profile probe instead of waiting it out.
	sources := &fakeSources{
		rolesTable:      role.Admin,
		rolesTableDelay: 2 * time.Second,
		babysitterRow:   true,
	}
	r, _ := newTestResolver(sources)

	start := time.Now()
	got := r.Resolve(context.Background(), identityWithRole(""))

	assert.Equal(t, role.Babysitter, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestResolveProfileProbesRunConcurrently(t *testing.T) {
	// Both probes hang past the timeout. Run in parallel they cost one
	// timeout window between them, not one each.
	sources := &fakeSources{profileDelay: 2 * time.Second}
	r, _ := newTestResolver(sources)
	r.FallbackTimeout = 200 * time.Millisecond

	start := time.Now()
	got := r.Resolve(context.Background(), identityWithRole(""))

	assert.Equal(t, role.Unknown, got)
	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestResolveProfileFallback(t *testing.T) {
	r, _ := newTestResolver(&fakeSources{babysitterRow: true})
	assert.Equal(t, role.Babysitter, r.Resolve(context.Background(), identityWithRole("")))

	r2, _ := newTestResolver(&fakeSources{parentRow: true, babysitterRow: true})
	assert.Equal(t, role.Parent, r2.Resolve(context.Background(), identityWithRole("")),
		"parent profile takes precedence over babysitter profile")
}

func TestResolveExhaustionYieldsUnknown(t *testing.T) {
	r, _ := newTestResolver(&fakeSources{})
	assert.Equal(t, role.Unknown, r.Resolve(context.Background(), identityWithRole("")))
}

func TestResolveIgnoresGarbageMetadataRole(t *testing.T) {
	sources := &fakeSources{usersTable: role.Parent}
	r, _ := newTestResolver(sources)

	got := r.Resolve(context.Background(), identityWithRole("superuser"))

	assert.Equal(t, role.Parent, got)
}

func TestRunLoadingEndsBeforeRoleResolves(t *testing.T) {
	// Sign-in with no metadata role and a slow roles table: the store must
	// show Loading=false with the identity before the role refines.
	sources := &fakeSources{rolesTable: role.Parent, rolesTableDelay: 50 * time.Millisecond}
	r, feed := newTestResolver(sources)
	r.FallbackTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	states, stop := r.Store().Watch()
	defer stop()

	// Initial state before any event.
	first := <-states
	assert.True(t, first.Loading)
	assert.Nil(t, first.Identity)

	id := identityWithRole("")
	// Give Run a moment to subscribe before publishing.
	time.Sleep(10 * time.Millisecond)
	feed.Publish(authstate.Event{Kind: authstate.EventSignedIn, Identity: id})

	var sawLoadingFalseAt, sawRoleAt time.Time
	deadline := time.After(2 * time.Second)
	for sawRoleAt.IsZero() {
		select {
		case st := <-states:
			if !st.Loading && st.Identity != nil && sawLoadingFalseAt.IsZero() {
				sawLoadingFalseAt = time.Now()
			}
			if st.Role == role.Parent {
				sawRoleAt = time.Now()
			}
		case <-deadline:
			t.Fatal("never observed resolved role")
		}
	}

	require.False(t, sawLoadingFalseAt.IsZero())
	assert.True(t, sawLoadingFalseAt.Before(sawRoleAt) || sawLoadingFalseAt.Equal(sawRoleAt))

	final := r.Store().Snapshot()
	assert.Equal(t, id, final.Identity)
	assert.Equal(t, role.Parent, final.Role)
	assert.False(t, final.Loading)
}

func TestRunSignOutClearsState(t *testing.T) {
	r, feed := newTestResolver(&fakeSources{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	time.Sleep(10 * time.Millisecond)
	feed.Publish(authstate.Event{Kind: authstate.EventSignedIn, Identity: identityWithRole("parent")})
	time.Sleep(20 * time.Millisecond)
	feed.Publish(authstate.Event{Kind: authstate.EventSignedOut})
	time.Sleep(20 * time.Millisecond)

	st := r.Store().Snapshot()
	assert.Nil(t, st.Identity)
	assert.Equal(t, role.Unknown, st.Role)
	assert.False(t, st.Loading)
}

func TestRunMetadataRolePublishedImmediately(t *testing.T) {
	sources := &fakeSources{}
	r, feed := newTestResolver(sources)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	time.Sleep(10 * time.Millisecond)
	feed.Publish(authstate.Event{Kind: authstate.EventSignedIn, Identity: identityWithRole("admin")})
	time.Sleep(20 * time.Millisecond)

	st := r.Store().Snapshot()
	assert.Equal(t, role.Admin, st.Role)
	assert.Zero(t, sources.rolesTableCalls.Load())
}
