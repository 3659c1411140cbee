// internal/service/resolver/resolver.go
package resolver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/domain/role"
	"sitterhub-service/internal/pkg/authstate"
	"sitterhub-service/internal/pkg/timeout"
)

// RoleSources are the legacy role signals consulted when identity metadata
// carries no role. Implemented by postgres.RoleRepository.
type RoleSources interface {
	RoleFromRolesTable(ctx context.Context, userID uuid.UUID) (role.Role, error)
	RoleFromUsersTable(ctx context.Context, userID uuid.UUID) (role.Role, error)
	ParentProfileExists(ctx context.Context, userID uuid.UUID) (bool, error)
	BabysitterProfileExists(ctx context.Context, userID uuid.UUID) (bool, error)
}

const defaultFallbackTimeout = 2 * time.Second

// Resolver tracks one principal's identity and role across auth-state
// changes. It subscribes to the auth feed and republishes a State per
// event; when two events race, the later event's state wins.
type Resolver struct {
	sources RoleSources
	feed    *authstate.Feed
	store   *Store
	logger  *zap.Logger

	// FallbackTimeout caps each legacy-source query. A source that does
	// not answer in time contributes nothing instead of stalling resolution.
	FallbackTimeout time.Duration
}

func New(sources RoleSources, feed *authstate.Feed, logger *zap.Logger) *Resolver {
	return &Resolver{
		sources:         sources,
		feed:            feed,
		store:           NewStore(),
		logger:          logger,
		FallbackTimeout: defaultFallbackTimeout,
	}
}

// Store exposes the resolver's state for snapshots and watchers.
func (r *Resolver) Store() *Store {
	return r.store
}

// Run consumes auth events until ctx is cancelled. Every event triggers a
// full re-resolution, including repeats for the same identity. Resolutions
// from rapid successive events may interleave; the last write to the store
// wins. Events also arrive rarely enough that this stays inconsequential.
func (r *Resolver) Run(ctx context.Context) {
	events, cancel := r.feed.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.handle(ctx, ev)
		}
	}
}

func (r *Resolver) handle(ctx context.Context, ev authstate.Event) {
	if ev.Kind == authstate.EventSignedOut || ev.Identity == nil {
		r.store.set(State{Identity: nil, Role: role.Unknown, Loading: false})
		return
	}

	identity := ev.Identity

	// The identity is known as soon as the event arrives, so loading ends
	// here even if role refinement is still in flight.
	r.store.set(State{Identity: identity, Role: identity.MetadataRole(), Loading: false})

	if identity.MetadataRole().Known() {
		return
	}

	// Refine from legacy sources off the event loop so a slow database
	// never delays the next auth event.
	go func() {
		resolved := r.Resolve(ctx, identity)
		r.store.set(State{Identity: identity, Role: resolved, Loading: false})
	}()
}

// Resolve determines the identity's role. Metadata wins outright; otherwise
// the role tables are consulted concurrently, then profile existence is
// probed. Every failure or timeout degrades to the next signal, so Resolve
// never returns an error.
func (r *Resolver) Resolve(ctx context.Context, identity *auth.Identity) role.Role {
	if rl := identity.MetadataRole(); rl.Known() {
		return rl
	}

	userID := identity.ID

	var (
		wg        sync.WaitGroup
		fromRoles role.Role
		fromUsers role.Role
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fromRoles = timeout.Do(ctx, r.FallbackTimeout, role.Unknown, func(ctx context.Context) (role.Role, error) {
			return r.sources.RoleFromRolesTable(ctx, userID)
		})
	}()
	go func() {
		defer wg.Done()
		fromUsers = timeout.Do(ctx, r.FallbackTimeout, role.Unknown, func(ctx context.Context) (role.Role, error) {
			return r.sources.RoleFromUsersTable(ctx, userID)
		})
	}()
	wg.Wait()

	// user_roles is the newer of the two tables and takes precedence.
	if fromRoles.Known() {
		return fromRoles
	}
	if fromUsers.Known() {
		return fromUsers
	}

	var (
		isParent     bool
		isBabysitter bool
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		isParent = timeout.Do(ctx, r.FallbackTimeout, false, func(ctx context.Context) (bool, error) {
			return r.sources.ParentProfileExists(ctx, userID)
		})
	}()
	go func() {
		defer wg.Done()
		isBabysitter = timeout.Do(ctx, r.FallbackTimeout, false, func(ctx context.Context) (bool, error) {
			return r.sources.BabysitterProfileExists(ctx, userID)
		})
	}()
	wg.Wait()

	// A user with both profiles counts as a parent.
	if isParent {
		return role.Parent
	}
	if isBabysitter {
		return role.Babysitter
	}

	r.logger.Debug("no role signal found", zap.String("user_id", userID.String()))
	return role.Unknown
}
