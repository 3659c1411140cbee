// internal/repository/postgres/role_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/role"
)

// RoleRepository reads the legacy role sources: the user_roles table, the
// users table, and the two profile tables. These exist for accounts
// created before roles moved into identity metadata and are consulted
// only by the resolver's fallback chain.
type RoleRepository struct {
	db *pgxpool.Pool
}

func NewRoleRepository(db *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{db: db}
}

// RoleFromRolesTable returns the role recorded in user_roles, or Unknown.
func (r *RoleRepository) RoleFromRolesTable(ctx context.Context, userID uuid.UUID) (role.Role, error) {
	var raw string
	err := r.db.QueryRow(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return role.Unknown, nil
	}
	if err != nil {
		return role.Unknown, fmt.Errorf("failed to query user_roles: %w", err)
	}
	parsed, _ := role.Parse(raw)
	return parsed, nil
}

// RoleFromUsersTable returns the role recorded in the legacy users table,
// or Unknown.
func (r *RoleRepository) RoleFromUsersTable(ctx context.Context, userID uuid.UUID) (role.Role, error) {
	var raw *string
	err := r.db.QueryRow(ctx,
		`SELECT role FROM users WHERE id = $1`, userID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return role.Unknown, nil
	}
	if err != nil {
		return role.Unknown, fmt.Errorf("failed to query users: %w", err)
	}
	if raw == nil {
		return role.Unknown, nil
	}
	parsed, _ := role.Parse(*raw)
	return parsed, nil
}

// ParentProfileExists probes parent_profiles for a row keyed by user id.
func (r *RoleRepository) ParentProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM parent_profiles WHERE user_id = $1)`, userID)
}

// BabysitterProfileExists probes babysitter_profiles for a row keyed by
// user id.
func (r *RoleRepository) BabysitterProfileExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM babysitter_profiles WHERE user_id = $1)`, userID)
}

func (r *RoleRepository) exists(ctx context.Context, query string, userID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to probe profile: %w", err)
	}
	return exists, nil
}

// UpsertLegacyUser mirrors a role into the legacy users table, the same
// write the original onboarding flow performed for older readers.
func (r *RoleRepository) UpsertLegacyUser(ctx context.Context, userID uuid.UUID, rl role.Role) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, role) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET role = EXCLUDED.role
	`, userID, rl.String())
	if err != nil {
		return fmt.Errorf("failed to upsert legacy user: %w", err)
	}
	return nil
}

// UpsertUserRole mirrors a role into user_roles.
func (r *RoleRepository) UpsertUserRole(ctx context.Context, userID uuid.UUID, rl role.Role) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`, userID, rl.String())
	if err != nil {
		return fmt.Errorf("failed to upsert user role: %w", err)
	}
	return nil
}
