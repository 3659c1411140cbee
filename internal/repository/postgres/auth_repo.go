// internal/repository/postgres/auth_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/auth"
	xerrors "sitterhub-service/internal/pkg/errors"
)

type AuthRepository struct {
	db *pgxpool.Pool
}

func NewAuthRepository(db *pgxpool.Pool) *AuthRepository {
	return &AuthRepository{db: db}
}

const identityColumns = `
	id, email, password_hash, metadata, status, last_login,
	failed_login_attempts, created_at, updated_at, deleted_at
`

func (r *AuthRepository) scanIdentity(row pgx.Row) (*auth.Identity, error) {
	var identity auth.Identity
	err := row.Scan(
		&identity.ID, &identity.Email, &identity.PasswordHash, &identity.Metadata,
		&identity.Status, &identity.LastLogin, &identity.FailedLoginAttempts,
		&identity.CreatedAt, &identity.UpdatedAt, &identity.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	return &identity, nil
}

// FindIdentityByEmail retrieves an identity by email
func (r *AuthRepository) FindIdentityByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM auth_identities
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`
	return r.scanIdentity(r.db.QueryRow(ctx, query, email))
}

// FindIdentityByID retrieves an identity by ID
func (r *AuthRepository) FindIdentityByID(ctx context.Context, id uuid.UUID) (*auth.Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM auth_identities
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanIdentity(r.db.QueryRow(ctx, query, id))
}

// ExistsByEmail checks whether any live identity uses the email.
func (r *AuthRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM auth_identities
			WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
		)
	`
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// CreateIdentity creates a new identity
func (r *AuthRepository) CreateIdentity(ctx context.Context, identity *auth.Identity) error {
	query := `
		INSERT INTO auth_identities (email, password_hash, metadata, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		identity.Email, identity.PasswordHash, identity.Metadata, identity.Status,
	).Scan(&identity.ID, &identity.CreatedAt, &identity.UpdatedAt)
}

// UpdateMetadata replaces the identity's metadata document.
func (r *AuthRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]interface{}) error {
	query := `
		UPDATE auth_identities
		SET metadata = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, metadata, id)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateIdentityLastLogin updates the last login timestamp
func (r *AuthRepository) UpdateIdentityLastLogin(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE auth_identities
		SET last_login = $1, failed_login_attempts = 0
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, time.Now(), id)
	return err
}

// IncrementFailedLoginAttempts increments failed login attempts
func (r *AuthRepository) IncrementFailedLoginAttempts(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE auth_identities
		SET failed_login_attempts = failed_login_attempts + 1
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// ListIdentities returns identities newest first, for the admin panel.
func (r *AuthRepository) ListIdentities(ctx context.Context, limit int) ([]auth.Identity, error) {
	query := `
		SELECT ` + identityColumns + `
		FROM auth_identities
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	var identities []auth.Identity
	for rows.Next() {
		var identity auth.Identity
		if err := rows.Scan(
			&identity.ID, &identity.Email, &identity.PasswordHash, &identity.Metadata,
			&identity.Status, &identity.LastLogin, &identity.FailedLoginAttempts,
			&identity.CreatedAt, &identity.UpdatedAt, &identity.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
