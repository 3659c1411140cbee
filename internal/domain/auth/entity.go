// internal/domain/auth/entity.go
package auth

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"sitterhub-service/internal/domain/role"
)

// Identity is the authenticated user's stable account record. The id is
// immutable; metadata is a free-form mapping updated on profile edits and
// is the primary carrier of the user's role since the metadata migration.
type Identity struct {
	ID           uuid.UUID              `json:"id" db:"id"`
	Email        string                 `json:"email" db:"email"`
	PasswordHash string                 `json:"-" db:"password_hash"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"metadata"`

	Status              string       `json:"status" db:"status"`
	LastLogin           sql.NullTime `json:"last_login,omitempty" db:"last_login"`
	FailedLoginAttempts int          `json:"-" db:"failed_login_attempts"`

	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt sql.NullTime `json:"deleted_at,omitempty" db:"deleted_at"`
}

// MetadataRole extracts the role field from identity metadata. Returns
// Unknown when the field is absent or not one of the three known roles.
func (i *Identity) MetadataRole() role.Role {
	if i == nil || i.Metadata == nil {
		return role.Unknown
	}
	raw, ok := i.Metadata["role"].(string)
	if !ok {
		return role.Unknown
	}
	r, _ := role.Parse(raw)
	return r
}
