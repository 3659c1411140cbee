// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sitterhub-service/internal/domain/role"
)

// Claims represents the JWT claims. Role may be empty for legacy accounts
// created before metadata-based roles; the auth middleware resolves those
// through the fallback chain instead of rejecting them.
type Claims struct {
	IdentityID     uuid.UUID `json:"identity_id"`
	Role           role.Role `json:"role,omitempty"`
	SessionPurpose string    `json:"session_purpose"` // access, refresh
	jwt.RegisteredClaims
}

// HasRole checks if the claims carry the given role.
func (c *Claims) HasRole(r role.Role) bool {
	return c.Role == r
}

// IsAdmin checks if the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == role.Admin
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
