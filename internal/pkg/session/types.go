// internal/pkg/session/types.go
package session

import (
	"time"

	"github.com/google/uuid"

	"sitterhub-service/internal/domain/role"
)

type SessionData struct {
	JTI            string    `json:"jti"`
	IdentityID     uuid.UUID `json:"identity_id"`
	Email          string    `json:"email"`
	Role           role.Role `json:"role"`
	IPAddress      string    `json:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	LoginAt        time.Time `json:"login_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}
