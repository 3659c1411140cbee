// internal/domain/auth/dto.go
package auth

import (
	"time"

	"github.com/google/uuid"

	"sitterhub-service/internal/domain/role"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FullName  string `json:"full_name" binding:"max=255"`
	Role      string `json:"role" binding:"omitempty,oneof=parent babysitter"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID       uuid.UUID              `json:"id"`
	Email    string                 `json:"email"`
	Role     role.Role              `json:"role"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SelectRoleRequest locks in a role for accounts that signed up through a
// flow that never set one (e.g. OAuth).
type SelectRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=parent babysitter admin"`
}
