// internal/middleware/helpers.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sitterhub-service/internal/domain/role"
)

// GetIdentityID gets the authenticated user's id from context.
func GetIdentityID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("identity_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// MustGetIdentityID gets the identity ID from context or panics.
func MustGetIdentityID(c *gin.Context) uuid.UUID {
	id, exists := GetIdentityID(c)
	if !exists {
		panic("identity_id not found in context")
	}
	return id
}

// GetJTI gets the token id from context.
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// MustGetJTI gets the JTI from context or panics.
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetRole gets the caller's resolved role from context.
func GetRole(c *gin.Context) (role.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		return role.Unknown, false
	}
	rl, ok := v.(role.Role)
	return rl, ok
}

// GetTokenExpiry gets the token's expiry from context.
func GetTokenExpiry(c *gin.Context) time.Time {
	v, exists := c.Get("token_expires_at")
	if !exists {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}

// IsAuthenticated checks if the request carries a verified caller.
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("identity_id")
	return exists
}

// IsAdmin checks if the caller is an admin.
func IsAdmin(c *gin.Context) bool {
	rl, _ := GetRole(c)
	return rl == role.Admin
}
