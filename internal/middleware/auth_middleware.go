// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/role"
	"sitterhub-service/internal/pkg/jwt"
	"sitterhub-service/internal/pkg/response"
	"sitterhub-service/internal/pkg/session"
	"sitterhub-service/internal/repository/postgres"
	"sitterhub-service/internal/service/resolver"
)

type AuthMiddleware struct {
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	authRepo       *postgres.AuthRepository
	resolver       *resolver.Resolver
	logger         *zap.Logger
}

func NewAuthMiddleware(
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	authRepo *postgres.AuthRepository,
	rsv *resolver.Resolver,
	logger *zap.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		authRepo:       authRepo,
		resolver:       rsv,
		logger:         logger,
	}
}

// Auth validates the bearer token and loads the caller into the request
// context. Tokens minted before the caller picked a role carry no role
// claim; those fall back to the full resolution chain.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.jwtManager.Verifier.VerifyAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		blacklisted, err := m.sessionManager.IsTokenBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			m.logger.Error("blacklist check failed", zap.Error(err))
		}
		if blacklisted {
			response.Error(c, http.StatusUnauthorized, "token has been revoked", nil)
			return
		}

		if _, err := m.sessionManager.GetSession(c.Request.Context(), claims.IdentityID, claims.ID); err != nil {
			response.Error(c, http.StatusUnauthorized, "session expired or invalid", nil)
			return
		}

		rl := claims.Role
		if !rl.Known() {
			if identity, err := m.authRepo.FindIdentityByID(c.Request.Context(), claims.IdentityID); err == nil {
				rl = m.resolver.Resolve(c.Request.Context(), identity)
			}
		}

		c.Set("identity_id", claims.IdentityID)
		c.Set("jti", claims.ID)
		c.Set("role", rl)
		if claims.ExpiresAt != nil {
			c.Set("token_expires_at", claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// RequireRole requires the caller to hold one of the given roles.
// MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(roles ...role.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl, exists := GetRole(c)
		if !exists {
			response.Error(c, http.StatusForbidden, "no role found - authentication required", nil)
			return
		}

		for _, required := range roles {
			if rl == required {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "insufficient permissions", nil, map[string]interface{}{
			"required_roles": roles,
			"user_role":      rl,
		})
	}
}

// OptionalAuth loads the caller when a valid token is present and passes
// the request through either way.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		claims, err := m.jwtManager.Verifier.VerifyAccessToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("identity_id", claims.IdentityID)
		c.Set("jti", claims.ID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	// Websocket upgrades cannot set headers from the browser.
	return c.Query("token")
}
