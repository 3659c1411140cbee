// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/middleware"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/response"
	authService "sitterhub-service/internal/service/auth"
)

type AuthHandler struct {
	authService *authService.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(svc *authService.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: svc,
		logger:      logger,
	}
}

// ========== Registration ==========

// Register handles user registration (public endpoint)
func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) {
			response.Error(c, http.StatusConflict, "email already registered", nil)
			return
		}
		h.logger.Error("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Error(c, http.StatusBadRequest, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", loginResp)
}

// ========== Login ==========

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, xerrors.ErrRateLimited) {
			response.Error(c, http.StatusTooManyRequests, "too many login attempts, please try again in 15 minutes", nil)
			return
		}
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.logger.Info("user logged in",
		zap.String("identity_id", loginResp.User.ID.String()),
		zap.String("email", loginResp.User.Email),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Logout ==========

// Logout handles user logout (requires auth)
func (h *AuthHandler) Logout(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), identityID, jti, middleware.GetTokenExpiry(c)); err != nil {
		h.logger.Error("logout failed",
			zap.String("identity_id", identityID.String()),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logged out", nil)
}

// LogoutAll invalidates every session for the caller.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	if err := h.authService.LogoutAllSessions(c.Request.Context(), identityID); err != nil {
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions logged out", nil)
}

// ========== Refresh ==========

func (h *AuthHandler) Refresh(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)
	jti := middleware.MustGetJTI(c)

	loginResp, err := h.authService.Refresh(c.Request.Context(), identityID, jti)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "session expired or invalid", nil)
		return
	}

	response.Success(c, http.StatusOK, "token refreshed", loginResp)
}

// ========== Role selection ==========

// SelectRole records the caller's chosen role (for accounts created
// through flows that never set one).
func (h *AuthHandler) SelectRole(c *gin.Context) {
	var req auth.SelectRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	identityID := middleware.MustGetIdentityID(c)

	user, err := h.authService.SelectRole(c.Request.Context(), identityID, req.Role)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "role selection failed", err)
		return
	}

	response.Success(c, http.StatusOK, "role selected", user)
}

// ========== Me ==========

func (h *AuthHandler) Me(c *gin.Context) {
	identityID := middleware.MustGetIdentityID(c)

	user, err := h.authService.CurrentUser(c.Request.Context(), identityID)
	if err != nil {
		response.NotFound(c, "account not found")
		return
	}

	response.Success(c, http.StatusOK, "ok", user)
}
