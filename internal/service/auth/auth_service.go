// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"sitterhub-service/internal/domain/auth"
	"sitterhub-service/internal/domain/role"
	"sitterhub-service/internal/pkg/authstate"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/pkg/jwt"
	"sitterhub-service/internal/pkg/session"
	"sitterhub-service/internal/repository/postgres"
	"sitterhub-service/internal/service/resolver"
)

type AuthService struct {
	authRepo       *postgres.AuthRepository
	roleRepo       *postgres.RoleRepository
	resolver       *resolver.Resolver
	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	rateLimiter    *session.RateLimiter
	feed           *authstate.Feed
	logger         *zap.Logger
}

func NewAuthService(
	authRepo *postgres.AuthRepository,
	roleRepo *postgres.RoleRepository,
	rsv *resolver.Resolver,
	jwtManager *jwt.Manager,
	sessionManager *session.Manager,
	rateLimiter *session.RateLimiter,
	feed *authstate.Feed,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		authRepo:       authRepo,
		roleRepo:       roleRepo,
		resolver:       rsv,
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		feed:           feed,
		logger:         logger,
	}
}

// ========== Register ==========

// Register creates a new account. When a role is supplied it is written
// into identity metadata and mirrored into the legacy role tables so that
// readers of either source agree from day one.
func (s *AuthService) Register(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	exists, err := s.authRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrDuplicateEntry
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	metadata := map[string]interface{}{}
	if req.FullName != "" {
		metadata["full_name"] = req.FullName
	}
	if req.Role != "" {
		metadata["role"] = req.Role
	}

	identity := &auth.Identity{
		Email:        req.Email,
		PasswordHash: string(hashed),
		Metadata:     metadata,
		Status:       "active",
	}
	if err := s.authRepo.CreateIdentity(ctx, identity); err != nil {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	if rl, ok := role.Parse(req.Role); ok {
		s.mirrorRole(ctx, identity.ID, rl)
	}

	s.logger.Info("account registered",
		zap.String("identity_id", identity.ID.String()),
		zap.String("role", req.Role))

	return s.startSession(ctx, identity, req.IPAddress, req.UserAgent)
}

// ========== Login ==========

func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error) {
	allowed, remaining, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	identity, err := s.authRepo.FindIdentityByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if identity.Status != "active" {
		return nil, fmt.Errorf("account is %s: %w", identity.Status, xerrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(req.Password)); err != nil {
		if err := s.authRepo.IncrementFailedLoginAttempts(ctx, identity.ID); err != nil {
			s.logger.Error("failed to record login attempt", zap.Error(err))
		}
		s.logger.Warn("invalid credentials",
			zap.String("email", req.Email),
			zap.Int64("attempts_remaining", remaining-1))
		return nil, xerrors.ErrUnauthorized
	}

	if err := s.authRepo.UpdateIdentityLastLogin(ctx, identity.ID); err != nil {
		s.logger.Error("failed to update last login", zap.Error(err))
	}
	if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Error("failed to reset login attempts", zap.Error(err))
	}

	return s.startSession(ctx, identity, req.IPAddress, req.UserAgent)
}

// startSession resolves the role, issues a token, caches the session and
// announces the sign-in on the auth feed.
func (s *AuthService) startSession(ctx context.Context, identity *auth.Identity, ipAddress, userAgent string) (*auth.LoginResponse, error) {
	rl := s.resolver.Resolve(ctx, identity)

	accessToken, jti, err := s.jwtManager.Generator.GenerateAccessToken(identity.ID, rl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtManager.Generator.TTL)

	sessionData := &session.SessionData{
		JTI:            jti,
		IdentityID:     identity.ID,
		Email:          identity.Email,
		Role:           rl,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		LoginAt:        now,
		LastActivityAt: now,
		ExpiresAt:      expiresAt,
	}
	if err := s.sessionManager.CreateSession(ctx, sessionData); err != nil {
		return nil, fmt.Errorf("failed to create session cache: %w", err)
	}

	s.feed.Publish(authstate.Event{Kind: authstate.EventSignedIn, Identity: identity})

	return &auth.LoginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User: auth.UserResponse{
			ID:       identity.ID,
			Email:    identity.Email,
			Role:     rl,
			Metadata: identity.Metadata,
		},
	}, nil
}

// ========== Logout ==========

func (s *AuthService) Logout(ctx context.Context, identityID uuid.UUID, jti string, tokenExpiresAt time.Time) error {
	if err := s.sessionManager.InvalidateSession(ctx, identityID, jti); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	if err := s.sessionManager.BlacklistToken(ctx, jti, tokenExpiresAt); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	s.feed.Publish(authstate.Event{Kind: authstate.EventSignedOut})
	return nil
}

// LogoutAllSessions invalidates every session for a user.
func (s *AuthService) LogoutAllSessions(ctx context.Context, identityID uuid.UUID) error {
	if err := s.sessionManager.InvalidateAllSessions(ctx, identityID); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}

	s.feed.Publish(authstate.Event{Kind: authstate.EventSignedOut})
	return nil
}

// ========== Refresh ==========

// Refresh re-issues a token for a live session. The old token keeps its
// natural expiry; consumers learn about the refresh through the feed.
func (s *AuthService) Refresh(ctx context.Context, identityID uuid.UUID, jti string) (*auth.LoginResponse, error) {
	if _, err := s.sessionManager.GetSession(ctx, identityID, jti); err != nil {
		return nil, xerrors.ErrSessionExpired
	}

	identity, err := s.authRepo.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	resp, err := s.startSession(ctx, identity, "", "")
	if err != nil {
		return nil, err
	}

	s.feed.Publish(authstate.Event{Kind: authstate.EventTokenRefreshed, Identity: identity})
	return resp, nil
}

// ========== Role selection ==========

// SelectRole records the caller's chosen role in identity metadata and
// mirrors it into the legacy tables. This is the only write path from a
// role decision back into metadata.
func (s *AuthService) SelectRole(ctx context.Context, identityID uuid.UUID, raw string) (*auth.UserResponse, error) {
	rl, ok := role.Parse(raw)
	if !ok {
		return nil, xerrors.ErrInvalidInput
	}

	identity, err := s.authRepo.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if identity.Metadata == nil {
		identity.Metadata = map[string]interface{}{}
	}
	identity.Metadata["role"] = rl.String()

	if err := s.authRepo.UpdateMetadata(ctx, identityID, identity.Metadata); err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	s.mirrorRole(ctx, identityID, rl)

	s.feed.Publish(authstate.Event{Kind: authstate.EventTokenRefreshed, Identity: identity})

	return &auth.UserResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     rl,
		Metadata: identity.Metadata,
	}, nil
}

// CurrentUser returns the identity with its resolved role.
func (s *AuthService) CurrentUser(ctx context.Context, identityID uuid.UUID) (*auth.UserResponse, error) {
	identity, err := s.authRepo.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return &auth.UserResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     s.resolver.Resolve(ctx, identity),
		Metadata: identity.Metadata,
	}, nil
}

// mirrorRole writes the role into user_roles and the legacy users table.
// Failures are logged, not surfaced; metadata stays the source of truth.
func (s *AuthService) mirrorRole(ctx context.Context, identityID uuid.UUID, rl role.Role) {
	if err := s.roleRepo.UpsertUserRole(ctx, identityID, rl); err != nil {
		s.logger.Error("failed to mirror role into user_roles", zap.Error(err))
	}
	if err := s.roleRepo.UpsertLegacyUser(ctx, identityID, rl); err != nil {
		s.logger.Error("failed to mirror role into users", zap.Error(err))
	}
}
