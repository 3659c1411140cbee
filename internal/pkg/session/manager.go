// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Manager stores live sessions in redis, keyed by identity and jti. Redis
// is the source of truth for session liveness; a missing key means the
// session is gone regardless of what the token says.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// CreateSession stores a new session and indexes it under the identity.
func (m *Manager) CreateSession(ctx context.Context, s *SessionData) error {
	key := m.sessionKey(s.IdentityID, s.JTI)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	// Index for logout-all.
	idxKey := m.indexKey(s.IdentityID)
	if err := m.client.SAdd(ctx, idxKey, s.JTI).Err(); err != nil {
		return fmt.Errorf("failed to index session: %w", err)
	}
	m.client.Expire(ctx, idxKey, ttl)

	return nil
}

// GetSession retrieves a session, updating its last-activity stamp in the
// background.
func (m *Manager) GetSession(ctx context.Context, identityID uuid.UUID, jti string) (*SessionData, error) {
	key := m.sessionKey(identityID, jti)

	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s SessionData
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	s.LastActivityAt = time.Now()
	go m.touch(context.Background(), &s)

	return &s, nil
}

// InvalidateSession removes one session.
func (m *Manager) InvalidateSession(ctx context.Context, identityID uuid.UUID, jti string) error {
	if err := m.client.Del(ctx, m.sessionKey(identityID, jti)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	m.client.SRem(ctx, m.indexKey(identityID), jti)
	return nil
}

// InvalidateAllSessions removes every session for an identity.
func (m *Manager) InvalidateAllSessions(ctx context.Context, identityID uuid.UUID) error {
	idxKey := m.indexKey(identityID)

	jtis, err := m.client.SMembers(ctx, idxKey).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	for _, jti := range jtis {
		m.client.Del(ctx, m.sessionKey(identityID, jti))
	}
	return m.client.Del(ctx, idxKey).Err()
}

// IsTokenBlacklisted checks the revocation list.
func (m *Manager) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return n > 0, nil
}

// BlacklistToken revokes a jti until its natural expiry.
func (m *Manager) BlacklistToken(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

func (m *Manager) touch(ctx context.Context, s *SessionData) {
	data, err := json.Marshal(s)
	if err != nil {
		return
	}
	ttl := time.Until(s.ExpiresAt)
	if ttl > 0 {
		m.client.Set(ctx, m.sessionKey(s.IdentityID, s.JTI), data, ttl)
	}
}

func (m *Manager) sessionKey(identityID uuid.UUID, jti string) string {
	return fmt.Sprintf("session:%s:%s", identityID, jti)
}

func (m *Manager) indexKey(identityID uuid.UUID) string {
	return fmt.Sprintf("session:index:%s", identityID)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("session:blacklist:%s", jti)
}
