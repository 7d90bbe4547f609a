package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/repository"
)

const defaultSessionPrefix = "admin:session"

// SessionRegistry persists the token to session mapping in Redis. Redis owns
// the concurrency control, so no locks are held by callers.
type SessionRegistry struct {
	client *red.Client
	prefix string
}

// NewSessionRegistry constructs a Redis-backed session registry.
func NewSessionRegistry(client *red.Client, keyPrefix string) *SessionRegistry {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}

	return &SessionRegistry{client: client, prefix: prefix}
}

type sessionRecord struct {
	AdminID   string    `json:"admin_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Put stores a session under the token for the given lifetime.
func (s *SessionRegistry) Put(ctx context.Context, token string, session domain.AdminSession, ttl time.Duration) error {
	key := s.key(token)
	if key == "" {
		return fmt.Errorf("session token is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	record := sessionRecord{
		AdminID:   session.AdminID,
		Username:  session.Username,
		CreatedAt: session.CreatedAt.UTC(),
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}

	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// Resolve returns the session for the token, or repository.ErrNotFound when
// the token is unknown or expired.
func (s *SessionRegistry) Resolve(ctx context.Context, token string) (*domain.AdminSession, error) {
	key := s.key(token)
	if key == "" {
		return nil, repository.ErrNotFound
	}

	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}

	return &domain.AdminSession{
		AdminID:   record.AdminID,
		Username:  record.Username,
		CreatedAt: record.CreatedAt,
	}, nil
}

// Invalidate destroys the session. Deleting an unknown token is a no-op so
// logout stays idempotent.
func (s *SessionRegistry) Invalidate(ctx context.Context, token string) error {
	key := s.key(token)
	if key == "" {
		return nil
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}

	return nil
}

func (s *SessionRegistry) key(token string) string {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return ""
	}
	return s.prefix + ":" + trimmed
}

var _ port.SessionRegistry = (*SessionRegistry)(nil)
