package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-admin/internal/core/domain"
)

// SessionRegistry maps opaque bearer tokens to live admin sessions.
type SessionRegistry interface {
	// Put stores a session under the token for the given lifetime.
	Put(ctx context.Context, token string, session domain.AdminSession, ttl time.Duration) error
	// Resolve returns the session for the token, or repository.ErrNotFound.
	Resolve(ctx context.Context, token string) (*domain.AdminSession, error)
	// Invalidate destroys the session so subsequent presentation of the token
	// fails authentication. Invalidating an unknown token is a no-op.
	Invalidate(ctx context.Context, token string) error
}
