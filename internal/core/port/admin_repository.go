package port

import (
	"context"
	"time"

	"github.com/arklim/social-platform-admin/internal/core/domain"
)

// AdminRepository exposes persistence behavior for admin accounts.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*domain.AdminAccount, error)
	// GetByUsernameExcluding returns another account holding the username, if
	// any. The account identified by excludeID is never reported.
	GetByUsernameExcluding(ctx context.Context, username, excludeID string) (*domain.AdminAccount, error)
	GetByEmailExcluding(ctx context.Context, email, excludeID string) (*domain.AdminAccount, error)
	UpdateProfile(ctx context.Context, id, username, email string, updatedAt time.Time) error
	UpdateCredentials(ctx context.Context, id, passwordHash, passwordAlgo string, mustChange bool, changedAt time.Time) error
}
