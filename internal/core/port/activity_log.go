package port

import (
	"context"

	"github.com/arklim/social-platform-admin/internal/core/domain"
)

// ActivityLog is an append-only audit sink. Append failures are surfaced to
// the caller so it can decide whether to degrade; they never roll back the
// primary mutation.
type ActivityLog interface {
	Append(ctx context.Context, entry domain.ActivityEntry) error
}
