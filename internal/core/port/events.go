package port

import (
	"context"

	"github.com/arklim/social-platform-admin/internal/core/domain"
)

// EventPublisher pushes admin lifecycle events onto the platform event bus.
type EventPublisher interface {
	PublishAdminProfileUpdated(ctx context.Context, event domain.AdminProfileUpdatedEvent) error
	PublishAdminPasswordChanged(ctx context.Context, event domain.AdminPasswordChangedEvent) error
	PublishAdminLoggedOut(ctx context.Context, event domain.AdminLoggedOutEvent) error
}
