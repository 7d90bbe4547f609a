package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
)

// StubPublisher logs events instead of publishing them. Used when Kafka
// brokers are not configured or unreachable.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a logging-only event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) PublishAdminProfileUpdated(_ context.Context, event domain.AdminProfileUpdatedEvent) error {
	p.logger.Debug("stub publisher: admin.profile.updated",
		zap.String("admin_id", event.AdminID),
		zap.String("username", event.Username),
	)
	return nil
}

func (p *StubPublisher) PublishAdminPasswordChanged(_ context.Context, event domain.AdminPasswordChangedEvent) error {
	p.logger.Debug("stub publisher: admin.password.changed",
		zap.String("admin_id", event.AdminID),
	)
	return nil
}

func (p *StubPublisher) PublishAdminLoggedOut(_ context.Context, event domain.AdminLoggedOutEvent) error {
	p.logger.Debug("stub publisher: admin.logged_out",
		zap.String("admin_id", event.AdminID),
		zap.Bool("session_invalidated", event.SessionInvalidated),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
