package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AdminID   string           `json:"admin_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, adminID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	metadata := envelopeMetadata{
		"service":     p.appCfg.Name,
		"environment": p.appCfg.Env,
	}

	if span := trace.SpanFromContext(ctx); span != nil {
		if sc := span.SpanContext(); sc.IsValid() {
			metadata["trace_id"] = sc.TraceID().String()
		}
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AdminID:   adminID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata:  metadata,
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAdminProfileUpdated publishes admin.profile.updated events.
func (p *EventPublisher) PublishAdminProfileUpdated(ctx context.Context, event domain.AdminProfileUpdatedEvent) error {
	payload := struct {
		AdminID   string         `json:"admin_id"`
		Username  string         `json:"username"`
		Email     string         `json:"email"`
		UpdatedAt time.Time      `json:"updated_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		AdminID:   event.AdminID,
		Username:  event.Username,
		Email:     event.Email,
		UpdatedAt: event.UpdatedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "admin.profile.updated", event.AdminID, event.UpdatedAt, payload)
}

// PublishAdminPasswordChanged publishes admin.password.changed events. The
// payload never carries secret material.
func (p *EventPublisher) PublishAdminPasswordChanged(ctx context.Context, event domain.AdminPasswordChangedEvent) error {
	payload := struct {
		AdminID   string         `json:"admin_id"`
		ChangedAt time.Time      `json:"changed_at"`
		Metadata  map[string]any `json:"metadata,omitempty"`
	}{
		AdminID:   event.AdminID,
		ChangedAt: event.ChangedAt.UTC(),
		Metadata:  event.Metadata,
	}

	return p.publish(ctx, event.EventID, "admin.password.changed", event.AdminID, event.ChangedAt, payload)
}

// PublishAdminLoggedOut publishes admin.logged_out events.
func (p *EventPublisher) PublishAdminLoggedOut(ctx context.Context, event domain.AdminLoggedOutEvent) error {
	payload := struct {
		AdminID            string         `json:"admin_id"`
		LoggedOutAt        time.Time      `json:"logged_out_at"`
		SessionInvalidated bool           `json:"session_invalidated"`
		Metadata           map[string]any `json:"metadata,omitempty"`
	}{
		AdminID:            event.AdminID,
		LoggedOutAt:        event.LoggedOutAt.UTC(),
		SessionInvalidated: event.SessionInvalidated,
		Metadata:           event.Metadata,
	}

	return p.publish(ctx, event.EventID, "admin.logged_out", event.AdminID, event.LoggedOutAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
