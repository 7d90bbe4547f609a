package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
)

// ActivityLogRepository implements port.ActivityLog as an append-only table.
type ActivityLogRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewActivityLogRepository wires a PostgreSQL-backed activity log.
func NewActivityLogRepository(exec pgExecutor) *ActivityLogRepository {
	return &ActivityLogRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts an activity entry. Entries are never updated or deleted.
func (r *ActivityLogRepository) Append(ctx context.Context, entry domain.ActivityEntry) error {
	if entry.Action == "" {
		return fmt.Errorf("activity action is required")
	}

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var details any
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal activity details: %w", err)
		}
		details = raw
	}

	var target any
	if entry.Target != nil && *entry.Target != "" {
		target = *entry.Target
	}

	query := r.builder.Insert("admin.activity_log").
		Columns("id", "action", "details", "target_ref", "actor_type", "actor_id", "actor_name", "created_at").
		Values(id, entry.Action, details, target, entry.Actor.Type, entry.Actor.ID, entry.Actor.Name, createdAt)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}

	return nil
}

var _ port.ActivityLog = (*ActivityLogRepository)(nil)
