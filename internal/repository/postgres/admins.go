package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/repository"
)

const uniqueViolationCode = "23505"

var adminColumns = []string{
	"id",
	"username",
	"email",
	"password_hash",
	"password_algo",
	"must_change_password",
	"last_login",
	"last_login_ip",
	"created_at",
	"updated_at",
}

// AdminRepository implements port.AdminRepository using PostgreSQL.
type AdminRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAdminRepository wires a PostgreSQL-backed admin repository.
func NewAdminRepository(exec pgExecutor) *AdminRepository {
	return &AdminRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves an admin account by identifier.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.AdminAccount, error) {
	stmt, args, err := r.builder.
		Select(adminColumns...).
		From("admin.admins").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin sql: %w", err)
	}

	return r.scanAdmin(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByUsernameExcluding retrieves another account holding the username, if
// any. The account identified by excludeID is never reported.
func (r *AdminRepository) GetByUsernameExcluding(ctx context.Context, username, excludeID string) (*domain.AdminAccount, error) {
	stmt, args, err := r.builder.
		Select(adminColumns...).
		From("admin.admins").
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin by username sql: %w", err)
	}

	return r.scanAdmin(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmailExcluding retrieves another account holding the email, if any.
func (r *AdminRepository) GetByEmailExcluding(ctx context.Context, email, excludeID string) (*domain.AdminAccount, error) {
	stmt, args, err := r.builder.
		Select(adminColumns...).
		From("admin.admins").
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.NotEq{"id": excludeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select admin by email sql: %w", err)
	}

	return r.scanAdmin(r.exec.QueryRow(ctx, stmt, args...))
}

// UpdateProfile persists new username/email values. A unique constraint
// violation surfaces as repository.DuplicateError carrying the constraint
// name.
func (r *AdminRepository) UpdateProfile(ctx context.Context, id, username, email string, updatedAt time.Time) error {
	stmt, args, err := r.builder.Update("admin.admins").
		Set("username", username).
		Set("email", email).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update admin profile sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return &repository.DuplicateError{Constraint: pgErr.ConstraintName}
		}
		return fmt.Errorf("update admin profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateCredentials persists a new password hash, clears or sets the forced
// change flag, and refreshes updated_at.
func (r *AdminRepository) UpdateCredentials(ctx context.Context, id, passwordHash, passwordAlgo string, mustChange bool, changedAt time.Time) error {
	stmt, args, err := r.builder.Update("admin.admins").
		Set("password_hash", passwordHash).
		Set("password_algo", passwordAlgo).
		Set("must_change_password", mustChange).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update admin credentials sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update admin credentials: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AdminRepository) scanAdmin(row pgx.Row) (*domain.AdminAccount, error) {
	var (
		account     domain.AdminAccount
		lastLogin   *time.Time
		lastLoginIP sql.NullString
	)

	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.PasswordAlgo,
		&account.MustChangePassword,
		&lastLogin,
		&lastLoginIP,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}

	account.LastLogin = lastLogin
	if lastLoginIP.Valid {
		val := lastLoginIP.String
		account.LastLoginIP = &val
	}

	return &account, nil
}

var _ port.AdminRepository = (*AdminRepository)(nil)
