package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/infra/logger"
	"github.com/arklim/social-platform-admin/internal/repository"
)

const (
	passwordAlgo = "argon2id"

	actionProfileUpdated  = "admin_profile_updated"
	actionPasswordChanged = "password_changed"
	actionLogout          = "admin_logout"

	usernameMinLength = 3
	usernameMaxLength = 50
)

// UpdateProfileInput captures the payload for a profile update request.
type UpdateProfileInput struct {
	Username string
	Email    string
}

// ChangePasswordInput captures the payload for a credential rotation request.
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// AccountService handles the self-service lifecycle of admin accounts:
// profile reads and updates, credential rotation, and session termination.
type AccountService struct {
	admins   port.AdminRepository
	sessions port.SessionRegistry
	activity port.ActivityLog
	events   port.EventPublisher
	hasher   port.PasswordHasher
	policy   port.StrengthPolicy
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService constructs an AccountService. The hasher is expected to
// carry the rotation work factor; verification reads parameters from the
// stored hash, so provisioning-era hashes still verify.
func NewAccountService(
	admins port.AdminRepository,
	sessions port.SessionRegistry,
	activity port.ActivityLog,
	events port.EventPublisher,
	hasher port.PasswordHasher,
	policy port.StrengthPolicy,
	logger *zap.Logger,
) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		admins:   admins,
		sessions: sessions,
		activity: activity,
		events:   events,
		hasher:   hasher,
		policy:   policy,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *AccountService) WithClock(clock func() time.Time) {
	if clock != nil {
		s.now = clock
	}
}

// GetProfile returns the account behind the authenticated identity. No side
// effects.
func (s *AccountService) GetProfile(ctx context.Context, identity domain.Identity) (*domain.AdminAccount, error) {
	account, err := s.admins.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	return account, nil
}

// UpdateProfile validates and persists new username/email values for the
// authenticated admin. The username conflict is checked and reported before
// the email conflict, so a request colliding on both cites the username.
func (s *AccountService) UpdateProfile(ctx context.Context, identity domain.Identity, input UpdateProfileInput) (*domain.AdminAccount, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var violations []FieldViolation
	if length := len([]rune(username)); length < usernameMinLength || length > usernameMaxLength {
		violations = append(violations, FieldViolation{
			Field:   "username",
			Code:    "username_length",
			Message: fmt.Sprintf("username must be between %d and %d characters", usernameMinLength, usernameMaxLength),
		})
	}
	if !validEmail(email) {
		violations = append(violations, FieldViolation{
			Field:   "email",
			Code:    "email_syntax",
			Message: "email must be a valid address",
		})
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if other, err := s.admins.GetByUsernameExcluding(ctx, username, identity.ID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check username uniqueness: %w", err)
		}
	} else if other != nil {
		return nil, &ConflictError{Field: "username"}
	}

	if other, err := s.admins.GetByEmailExcluding(ctx, email, identity.ID); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check email uniqueness: %w", err)
		}
	} else if other != nil {
		return nil, &ConflictError{Field: "email"}
	}

	account, err := s.admins.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("lookup admin: %w", err)
	}

	updatedAt := s.now()
	if err := s.admins.UpdateProfile(ctx, account.ID, username, email, updatedAt); err != nil {
		// The unique constraints are the authoritative conflict signal; the
		// pre-checks above only provide deterministic ordering.
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, &ConflictError{Field: conflictFieldFromConstraint(dup.Constraint)}
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("update admin profile: %w", err)
	}

	account.Username = username
	account.Email = email
	account.UpdatedAt = updatedAt

	s.logger.Info("admin profile updated",
		zap.String("admin_id", account.ID),
		zap.String("username", username),
		zap.String("email", logger.MaskEmail(email)),
	)

	actor := s.actorFor(identity, account)
	s.appendActivity(ctx, domain.ActivityEntry{
		Action: actionProfileUpdated,
		Details: map[string]any{
			"username": username,
			"email":    email,
		},
		Actor:     actor,
		CreatedAt: updatedAt,
	})
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishAdminProfileUpdated(ctx, domain.AdminProfileUpdatedEvent{
			EventID:   uuid.NewString(),
			AdminID:   account.ID,
			Username:  username,
			Email:     email,
			UpdatedAt: updatedAt,
		})
	})

	return account, nil
}

// ChangePassword rotates the admin's credential. The strength policy runs
// before any directory access; the current password is always verified, even
// when the account is flagged for a forced change.
func (s *AccountService) ChangePassword(ctx context.Context, identity domain.Identity, input ChangePasswordInput) error {
	var violations []FieldViolation
	if strings.TrimSpace(input.CurrentPassword) == "" {
		violations = append(violations, FieldViolation{
			Field:   "current_password",
			Code:    "required",
			Message: "current password is required",
		})
	}
	for _, violation := range s.policy.Evaluate(input.NewPassword) {
		violations = append(violations, FieldViolation{
			Field:   "new_password",
			Code:    violation.Code,
			Message: violation.Message,
		})
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}

	account, err := s.admins.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("lookup admin: %w", err)
	}

	valid, err := s.hasher.Verify(input.CurrentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify current password: %w", err)
	}
	if !valid {
		return &ValidationError{Violations: []FieldViolation{{
			Field:   "current_password",
			Code:    "current_password",
			Message: "current password is incorrect",
		}}}
	}

	hashed, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	changedAt := s.now()
	if err := s.admins.UpdateCredentials(ctx, account.ID, hashed, passwordAlgo, false, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAdminNotFound
		}
		return fmt.Errorf("update credentials: %w", err)
	}

	s.logger.Info("admin password rotated", zap.String("admin_id", account.ID))

	actor := s.actorFor(identity, account)
	s.appendActivity(ctx, domain.ActivityEntry{
		Action:    actionPasswordChanged,
		Details:   map[string]any{},
		Actor:     actor,
		CreatedAt: changedAt,
	})
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishAdminPasswordChanged(ctx, domain.AdminPasswordChangedEvent{
			EventID:   uuid.NewString(),
			AdminID:   account.ID,
			ChangedAt: changedAt,
		})
	})

	return nil
}

// Logout invalidates the caller's session token when one is present. A
// missing token skips invalidation so logout always succeeds even when the
// session is already gone.
func (s *AccountService) Logout(ctx context.Context, identity domain.Identity, token string) error {
	token = strings.TrimSpace(token)

	invalidated := false
	if token != "" {
		if err := s.sessions.Invalidate(ctx, token); err != nil {
			s.logger.Warn("failed to invalidate session", zap.String("admin_id", identity.ID), zap.Error(err))
		} else {
			invalidated = true
		}
	}

	loggedOutAt := s.now()
	s.appendActivity(ctx, domain.ActivityEntry{
		Action:    actionLogout,
		Details:   map[string]any{},
		Actor:     domain.Actor{Type: domain.ActorTypeAdmin, ID: identity.ID, Name: identity.Username},
		CreatedAt: loggedOutAt,
	})
	s.publish(ctx, func(ctx context.Context) error {
		return s.events.PublishAdminLoggedOut(ctx, domain.AdminLoggedOutEvent{
			EventID:            uuid.NewString(),
			AdminID:            identity.ID,
			LoggedOutAt:        loggedOutAt,
			SessionInvalidated: invalidated,
		})
	})

	return nil
}

// appendActivity writes an audit entry. Failures are logged and swallowed:
// the audit trail must not mask the outcome of the primary operation.
func (s *AccountService) appendActivity(ctx context.Context, entry domain.ActivityEntry) {
	if s.activity == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn("failed to append activity entry",
			zap.String("action", entry.Action),
			zap.String("actor_id", entry.Actor.ID),
			zap.Error(err),
		)
	}
}

func (s *AccountService) publish(ctx context.Context, fn func(context.Context) error) {
	if s.events == nil {
		return
	}
	if err := fn(ctx); err != nil {
		s.logger.Warn("failed to publish admin event", zap.Error(err))
	}
}

func (s *AccountService) actorFor(identity domain.Identity, account *domain.AdminAccount) domain.Actor {
	name := identity.Username
	if name == "" && account != nil {
		name = account.Username
	}
	return domain.Actor{Type: domain.ActorTypeAdmin, ID: identity.ID, Name: name}
}

func conflictFieldFromConstraint(constraint string) string {
	if strings.Contains(constraint, "email") {
		return "email"
	}
	return "username"
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
