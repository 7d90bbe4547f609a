package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arklim/social-platform-admin/internal/core/domain"
	"github.com/arklim/social-platform-admin/internal/core/port"
	"github.com/arklim/social-platform-admin/internal/infra/security"
	"github.com/arklim/social-platform-admin/internal/repository"
)

type mockAdminRepository struct {
	getByID                func(ctx context.Context, id string) (*domain.AdminAccount, error)
	getByUsernameExcluding func(ctx context.Context, username, excludeID string) (*domain.AdminAccount, error)
	getByEmailExcluding    func(ctx context.Context, email, excludeID string) (*domain.AdminAccount, error)
	updateProfile          func(ctx context.Context, id, username, email string, updatedAt time.Time) error
	updateCredentials      func(ctx context.Context, id, passwordHash, passwordAlgo string, mustChange bool, changedAt time.Time) error
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id string) (*domain.AdminAccount, error) {
	if m.getByID == nil {
		return nil, errors.New("unexpected call: GetByID")
	}
	return m.getByID(ctx, id)
}

func (m *mockAdminRepository) GetByUsernameExcluding(ctx context.Context, username, excludeID string) (*domain.AdminAccount, error) {
	if m.getByUsernameExcluding == nil {
		return nil, errors.New("unexpected call: GetByUsernameExcluding")
	}
	return m.getByUsernameExcluding(ctx, username, excludeID)
}

func (m *mockAdminRepository) GetByEmailExcluding(ctx context.Context, email, excludeID string) (*domain.AdminAccount, error) {
	if m.getByEmailExcluding == nil {
		return nil, errors.New("unexpected call: GetByEmailExcluding")
	}
	return m.getByEmailExcluding(ctx, email, excludeID)
}

func (m *mockAdminRepository) UpdateProfile(ctx context.Context, id, username, email string, updatedAt time.Time) error {
	if m.updateProfile == nil {
		return errors.New("unexpected call: UpdateProfile")
	}
	return m.updateProfile(ctx, id, username, email, updatedAt)
}

func (m *mockAdminRepository) UpdateCredentials(ctx context.Context, id, passwordHash, passwordAlgo string, mustChange bool, changedAt time.Time) error {
	if m.updateCredentials == nil {
		return errors.New("unexpected call: UpdateCredentials")
	}
	return m.updateCredentials(ctx, id, passwordHash, passwordAlgo, mustChange, changedAt)
}

type mockSessionRegistry struct {
	put        func(ctx context.Context, token string, session domain.AdminSession, ttl time.Duration) error
	resolve    func(ctx context.Context, token string) (*domain.AdminSession, error)
	invalidate func(ctx context.Context, token string) error
}

func (m *mockSessionRegistry) Put(ctx context.Context, token string, session domain.AdminSession, ttl time.Duration) error {
	if m.put == nil {
		return errors.New("unexpected call: Put")
	}
	return m.put(ctx, token, session, ttl)
}

func (m *mockSessionRegistry) Resolve(ctx context.Context, token string) (*domain.AdminSession, error) {
	if m.resolve == nil {
		return nil, errors.New("unexpected call: Resolve")
	}
	return m.resolve(ctx, token)
}

func (m *mockSessionRegistry) Invalidate(ctx context.Context, token string) error {
	if m.invalidate == nil {
		return errors.New("unexpected call: Invalidate")
	}
	return m.invalidate(ctx, token)
}

type mockActivityLog struct {
	entries []domain.ActivityEntry
	err     error
}

func (m *mockActivityLog) Append(_ context.Context, entry domain.ActivityEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

type mockEventPublisher struct {
	profileUpdated  []domain.AdminProfileUpdatedEvent
	passwordChanged []domain.AdminPasswordChangedEvent
	loggedOut       []domain.AdminLoggedOutEvent
}

func (m *mockEventPublisher) PublishAdminProfileUpdated(_ context.Context, event domain.AdminProfileUpdatedEvent) error {
	m.profileUpdated = append(m.profileUpdated, event)
	return nil
}

func (m *mockEventPublisher) PublishAdminPasswordChanged(_ context.Context, event domain.AdminPasswordChangedEvent) error {
	m.passwordChanged = append(m.passwordChanged, event)
	return nil
}

func (m *mockEventPublisher) PublishAdminLoggedOut(_ context.Context, event domain.AdminLoggedOutEvent) error {
	m.loggedOut = append(m.loggedOut, event)
	return nil
}

func fastHasher(t *testing.T) port.PasswordHasher {
	t.Helper()

	hasher, err := security.NewArgon2Hasher(security.Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("create hasher: %v", err)
	}
	return hasher
}

type serviceFixture struct {
	admins   *mockAdminRepository
	sessions *mockSessionRegistry
	activity *mockActivityLog
	events   *mockEventPublisher
	hasher   port.PasswordHasher
	clock    time.Time
	service  *AccountService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		admins:   &mockAdminRepository{},
		sessions: &mockSessionRegistry{},
		activity: &mockActivityLog{},
		events:   &mockEventPublisher{},
		hasher:   fastHasher(t),
		clock:    time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
	f.service = NewAccountService(
		f.admins,
		f.sessions,
		f.activity,
		f.events,
		f.hasher,
		security.DefaultPasswordValidator(),
		zap.NewNop(),
	)
	f.service.WithClock(func() time.Time { return f.clock })
	return f
}

func testAccount(t *testing.T, hasher port.PasswordHasher, password string) *domain.AdminAccount {
	t.Helper()

	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	created := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	return &domain.AdminAccount{
		ID:           "adm-100",
		Username:     "rootadmin",
		Email:        "root@example.com",
		PasswordHash: hash,
		PasswordAlgo: "argon2id",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestGetProfileSuccess(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "C0mplex!Passphrase#2025")
	f.admins.getByID = func(_ context.Context, id string) (*domain.AdminAccount, error) {
		if id != account.ID {
			t.Fatalf("unexpected id: %s", id)
		}
		return account, nil
	}

	got, err := f.service.GetProfile(context.Background(), domain.Identity{ID: account.ID, Username: account.Username})
	if err != nil {
		t.Fatalf("GetProfile returned error: %v", err)
	}
	if got.Username != "rootadmin" || got.Email != "root@example.com" {
		t.Fatalf("unexpected account: %+v", got)
	}
	if len(f.activity.entries) != 0 {
		t.Fatalf("GetProfile must not write audit entries, got %d", len(f.activity.entries))
	}
}

func TestGetProfileNotFound(t *testing.T) {
	f := newServiceFixture(t)
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}

	_, err := f.service.GetProfile(context.Background(), domain.Identity{ID: "missing"})
	if !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}

func TestUpdateProfileSuccess(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "C0mplex!Passphrase#2025")

	f.admins.getByUsernameExcluding = func(_ context.Context, username, excludeID string) (*domain.AdminAccount, error) {
		if username != "newadmin" || excludeID != account.ID {
			t.Fatalf("unexpected username lookup: %s / %s", username, excludeID)
		}
		return nil, repository.ErrNotFound
	}
	f.admins.getByEmailExcluding = func(_ context.Context, email, excludeID string) (*domain.AdminAccount, error) {
		if email != "new@example.com" || excludeID != account.ID {
			t.Fatalf("unexpected email lookup: %s / %s", email, excludeID)
		}
		return nil, repository.ErrNotFound
	}
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	f.admins.updateProfile = func(_ context.Context, id, username, email string, updatedAt time.Time) error {
		if id != account.ID || username != "newadmin" || email != "new@example.com" {
			t.Fatalf("unexpected update: %s / %s / %s", id, username, email)
		}
		if !updatedAt.Equal(f.clock) {
			t.Fatalf("unexpected updatedAt: %v", updatedAt)
		}
		return nil
	}

	got, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: account.ID, Username: "rootadmin"}, UpdateProfileInput{
		Username: "  newadmin ",
		Email:    "New@Example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if got.Username != "newadmin" || got.Email != "new@example.com" {
		t.Fatalf("account not mutated: %+v", got)
	}
	if !got.UpdatedAt.Equal(f.clock) {
		t.Fatalf("UpdatedAt not advanced: %v", got.UpdatedAt)
	}

	if len(f.activity.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(f.activity.entries))
	}
	entry := f.activity.entries[0]
	if entry.Action != "admin_profile_updated" {
		t.Fatalf("unexpected action: %s", entry.Action)
	}
	if entry.Actor.ID != account.ID || entry.Actor.Type != domain.ActorTypeAdmin {
		t.Fatalf("unexpected actor: %+v", entry.Actor)
	}
	if entry.Details["username"] != "newadmin" || entry.Details["email"] != "new@example.com" {
		t.Fatalf("unexpected details: %v", entry.Details)
	}

	if len(f.events.profileUpdated) != 1 {
		t.Fatalf("expected one profile updated event, got %d", len(f.events.profileUpdated))
	}
	event := f.events.profileUpdated[0]
	if event.AdminID != account.ID || event.Username != "newadmin" || event.EventID == "" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestUpdateProfileValidationCollectsAllViolations(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: "adm-100"}, UpdateProfileInput{
		Username: "ab",
		Email:    "not-an-email",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Violations) != 2 {
		t.Fatalf("expected two violations, got %v", validationErr.Violations)
	}
	if validationErr.Violations[0].Code != "username_length" || validationErr.Violations[1].Code != "email_syntax" {
		t.Fatalf("unexpected violation codes: %v", validationErr.Violations)
	}
	if len(f.activity.entries) != 0 {
		t.Fatal("validation failure must not write audit entries")
	}
}

func TestUpdateProfileUsernameConflictReportedFirst(t *testing.T) {
	f := newServiceFixture(t)
	// Both values collide. The email lookup and update mocks stay unset: any
	// contact past the username check fails the test.
	f.admins.getByUsernameExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return &domain.AdminAccount{ID: "adm-200", Username: "taken"}, nil
	}

	_, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: "adm-100"}, UpdateProfileInput{
		Username: "taken",
		Email:    "taken@example.com",
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflictErr.Field != "username" {
		t.Fatalf("expected username conflict, got %s", conflictErr.Field)
	}
	if len(f.activity.entries) != 0 || len(f.events.profileUpdated) != 0 {
		t.Fatal("conflict must leave no audit or event trace")
	}
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	f := newServiceFixture(t)
	f.admins.getByUsernameExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	f.admins.getByEmailExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return &domain.AdminAccount{ID: "adm-200"}, nil
	}

	_, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: "adm-100"}, UpdateProfileInput{
		Username: "freename",
		Email:    "taken@example.com",
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflictErr.Field != "email" {
		t.Fatalf("expected email conflict, got %s", conflictErr.Field)
	}
}

func TestUpdateProfileConstraintRaceMapsToConflict(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "C0mplex!Passphrase#2025")
	f.admins.getByUsernameExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	f.admins.getByEmailExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	f.admins.updateProfile = func(context.Context, string, string, string, time.Time) error {
		// A concurrent writer won the email between the pre-check and the
		// update; the unique constraint is the authoritative signal.
		return &repository.DuplicateError{Constraint: "admins_email_key"}
	}

	_, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: account.ID}, UpdateProfileInput{
		Username: "freename",
		Email:    "raced@example.com",
	})

	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflictErr.Field != "email" {
		t.Fatalf("expected email conflict, got %s", conflictErr.Field)
	}
}

func TestUpdateProfileSucceedsWhenAuditAppendFails(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "C0mplex!Passphrase#2025")
	f.activity.err = errors.New("audit store down")

	f.admins.getByUsernameExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	f.admins.getByEmailExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	f.admins.updateProfile = func(context.Context, string, string, string, time.Time) error {
		return nil
	}

	got, err := f.service.UpdateProfile(context.Background(), domain.Identity{ID: account.ID}, UpdateProfileInput{
		Username: "newadmin",
		Email:    "new@example.com",
	})
	if err != nil {
		t.Fatalf("UpdateProfile must succeed despite audit failure, got %v", err)
	}
	if got.Username != "newadmin" {
		t.Fatalf("account not mutated: %+v", got)
	}
	if len(f.events.profileUpdated) != 1 {
		t.Fatalf("event must still publish, got %d", len(f.events.profileUpdated))
	}
}

func TestUpdateProfileLogsMaskedEmail(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	admins := &mockAdminRepository{}
	account := &domain.AdminAccount{ID: "adm-1", Username: "rootadmin", Email: "root@example.com"}
	admins.getByUsernameExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	admins.getByEmailExcluding = func(context.Context, string, string) (*domain.AdminAccount, error) {
		return nil, repository.ErrNotFound
	}
	admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	admins.updateProfile = func(context.Context, string, string, string, time.Time) error {
		return nil
	}

	service := NewAccountService(
		admins,
		&mockSessionRegistry{},
		&mockActivityLog{},
		&mockEventPublisher{},
		fastHasher(t),
		security.DefaultPasswordValidator(),
		zap.New(core),
	)

	if _, err := service.UpdateProfile(context.Background(), domain.Identity{ID: "adm-1"}, UpdateProfileInput{
		Username: "newadmin",
		Email:    "new@example.com",
	}); err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	entries := logs.FilterMessage("admin profile updated").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	logged, _ := entries[0].ContextMap()["email"].(string)
	if logged != "new***@example.com" {
		t.Fatalf("expected masked email in log, got %q", logged)
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "Old!Passphrase#2024x")
	account.MustChangePassword = true
	oldHash := account.PasswordHash

	var storedHash string
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	f.admins.updateCredentials = func(_ context.Context, id, passwordHash, passwordAlgo string, mustChange bool, changedAt time.Time) error {
		if id != account.ID {
			t.Fatalf("unexpected id: %s", id)
		}
		if passwordAlgo != "argon2id" {
			t.Fatalf("unexpected algo: %s", passwordAlgo)
		}
		if mustChange {
			t.Fatal("mustChangePassword must be cleared on rotation")
		}
		if !changedAt.Equal(f.clock) {
			t.Fatalf("unexpected changedAt: %v", changedAt)
		}
		storedHash = passwordHash
		return nil
	}

	err := f.service.ChangePassword(context.Background(), domain.Identity{ID: account.ID, Username: account.Username}, ChangePasswordInput{
		CurrentPassword: "Old!Passphrase#2024x",
		NewPassword:     "N3w&Stronger!Phrase#2025",
	})
	if err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}

	if storedHash == "" || storedHash == oldHash {
		t.Fatal("credential hash was not replaced")
	}
	if ok, _ := f.hasher.Verify("N3w&Stronger!Phrase#2025", storedHash); !ok {
		t.Fatal("new password does not verify against stored hash")
	}
	if ok, _ := f.hasher.Verify("Old!Passphrase#2024x", storedHash); ok {
		t.Fatal("old password still verifies against stored hash")
	}

	if len(f.activity.entries) != 1 || f.activity.entries[0].Action != "password_changed" {
		t.Fatalf("unexpected audit entries: %+v", f.activity.entries)
	}
	if _, ok := f.activity.entries[0].Details["password"]; ok {
		t.Fatal("audit details must not carry secret material")
	}
	if len(f.events.passwordChanged) != 1 || f.events.passwordChanged[0].AdminID != account.ID {
		t.Fatalf("unexpected events: %+v", f.events.passwordChanged)
	}
}

func TestChangePasswordSucceedsWhenAuditAppendFails(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "Old!Passphrase#2024x")
	f.activity.err = errors.New("audit store down")

	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}
	f.admins.updateCredentials = func(context.Context, string, string, string, bool, time.Time) error {
		return nil
	}

	err := f.service.ChangePassword(context.Background(), domain.Identity{ID: account.ID}, ChangePasswordInput{
		CurrentPassword: "Old!Passphrase#2024x",
		NewPassword:     "N3w&Stronger!Phrase#2025",
	})
	if err != nil {
		t.Fatalf("ChangePassword must succeed despite audit failure, got %v", err)
	}
	if len(f.events.passwordChanged) != 1 {
		t.Fatalf("event must still publish, got %d", len(f.events.passwordChanged))
	}
}

func TestChangePasswordWrongCurrentPassword(t *testing.T) {
	f := newServiceFixture(t)
	account := testAccount(t, f.hasher, "Old!Passphrase#2024x")
	f.admins.getByID = func(context.Context, string) (*domain.AdminAccount, error) {
		return account, nil
	}

	err := f.service.ChangePassword(context.Background(), domain.Identity{ID: account.ID}, ChangePasswordInput{
		CurrentPassword: "wrong-guess-entirely",
		NewPassword:     "N3w&Stronger!Phrase#2025",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Violations) != 1 || validationErr.Violations[0].Field != "current_password" {
		t.Fatalf("unexpected violations: %v", validationErr.Violations)
	}
	if validationErr.Violations[0].Message != "current password is incorrect" {
		t.Fatalf("unexpected message: %s", validationErr.Violations[0].Message)
	}
	if len(f.activity.entries) != 0 || len(f.events.passwordChanged) != 0 {
		t.Fatal("failed verification must not produce audit or event records")
	}
}

func TestChangePasswordPolicyRunsBeforeDirectoryLookup(t *testing.T) {
	f := newServiceFixture(t)
	// All repository mocks stay unset: a weak candidate must be rejected
	// without any directory contact.

	err := f.service.ChangePassword(context.Background(), domain.Identity{ID: "adm-100"}, ChangePasswordInput{
		CurrentPassword: "Old!Passphrase#2024x",
		NewPassword:     "short1!",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	var codes []string
	for _, v := range validationErr.Violations {
		if v.Field != "new_password" {
			t.Fatalf("unexpected field: %s", v.Field)
		}
		codes = append(codes, v.Code)
	}
	found := map[string]bool{}
	for _, code := range codes {
		found[code] = true
	}
	if !found["min_length"] || !found["weak_password"] {
		t.Fatalf("expected min_length and weak_password, got %v", codes)
	}
}

func TestChangePasswordMissingCurrentPassword(t *testing.T) {
	f := newServiceFixture(t)

	err := f.service.ChangePassword(context.Background(), domain.Identity{ID: "adm-100"}, ChangePasswordInput{
		CurrentPassword: "   ",
		NewPassword:     "N3w&Stronger!Phrase#2025",
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Violations) != 1 || validationErr.Violations[0].Code != "required" {
		t.Fatalf("unexpected violations: %v", validationErr.Violations)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := newServiceFixture(t)

	var invalidated string
	f.sessions.invalidate = func(_ context.Context, token string) error {
		invalidated = token
		return nil
	}

	err := f.service.Logout(context.Background(), domain.Identity{ID: "adm-100", Username: "rootadmin"}, "tok-abc")
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if invalidated != "tok-abc" {
		t.Fatalf("session not invalidated: %q", invalidated)
	}

	if len(f.activity.entries) != 1 || f.activity.entries[0].Action != "admin_logout" {
		t.Fatalf("unexpected audit entries: %+v", f.activity.entries)
	}
	if len(f.events.loggedOut) != 1 || !f.events.loggedOut[0].SessionInvalidated {
		t.Fatalf("unexpected events: %+v", f.events.loggedOut)
	}
}

func TestLogoutWithoutTokenStillSucceeds(t *testing.T) {
	f := newServiceFixture(t)
	// invalidate stays unset: an empty token must skip the registry entirely.

	if err := f.service.Logout(context.Background(), domain.Identity{ID: "adm-100"}, "  "); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if len(f.activity.entries) != 1 {
		t.Fatalf("expected audit entry even without a token, got %d", len(f.activity.entries))
	}
	if len(f.events.loggedOut) != 1 || f.events.loggedOut[0].SessionInvalidated {
		t.Fatalf("unexpected events: %+v", f.events.loggedOut)
	}
}

func TestLogoutRegistryFailureDoesNotFailLogout(t *testing.T) {
	f := newServiceFixture(t)
	f.sessions.invalidate = func(context.Context, string) error {
		return errors.New("redis down")
	}

	if err := f.service.Logout(context.Background(), domain.Identity{ID: "adm-100"}, "tok-abc"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(f.events.loggedOut) != 1 || f.events.loggedOut[0].SessionInvalidated {
		t.Fatalf("unexpected events: %+v", f.events.loggedOut)
	}
}
