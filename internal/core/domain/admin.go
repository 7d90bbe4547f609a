package domain

import "time"

// AdminAccount mirrors the persisted representation in the admin.admins table.
type AdminAccount struct {
	ID                 string
	Username           string
	Email              string
	PasswordHash       string
	PasswordAlgo       string
	MustChangePassword bool
	LastLogin          *time.Time
	LastLoginIP        *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Identity carries the authenticated admin attached to a request by the
// session middleware. Operations receive it explicitly instead of reading
// ambient request state.
type Identity struct {
	ID       string
	Username string
}

// ActorType enumerates the kinds of principals recorded in the activity log.
type ActorType string

const (
	ActorTypeAdmin ActorType = "admin"
)

// Actor identifies the principal responsible for an audited action.
type Actor struct {
	Type ActorType
	ID   string
	Name string
}

// ActivityEntry is an immutable, append-only audit record. Entries are never
// read back by this service.
type ActivityEntry struct {
	ID        string
	Action    string
	Details   map[string]any
	Target    *string
	Actor     Actor
	CreatedAt time.Time
}

// AdminSession is the registry-side view of a live admin session, keyed by an
// opaque bearer token.
type AdminSession struct {
	AdminID   string
	Username  string
	CreatedAt time.Time
}
