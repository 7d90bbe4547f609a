package domain

import "time"

// AdminProfileUpdatedEvent is emitted after a profile mutation is persisted.
type AdminProfileUpdatedEvent struct {
	EventID   string
	AdminID   string
	Username  string
	Email     string
	UpdatedAt time.Time
	Metadata  map[string]any
}

// AdminPasswordChangedEvent is emitted after a successful credential rotation.
type AdminPasswordChangedEvent struct {
	EventID   string
	AdminID   string
	ChangedAt time.Time
	Metadata  map[string]any
}

// AdminLoggedOutEvent is emitted when an admin terminates a session.
type AdminLoggedOutEvent struct {
	EventID            string
	AdminID            string
	LoggedOutAt        time.Time
	SessionInvalidated bool
	Metadata           map[string]any
}
