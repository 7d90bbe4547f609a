package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrAdminNotFound indicates the authenticated identity no longer resolves
	// to an account. This is a server-side consistency safeguard rather than an
	// expected client error.
	ErrAdminNotFound = errors.New("admin account not found")
)

// FieldViolation describes a single validation failure, optionally attributed
// to an input field.
type FieldViolation struct {
	Field   string
	Code    string
	Message string
}

// ValidationError aggregates every violation found in a request so clients
// receive the complete list, not just the first failure.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "validation failed"
	}
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

// Messages returns the human-readable text of every violation.
func (e *ValidationError) Messages() []string {
	if e == nil {
		return nil
	}
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return messages
}

// ConflictError reports a uniqueness violation attributed to a field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return e.Field + " is already in use"
}
