package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate value")
)

// DuplicateError carries the violated constraint name alongside ErrDuplicate
// so callers can attribute the conflict to a field.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return "repository: duplicate value for constraint " + e.Constraint
}

// Is reports ErrDuplicate identity for errors.Is checks.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}
