package port

// StrengthViolation describes a single strength policy failure as a stable
// machine code plus human-readable text.
type StrengthViolation struct {
	Code    string
	Message string
}

// StrengthPolicy evaluates a candidate secret against the configured rule set
// and reports every violation, not just the first.
type StrengthPolicy interface {
	Evaluate(password string) []StrengthViolation
}

// PasswordHasher hashes and verifies secrets using the configured algorithm
// and work factor.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password string, encoded string) (bool, error)
}
