package security

import (
	"fmt"
	"unicode"

	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/arklim/social-platform-admin/internal/core/port"
)

// PasswordRule validates a password according to a specific policy rule.
type PasswordRule interface {
	Validate(password string) *port.StrengthViolation
}

// PasswordRuleFunc adapts a function to be used as a PasswordRule.
type PasswordRuleFunc func(password string) *port.StrengthViolation

// Validate executes the underlying rule function.
func (f PasswordRuleFunc) Validate(password string) *port.StrengthViolation {
	return f(password)
}

// PasswordValidator applies a sequence of password rules and reports every
// violation, so callers can show the complete list instead of the first hit.
type PasswordValidator struct {
	rules []PasswordRule
}

// NewPasswordValidator constructs a validator with the provided rules.
func NewPasswordValidator(rules ...PasswordRule) *PasswordValidator {
	copied := make([]PasswordRule, len(rules))
	copy(copied, rules)
	return &PasswordValidator{rules: copied}
}

// DefaultPasswordValidator returns the rule set applied to admin credential
// rotation.
func DefaultPasswordValidator() *PasswordValidator {
	return NewPasswordValidator(
		MinLengthRule(12),
		RequireLetterRule(),
		RequireDigitRule(),
		RequireSymbolRule(),
		RequirePasswordStrengthRule(3),
	)
}

// Evaluate executes all rules and returns the collected violations.
func (v *PasswordValidator) Evaluate(password string) []port.StrengthViolation {
	if v == nil {
		return []port.StrengthViolation{{Code: "unconfigured", Message: "password validator not configured"}}
	}

	var violations []port.StrengthViolation
	for _, rule := range v.rules {
		if violation := rule.Validate(password); violation != nil {
			violations = append(violations, *violation)
		}
	}
	return violations
}

// MinLengthRule ensures the password has at least min characters.
func MinLengthRule(min int) PasswordRule {
	return PasswordRuleFunc(func(password string) *port.StrengthViolation {
		if len([]rune(password)) < min {
			return &port.StrengthViolation{
				Code:    "min_length",
				Message: fmt.Sprintf("password must be at least %d characters long", min),
			}
		}
		return nil
	})
}

// RequireLetterRule ensures the password contains at least one unicode letter.
func RequireLetterRule() PasswordRule {
	return PasswordRuleFunc(func(password string) *port.StrengthViolation {
		for _, r := range password {
			if unicode.IsLetter(r) {
				return nil
			}
		}
		return &port.StrengthViolation{
			Code:    "letter",
			Message: "password must include at least one letter",
		}
	})
}

// RequireDigitRule ensures the password contains at least one digit.
func RequireDigitRule() PasswordRule {
	return PasswordRuleFunc(func(password string) *port.StrengthViolation {
		for _, r := range password {
			if unicode.IsDigit(r) {
				return nil
			}
		}
		return &port.StrengthViolation{
			Code:    "digit",
			Message: "password must include at least one digit",
		}
	})
}

// RequireSymbolRule ensures the password contains at least one symbol (punctuation/mark).
func RequireSymbolRule() PasswordRule {
	return PasswordRuleFunc(func(password string) *port.StrengthViolation {
		for _, r := range password {
			if unicode.IsSymbol(r) || unicode.IsPunct(r) {
				return nil
			}
		}
		return &port.StrengthViolation{
			Code:    "symbol",
			Message: "password must include at least one symbol",
		}
	})
}

// RequirePasswordStrengthRule enforces a minimum zxcvbn score to reject weak passwords.
func RequirePasswordStrengthRule(minScore int, userInputs ...string) PasswordRule {
	return PasswordRuleFunc(func(password string) *port.StrengthViolation {
		if minScore <= 0 {
			return nil
		}
		if minScore > 4 {
			minScore = 4
		}

		result := zxcvbn.PasswordStrength(password, userInputs)
		if result.Score >= minScore {
			return nil
		}

		return &port.StrengthViolation{
			Code:    "weak_password",
			Message: "password is too weak; choose a more complex value",
		}
	})
}

var _ port.StrengthPolicy = (*PasswordValidator)(nil)
