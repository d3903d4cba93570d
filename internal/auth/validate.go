package auth

import (
	"fmt"
	"strings"
	"unicode"
)

// Limits bounds the validator's length rules. Maximums come from config;
// the minimums are fixed.
type Limits struct {
	UsernameMax int
	PasswordMax int
}

// DefaultLimits returns the standard validation bounds.
func DefaultLimits() Limits {
	return Limits{UsernameMax: 20, PasswordMax: 50}
}

// ValidationError describes the first registration rule an input violates:
// a generic summary plus exactly one field-attributed error.
type ValidationError struct {
	Message string
	Errors  []FieldError
}

// ValidateRegisterInput checks a registration payload against the shape
// rules, in order: username length and whitespace, email shape, password
// length. It returns the first violation found, or nil when all rules pass.
// No I/O happens here; the function is fully deterministic.
func ValidateRegisterInput(input RegisterInput, limits Limits) *ValidationError {
	if len(input.Username) < 3 || len(input.Username) > limits.UsernameMax {
		return &ValidationError{
			Message: "Invalid username",
			Errors: []FieldError{{
				Field:   "username",
				Message: fmt.Sprintf("Username must be between 3 and %d characters", limits.UsernameMax),
			}},
		}
	}
	if strings.IndexFunc(input.Username, unicode.IsSpace) >= 0 {
		return &ValidationError{
			Message: "Invalid username",
			Errors: []FieldError{{
				Field:   "username",
				Message: "Username must not contain whitespace",
			}},
		}
	}

	if !validEmailShape(input.Email) {
		return &ValidationError{
			Message: "Invalid email",
			Errors: []FieldError{{
				Field:   "email",
				Message: "Email must be a valid email address",
			}},
		}
	}

	if len(input.Password) < 3 || len(input.Password) > limits.PasswordMax {
		return &ValidationError{
			Message: "Invalid password",
			Errors: []FieldError{{
				Field:   "password",
				Message: fmt.Sprintf("Password must be between 3 and %d characters", limits.PasswordMax),
			}},
		}
	}

	return nil
}

// validEmailShape requires exactly one "@" and a non-empty domain segment
// containing at least one ".". This is deliberately not RFC parsing.
func validEmailShape(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	domain := email[strings.Index(email, "@")+1:]
	return domain != "" && strings.Contains(domain, ".")
}
