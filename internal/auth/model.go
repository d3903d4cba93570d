// Package auth implements account registration and session-based login for
// minforum: input validation, uniqueness enforcement, argon2id password
// hashing, and session lifecycle. Expected outcomes (bad input, unknown
// account, wrong password, duplicate username/email) are returned as data in
// AuthResult so the transport can map them uniformly; only truly unexpected
// faults (store unreachable, hashing failure) are converted to a 500 result
// at the service boundary. Nothing escapes the service as an error.
package auth

import (
	"context"
	"time"
)

// User represents one registered account. This is the domain model used
// throughout the application; database scanning and JSON marshaling use
// this struct directly.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RegisterInput is the transient registration payload. The plaintext
// password lives only for the duration of the call and is never persisted.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the transient login payload. UsernameOrEmail dispatches to
// an email lookup when it contains "@", else a username lookup.
type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// FieldError attributes a failure to a single input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AuthResult is the response envelope for register and login. Code doubles
// as the HTTP status the transport responds with. User is present only on
// success; its password hash is structurally excluded from serialization.
type AuthResult struct {
	Code    int          `json:"code"`
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	User    *User        `json:"user,omitempty"`
}

// SessionContext is the per-caller mutable session handed to the service on
// every operation. The service reads and writes exactly one field, the user
// id, and triggers destruction on logout; storage is owned elsewhere.
// Implemented by *session.Session.
type SessionContext interface {
	UserID() (string, bool)
	SetUserID(ctx context.Context, userID string) error
	Destroy(ctx context.Context) bool
}
