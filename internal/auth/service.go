package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
// Every expected outcome is encoded in the returned AuthResult; these
// methods never surface an error to the caller.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput, sess SessionContext) AuthResult
	Login(ctx context.Context, input LoginInput, sess SessionContext) AuthResult
	Logout(ctx context.Context, sess SessionContext) bool
}

// authService implements AuthService with argon2id hashing. Stateless
// between calls: everything it reads or writes lives in the repository or
// the caller's session.
type authService struct {
	repo   UserRepository
	limits Limits
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(repo UserRepository, limits Limits) AuthService {
	return &authService{repo: repo, limits: limits}
}

// Register creates a new user account. Validation runs before any I/O.
// Both duplicate lookups always run; when both username and email are taken,
// username wins the error attribution. On success the caller's session is
// bound to the new user, so registration auto-authenticates.
func (s *authService) Register(ctx context.Context, input RegisterInput, sess SessionContext) AuthResult {
	if v := ValidateRegisterInput(input, s.limits); v != nil {
		return AuthResult{
			Code:    400,
			Success: false,
			Message: v.Message,
			Errors:  v.Errors,
		}
	}

	byUsername, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s.internalResult("register", err)
	}
	byEmail, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return s.internalResult("register", err)
	}

	switch {
	case byUsername != nil:
		return duplicateResult("username")
	case byEmail != nil:
		return duplicateResult("email")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return s.internalResult("register", err)
	}

	user, err := s.repo.Create(ctx, input.Username, input.Email, hash)
	if err != nil {
		// A concurrent registration can slip past the pre-check; the
		// unique keys reject it at commit time. Surface that as the
		// standard duplicate result, not a 500.
		var dup *DuplicateError
		if errors.As(err, &dup) {
			return duplicateResult(dup.Field)
		}
		return s.internalResult("register", err)
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		return s.internalResult("register", err)
	}

	slog.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return AuthResult{
		Code:    200,
		Success: true,
		Message: "User registration successful",
		User:    user,
	}
}

// Login authenticates a user by username or email plus password. Unknown
// accounts and wrong passwords both answer 400 so the status code alone
// does not reveal whether an account exists; the message text does differ,
// which is a known enumeration leak inherited from the response contract.
func (s *authService) Login(ctx context.Context, input LoginInput, sess SessionContext) AuthResult {
	user, err := s.repo.FindByUsernameOrEmail(ctx, input.UsernameOrEmail)
	if errors.Is(err, ErrNotFound) {
		return AuthResult{
			Code:    400,
			Success: false,
			Message: "User not found",
			Errors: []FieldError{{
				Field:   "usernameOrEmail",
				Message: "Username or email incorrect",
			}},
		}
	}
	if err != nil {
		return s.internalResult("login", err)
	}

	if !VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{
			Code:    400,
			Success: false,
			Message: "Wrong password",
			Errors: []FieldError{{
				Field:   "password",
				Message: "Wrong password",
			}},
		}
	}

	if err := sess.SetUserID(ctx, user.ID); err != nil {
		return s.internalResult("login", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return AuthResult{
		Code:    200,
		Success: true,
		Message: "Logged in successfully",
		User:    user,
	}
}

// Logout destroys the caller's session record. Returns false when there was
// nothing to destroy or destruction failed; it never faults.
func (s *authService) Logout(ctx context.Context, sess SessionContext) bool {
	return sess.Destroy(ctx)
}

// duplicateResult is the shared outcome for a taken username or email,
// whether caught by the pre-check or by the unique key at commit time.
func duplicateResult(field string) AuthResult {
	return AuthResult{
		Code:    400,
		Success: false,
		Message: "Duplicate username or email",
		Errors: []FieldError{{
			Field:   field,
			Message: field + " already taken",
		}},
	}
}

// internalResult converts an unexpected fault into the 500 envelope. This is
// the only place such errors are handled; they never propagate past the
// service boundary.
func (s *authService) internalResult(op string, err error) AuthResult {
	slog.Error("auth operation failed",
		slog.String("op", op),
		slog.Any("error", err),
	)
	return AuthResult{
		Code:    500,
		Success: false,
		Message: fmt.Sprintf("Internal server error %s", err.Error()),
	}
}
