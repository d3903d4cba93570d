package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// --- Mock Repository ---

// mockUserRepo implements UserRepository for testing. Each method delegates
// to an optional function field and counts its calls so tests can assert
// that validation short-circuits before any directory access.
type mockUserRepo struct {
	findByUsernameFn        func(ctx context.Context, username string) (*User, error)
	findByEmailFn           func(ctx context.Context, email string) (*User, error)
	findByUsernameOrEmailFn func(ctx context.Context, value string) (*User, error)
	createFn                func(ctx context.Context, username, email, passwordHash string) (*User, error)

	lookupCalls int
	createCalls int
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	m.lookupCalls++
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.lookupCalls++
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) FindByUsernameOrEmail(ctx context.Context, value string) (*User, error) {
	m.lookupCalls++
	if m.findByUsernameOrEmailFn != nil {
		return m.findByUsernameOrEmailFn(ctx, value)
	}
	return nil, ErrNotFound
}

func (m *mockUserRepo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, username, email, passwordHash)
	}
	return &User{ID: "user-1", Username: username, Email: email, PasswordHash: passwordHash}, nil
}

// --- Fake Session ---

// fakeSession implements SessionContext in memory.
type fakeSession struct {
	userID    string
	persisted bool
	setErr    error
}

func (f *fakeSession) UserID() (string, bool) {
	if f.userID == "" {
		return "", false
	}
	return f.userID, true
}

func (f *fakeSession) SetUserID(_ context.Context, userID string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.userID = userID
	f.persisted = true
	return nil
}

func (f *fakeSession) Destroy(_ context.Context) bool {
	f.userID = ""
	if !f.persisted {
		return false
	}
	f.persisted = false
	return true
}

func validInput() RegisterInput {
	return RegisterInput{Username: "alice", Email: "alice@example.com", Password: "secret"}
}

// --- Register Tests ---

func TestRegister_Success(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, username, email, passwordHash string) (*User, error) {
			if username != "alice" || email != "alice@example.com" {
				t.Errorf("unexpected create args: %s, %s", username, email)
			}
			if passwordHash == "secret" || passwordHash == "" {
				t.Error("expected create to receive a hash, not the plaintext")
			}
			if !VerifyPassword("secret", passwordHash) {
				t.Error("expected hash to verify the original password")
			}
			return &User{ID: "user-1", Username: username, Email: email, PasswordHash: passwordHash}, nil
		},
	}
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), sess)

	if result.Code != 200 || !result.Success {
		t.Fatalf("expected 200/success, got %d/%v (%s)", result.Code, result.Success, result.Message)
	}
	if result.Message != "User registration successful" {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if result.User == nil || result.User.Username != "alice" {
		t.Fatalf("expected returned user alice, got %+v", result.User)
	}
	if repo.createCalls != 1 {
		t.Errorf("expected exactly one create, got %d", repo.createCalls)
	}
	if id, ok := sess.UserID(); !ok || id != result.User.ID {
		t.Errorf("expected session bound to %s, got %q", result.User.ID, id)
	}
}

func TestRegister_InvalidInputShortCircuits(t *testing.T) {
	repo := &mockUserRepo{}
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), RegisterInput{
		Username: "ab", Email: "alice@example.com", Password: "secret",
	}, sess)

	if result.Code != 400 || result.Success {
		t.Fatalf("expected 400 failure, got %d/%v", result.Code, result.Success)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "username" {
		t.Errorf("expected one username error, got %+v", result.Errors)
	}
	if repo.lookupCalls != 0 || repo.createCalls != 0 {
		t.Error("expected no directory access on validation failure")
	}
	if _, ok := sess.UserID(); ok {
		t.Error("expected session untouched")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return &User{ID: "existing", Username: username}, nil
		},
	}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), &fakeSession{})

	if result.Code != 400 || result.Message != "Duplicate username or email" {
		t.Fatalf("expected duplicate result, got %d %q", result.Code, result.Message)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "username" {
		t.Errorf("expected username error, got %+v", result.Errors)
	}
	if result.Errors[0].Message != "username already taken" {
		t.Errorf("unexpected error message: %s", result.Errors[0].Message)
	}
	if repo.createCalls != 0 {
		t.Error("expected no create on duplicate")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "existing", Email: email}, nil
		},
	}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), &fakeSession{})

	if result.Code != 400 || len(result.Errors) != 1 || result.Errors[0].Field != "email" {
		t.Fatalf("expected email duplicate, got %+v", result)
	}
}

// When both the username and the email are taken, username wins the
// attribution.
func TestRegister_DuplicateBoth_UsernamePriority(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return &User{ID: "u1"}, nil
		},
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return &User{ID: "u2"}, nil
		},
	}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), &fakeSession{})

	if len(result.Errors) != 1 || result.Errors[0].Field != "username" {
		t.Errorf("expected username priority, got %+v", result.Errors)
	}
	// Both lookups still ran.
	if repo.lookupCalls != 2 {
		t.Errorf("expected both lookups to run, got %d", repo.lookupCalls)
	}
}

// A concurrent registration that slips past the pre-check and loses at the
// unique key must surface as the standard duplicate result, not a 500.
func TestRegister_RaceLostAtCreate(t *testing.T) {
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, username, email, passwordHash string) (*User, error) {
			return nil, &DuplicateError{Field: "username"}
		},
	}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), &fakeSession{})

	if result.Code != 400 || result.Message != "Duplicate username or email" {
		t.Fatalf("expected duplicate result, got %d %q", result.Code, result.Message)
	}
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*User, error) {
			return nil, errors.New("db connection lost")
		},
	}
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), sess)

	if result.Code != 500 || result.Success {
		t.Fatalf("expected 500 failure, got %d/%v", result.Code, result.Success)
	}
	if !strings.HasPrefix(result.Message, "Internal server error") {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if _, ok := sess.UserID(); ok {
		t.Error("expected session untouched on failure")
	}
}

func TestRegister_SessionWriteFailure(t *testing.T) {
	repo := &mockUserRepo{}
	sess := &fakeSession{setErr: errors.New("redis down")}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Register(context.Background(), validInput(), sess)

	if result.Code != 500 {
		t.Fatalf("expected 500, got %d", result.Code)
	}
}

// --- Login Tests ---

func loginRepo(t *testing.T, password string) *mockUserRepo {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &User{ID: "user-1", Username: "alice", Email: "alice@example.com", PasswordHash: hash}
	return &mockUserRepo{
		findByUsernameOrEmailFn: func(ctx context.Context, value string) (*User, error) {
			if value == user.Username || value == user.Email {
				return user, nil
			}
			return nil, ErrNotFound
		},
	}
}

func TestLogin_Success(t *testing.T) {
	repo := loginRepo(t, "secret")
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Login(context.Background(), LoginInput{
		UsernameOrEmail: "alice@example.com", Password: "secret",
	}, sess)

	if result.Code != 200 || !result.Success {
		t.Fatalf("expected success, got %d (%s)", result.Code, result.Message)
	}
	if result.Message != "Logged in successfully" {
		t.Errorf("unexpected message: %s", result.Message)
	}
	if id, ok := sess.UserID(); !ok || id != "user-1" {
		t.Errorf("expected session bound to user-1, got %q", id)
	}
}

func TestLogin_UserNotFound(t *testing.T) {
	repo := loginRepo(t, "secret")
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Login(context.Background(), LoginInput{
		UsernameOrEmail: "nobody", Password: "secret",
	}, sess)

	if result.Code != 400 || result.Message != "User not found" {
		t.Fatalf("expected not-found result, got %d %q", result.Code, result.Message)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "usernameOrEmail" {
		t.Errorf("expected usernameOrEmail error, got %+v", result.Errors)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := loginRepo(t, "secret")
	sess := &fakeSession{}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Login(context.Background(), LoginInput{
		UsernameOrEmail: "alice", Password: "wrong",
	}, sess)

	if result.Code != 400 || result.Message != "Wrong password" {
		t.Fatalf("expected wrong-password result, got %d %q", result.Code, result.Message)
	}
	if len(result.Errors) != 1 || result.Errors[0].Field != "password" {
		t.Errorf("expected password error, got %+v", result.Errors)
	}
	if _, ok := sess.UserID(); ok {
		t.Error("expected session unchanged on wrong password")
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	repo := &mockUserRepo{
		findByUsernameOrEmailFn: func(ctx context.Context, value string) (*User, error) {
			return nil, errors.New("db connection lost")
		},
	}

	svc := NewAuthService(repo, DefaultLimits())
	result := svc.Login(context.Background(), LoginInput{UsernameOrEmail: "alice", Password: "secret"}, &fakeSession{})

	if result.Code != 500 {
		t.Fatalf("expected 500, got %d", result.Code)
	}
}

// --- Logout Tests ---

func TestLogout(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, DefaultLimits())
	sess := &fakeSession{}

	if err := sess.SetUserID(context.Background(), "user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	if !svc.Logout(context.Background(), sess) {
		t.Error("expected first logout to destroy the session")
	}
	if _, ok := sess.UserID(); ok {
		t.Error("expected session cleared after logout")
	}
	if svc.Logout(context.Background(), sess) {
		t.Error("expected second logout to return false, not fault")
	}
}
