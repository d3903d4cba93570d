package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups when no account matches.
var ErrNotFound = errors.New("user not found")

// DuplicateError reports a unique-key violation on create. Field names the
// offending column ("username" or "email"). The pre-create duplicate check
// in the service is best-effort only; under concurrent registration the
// database's unique keys reject the loser and this error carries the result.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " already taken"
}

// UserRepository defines the data access contract for user accounts.
// All SQL lives in the concrete implementation -- no SQL leaks out.
// Lookups are case-sensitive exact matches modulo the store's collation.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsernameOrEmail(ctx context.Context, value string) (*User, error)
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
}

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// findOne runs a single-row user query for the given column/value pair.
func (r *userRepository) findOne(ctx context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = ?`, userColumns, column)

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by %s: %w", column, err)
	}

	return user, nil
}

// FindByUsername retrieves a user by username.
// Returns ErrNotFound if no user exists with this username.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, "username", username)
}

// FindByEmail retrieves a user by email address.
// Returns ErrNotFound if no user exists with this email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email", email)
}

// FindByUsernameOrEmail dispatches to an email lookup when the value
// contains "@", else a username lookup. Plain substring test, not RFC
// parsing.
func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, value string) (*User, error) {
	if strings.Contains(value, "@") {
		return r.FindByEmail(ctx, value)
	}
	return r.FindByUsername(ctx, value)
}

// Create inserts a new user row. The id is assigned here; timestamps are
// set to the insert time. A unique-key rejection (MySQL error 1062) comes
// back as *DuplicateError naming the violated column.
func (r *userRepository) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	query := `INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, &DuplicateError{Field: duplicateField(mysqlErr)}
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

// duplicateField extracts which unique key a 1062 error violated. The error
// message ends with the key name, e.g. `... for key 'users.email'`.
func duplicateField(e *mysql.MySQLError) string {
	if i := strings.LastIndex(e.Message, "for key"); i >= 0 && strings.Contains(e.Message[i:], "email") {
		return "email"
	}
	return "username"
}
