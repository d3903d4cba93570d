package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minforum/minforum/internal/apperror"
)

// Repository defines the data access contract for posts.
// All SQL lives in the concrete implementation -- no SQL leaks out.
type Repository interface {
	Create(ctx context.Context, p *Post) error
	FindByDisplayID(ctx context.Context, displayID string) (*Post, error)
	List(ctx context.Context, limit int) ([]Post, error)
}

// repository implements Repository with hand-written MariaDB queries.
type repository struct {
	db *sql.DB
}

// NewRepository creates a new post repository backed by the given DB pool.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// Create inserts a new post row and backfills the auto-increment id.
func (r *repository) Create(ctx context.Context, p *Post) error {
	query := `INSERT INTO posts (display_id, title, text, author_id, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.DisplayID,
		p.Title,
		p.Text,
		p.AuthorID,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	p.ID, _ = result.LastInsertId()
	return nil
}

// FindByDisplayID retrieves a post by its public display id.
// Returns apperror.NotFound if no post exists with this display id.
func (r *repository) FindByDisplayID(ctx context.Context, displayID string) (*Post, error) {
	query := `SELECT id, display_id, title, text, author_id, created_at, updated_at
	          FROM posts WHERE display_id = ?`

	p := &Post{}
	err := r.db.QueryRowContext(ctx, query, displayID).Scan(
		&p.ID,
		&p.DisplayID,
		&p.Title,
		&p.Text,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying post by display id: %w", err)
	}

	return p, nil
}

// List returns the newest posts, capped at limit.
func (r *repository) List(ctx context.Context, limit int) ([]Post, error) {
	query := `SELECT id, display_id, title, text, author_id, created_at, updated_at
	          FROM posts ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID, &p.DisplayID, &p.Title, &p.Text, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}
