package post

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minforum/minforum/internal/apperror"
)

// maxListLimit caps how many posts one feed request can return.
const maxListLimit = 50

// displayIDBytes is the number of random bytes in a display id.
// 6 bytes hex-encode to 12 characters, short enough for URLs.
const displayIDBytes = 6

// Service defines the business logic contract for posts.
type Service interface {
	Create(ctx context.Context, authorID string, input CreateInput) (*Post, error)
	GetByDisplayID(ctx context.Context, displayID string) (*Post, error)
	List(ctx context.Context, limit int) ([]Post, error)
}

// service implements Service.
type service struct {
	repo Repository
}

// NewService creates a new post service with the given repository.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create validates and publishes a new post for the given author.
func (s *service) Create(ctx context.Context, authorID string, input CreateInput) (*Post, error) {
	title := strings.TrimSpace(input.Title)
	text := strings.TrimSpace(input.Text)

	if title == "" {
		return nil, apperror.NewBadRequest("title is required")
	}
	if len(title) > 255 {
		return nil, apperror.NewBadRequest("title must be at most 255 characters")
	}
	if text == "" {
		return nil, apperror.NewBadRequest("text is required")
	}

	displayID, err := newDisplayID()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("generating display id: %w", err))
	}

	p := &Post{
		DisplayID: displayID,
		Title:     title,
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating post: %w", err))
	}

	slog.Info("post created",
		slog.String("display_id", p.DisplayID),
		slog.String("author_id", p.AuthorID),
	)

	return p, nil
}

// GetByDisplayID returns one post by its public display id.
func (s *service) GetByDisplayID(ctx context.Context, displayID string) (*Post, error) {
	return s.repo.FindByDisplayID(ctx, displayID)
}

// List returns the newest posts. A non-positive or oversized limit falls
// back to the cap.
func (s *service) List(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	posts, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing posts: %w", err))
	}
	return posts, nil
}

// newDisplayID creates a random hex display id.
func newDisplayID() (string, error) {
	b := make([]byte, displayIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
