// Package post implements the minimal posts surface: authenticated users
// can publish a post and anyone can read the feed. Posts are addressed
// publicly by a short unique display id rather than the auto-increment
// primary key.
package post

import (
	"time"
)

// Post is one published forum post.
type Post struct {
	ID        int64     `json:"-"`
	DisplayID string    `json:"displayId"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateInput is the payload for publishing a new post.
type CreateInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
