package domain

import (
	"context"
	"time"
)

// Post is a discussion thread. Comments are embedded and ordered by ID.
type Post struct {
	ID        int64
	UserID    int64
	Title     string
	Content   string
	CreatedAt time.Time
	Comments  []Comment
}

// Comment belongs to exactly one post. Its ID is only unique within that post.
type Comment struct {
	ID        int64
	PostID    int64
	UserID    int64
	Text      string
	CreatedAt time.Time
}

// PostRepository handles posts and their embedded comments.
type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	// GetByID returns the post with all of its comments loaded.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// List returns every post, oldest first, with comments loaded.
	List(ctx context.Context) ([]Post, error)
	// AddComment appends c to its post. c.ID must already be allocated;
	// ErrCommentIDTaken reports that the post already has a comment with it.
	AddComment(ctx context.Context, c *Comment) error
}
