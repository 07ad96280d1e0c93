package domain

import (
	"context"
	"time"
)

// User represents a registered forum member.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListByIDs returns the users that exist among ids. Missing ids are
	// silently skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]User, error)
}
