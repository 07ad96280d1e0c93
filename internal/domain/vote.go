package domain

import (
	"context"
	"fmt"
	"time"
)

type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Target identifies what a vote is cast on. A comment is addressed through
// its parent post, so comment targets carry both IDs, but the ledger keys a
// comment vote by comment id alone (see Key).
type Target struct {
	Kind      TargetKind
	PostID    int64
	CommentID int64
}

func PostTarget(postID int64) Target {
	return Target{Kind: TargetPost, PostID: postID}
}

func CommentTarget(postID, commentID int64) Target {
	return Target{Kind: TargetComment, PostID: postID, CommentID: commentID}
}

// Key returns the identity the vote ledger stores t under. Comment votes
// are keyed by comment id only, so the parent post id is dropped.
func (t Target) Key() Target {
	if t.Kind == TargetComment {
		return Target{Kind: TargetComment, CommentID: t.CommentID}
	}
	return Target{Kind: t.Kind, PostID: t.PostID}
}

func (t Target) String() string {
	if t.Kind == TargetComment {
		return fmt.Sprintf("comment:%d/%d", t.PostID, t.CommentID)
	}
	return fmt.Sprintf("post:%d", t.PostID)
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Vote is a single user's up or down vote on a target.
type Vote struct {
	ID        int64
	Target    Target
	UserID    int64
	Direction Direction
	CreatedAt time.Time
}

// Tally is the up/down count for one target.
type Tally struct {
	Up   int
	Down int
}

// VoteRepository is the persistent side of the vote ledger. Implementations
// store and look up votes by Target.Key() and must reject a second vote for
// the same (key, user) with ErrDuplicateVote.
type VoteRepository interface {
	Create(ctx context.Context, vote *Vote) error
	Find(ctx context.Context, target Target, userID int64) (*Vote, error)
	Delete(ctx context.Context, target Target, userID int64) error
	Tally(ctx context.Context, target Target) (Tally, error)
	// TallyByKind returns the tally of every target of the given kind that
	// has at least one vote, keyed by Target.Key().
	TallyByKind(ctx context.Context, kind TargetKind) (map[Target]Tally, error)
	// ListByUser returns the user's votes in insertion order.
	ListByUser(ctx context.Context, userID int64) ([]Vote, error)
}
