package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/forumvotes/internal/domain"
)

// VoteService is the vote ledger: the single authority on whether a user
// has voted on a target. A comment vote belongs to the comment id alone, so
// the same id reached through two posts is one vote. Every check-then-act
// sequence runs under a lock keyed by (Target.Key(), user), and the
// repository's unique index backs it up.
type VoteService struct {
	votes domain.VoteRepository
	posts domain.PostRepository
	locks *keyedMutex[voteKey]
	now   func() time.Time
}

type voteKey struct {
	target domain.Target
	userID int64
}

// NewVoteService creates a new VoteService.
func NewVoteService(votes domain.VoteRepository, posts domain.PostRepository) *VoteService {
	return &VoteService{
		votes: votes,
		posts: posts,
		locks: newKeyedMutex[voteKey](),
		now:   time.Now,
	}
}

// TargetExists returns domain.ErrPostNotFound or domain.ErrCommentNotFound
// when the target is missing. This is the only place a comment target's
// post id matters.
func (s *VoteService) TargetExists(ctx context.Context, target domain.Target) error {
	switch target.Kind {
	case domain.TargetPost:
		_, err := s.posts.GetByID(ctx, target.PostID)
		return err
	case domain.TargetComment:
		_, err := findComment(ctx, s.posts, target.PostID, target.CommentID)
		return err
	default:
		return fmt.Errorf("%w: unknown target kind %q", domain.ErrInvalidInput, target.Kind)
	}
}

// FindVote returns the user's vote on target, or domain.ErrVoteNotFound.
func (s *VoteService) FindVote(ctx context.Context, target domain.Target, userID int64) (*domain.Vote, error) {
	return s.votes.Find(ctx, target, userID)
}

// Cast records a new vote. Checks run in order: target exists, direction
// is up or down, the user has not already voted on the target. Callers
// need not check existence first.
func (s *VoteService) Cast(ctx context.Context, target domain.Target, userID int64, direction domain.Direction) (*domain.Vote, error) {
	if err := s.TargetExists(ctx, target); err != nil {
		return nil, err
	}

	if err := validate.Var(string(direction), "required,oneof=up down"); err != nil {
		return nil, domain.ErrInvalidDirection
	}

	unlock := s.locks.Lock(voteKey{target: target.Key(), userID: userID})
	defer unlock()

	_, err := s.votes.Find(ctx, target, userID)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateVote
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("find vote: %w", err)
	}

	vote := &domain.Vote{
		Target:    target,
		UserID:    userID,
		Direction: direction,
		CreatedAt: s.now().UTC(),
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrDuplicateVote) {
			return nil, err
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}
	return vote, nil
}

// Revoke deletes the user's vote on target. The target itself is not
// consulted, so a vote outliving its target can still be revoked.
func (s *VoteService) Revoke(ctx context.Context, target domain.Target, userID int64) error {
	unlock := s.locks.Lock(voteKey{target: target.Key(), userID: userID})
	defer unlock()

	if _, err := s.votes.Find(ctx, target, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrVoteNotFound
		}
		return fmt.Errorf("find vote: %w", err)
	}

	if err := s.votes.Delete(ctx, target, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrVoteNotFound
		}
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}
