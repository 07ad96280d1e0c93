package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

func TestVoteService_Cast(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()
	post := createPost(t, db, 1)
	target := domain.PostTarget(post.ID)

	vote, err := svc.Cast(ctx, target, 7, domain.DirectionUp)
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if vote.ID == 0 {
		t.Fatal("expected vote ID to be set")
	}

	found, err := svc.FindVote(ctx, target, 7)
	if err != nil {
		t.Fatalf("FindVote: %v", err)
	}
	if found.Direction != domain.DirectionUp {
		t.Fatalf("expected up, got %s", found.Direction)
	}

	// A second vote in either direction is a duplicate.
	if _, err := svc.Cast(ctx, target, 7, domain.DirectionDown); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}

	tally, err := db.Votes().Tally(ctx, target)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally != (domain.Tally{Up: 1}) {
		t.Fatalf("expected {1 0}, got %+v", tally)
	}
}

func TestVoteService_Cast_CheckOrder(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()
	post := createPost(t, db, 1, "first")

	tests := []struct {
		name      string
		target    domain.Target
		direction domain.Direction
		want      error
	}{
		{"missing post beats bad direction", domain.PostTarget(999), "sideways", domain.ErrPostNotFound},
		{"missing comment beats bad direction", domain.CommentTarget(post.ID, 42), "", domain.ErrCommentNotFound},
		{"comment of missing post", domain.CommentTarget(999, 1), domain.DirectionUp, domain.ErrCommentNotFound},
		{"bad direction", domain.PostTarget(post.ID), "sideways", domain.ErrInvalidDirection},
		{"empty direction", domain.CommentTarget(post.ID, 1), "", domain.ErrInvalidDirection},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Cast(ctx, tc.target, 7, tc.direction)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestVoteService_CommentVotesKeyedByCommentID(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()
	a := createPost(t, db, 1, "a1")
	b := createPost(t, db, 1, "b1")

	if _, err := svc.Cast(ctx, domain.CommentTarget(a.ID, 1), 7, domain.DirectionUp); err != nil {
		t.Fatalf("Cast on post a: %v", err)
	}
	// The same comment id reached through another post is the same vote.
	if _, err := svc.Cast(ctx, domain.CommentTarget(b.ID, 1), 7, domain.DirectionDown); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote through post b, got %v", err)
	}
	vote, err := svc.FindVote(ctx, domain.CommentTarget(b.ID, 1), 7)
	if err != nil {
		t.Fatalf("FindVote through post b: %v", err)
	}
	if vote.Direction != domain.DirectionUp {
		t.Fatalf("expected the original up vote, got %s", vote.Direction)
	}

	if err := svc.Revoke(ctx, domain.CommentTarget(b.ID, 1), 7); err != nil {
		t.Fatalf("Revoke through post b: %v", err)
	}
	if _, err := svc.FindVote(ctx, domain.CommentTarget(a.ID, 1), 7); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected vote to be gone, got %v", err)
	}

	// Voting on the post itself is independent of its comments.
	if _, err := svc.Cast(ctx, domain.CommentTarget(a.ID, 1), 7, domain.DirectionUp); err != nil {
		t.Fatalf("Cast on comment: %v", err)
	}
	if _, err := svc.Cast(ctx, domain.PostTarget(a.ID), 7, domain.DirectionUp); err != nil {
		t.Fatalf("Cast on post: %v", err)
	}
}

func TestVoteService_Revoke(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()
	post := createPost(t, db, 1)
	target := domain.PostTarget(post.ID)

	if err := svc.Revoke(ctx, target, 7); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound before casting, got %v", err)
	}

	if _, err := svc.Cast(ctx, target, 7, domain.DirectionDown); err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if err := svc.Revoke(ctx, target, 7); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.FindVote(ctx, target, 7); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected vote to be gone, got %v", err)
	}

	// Revoking frees the slot for a fresh vote.
	if _, err := svc.Cast(ctx, target, 7, domain.DirectionUp); err != nil {
		t.Fatalf("Cast after revoke: %v", err)
	}
}

func TestVoteService_RevokeIgnoresTargetExistence(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()

	// Nothing exists under post 500, so there is no vote either.
	if err := svc.Revoke(ctx, domain.CommentTarget(500, 1), 7); !errors.Is(err, domain.ErrVoteNotFound) {
		t.Fatalf("expected ErrVoteNotFound, got %v", err)
	}
}

func TestVoteService_ConcurrentCastRecordsOneVote(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewVoteService(db.Votes(), db.Posts())
	ctx := context.Background()
	post := createPost(t, db, 1)
	target := domain.PostTarget(post.ID)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		dupes     int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cast(ctx, target, 7, domain.DirectionUp)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateVote):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 || dupes != callers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", callers-1, successes, dupes)
	}

	tally, err := db.Votes().Tally(ctx, target)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if tally.Up != 1 {
		t.Fatalf("expected exactly one stored vote, got %+v", tally)
	}
}
