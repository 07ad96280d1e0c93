package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/fixtures"
)

// FixtureService swaps the whole store for one of the embedded fixtures.
type FixtureService struct {
	db         domain.Database
	bcryptCost int
}

// NewFixtureService creates a new FixtureService.
func NewFixtureService(db domain.Database, bcryptCost int) *FixtureService {
	return &FixtureService{db: db, bcryptCost: bcryptCost}
}

// Seed replaces every table with the demo data set.
func (s *FixtureService) Seed(ctx context.Context) error {
	return s.apply(ctx, fixtures.Seed)
}

// Clear removes all posts, comments and votes. The fixture accounts remain
// so existing tokens keep resolving to a user.
func (s *FixtureService) Clear(ctx context.Context) error {
	return s.apply(ctx, fixtures.Clear)
}

func (s *FixtureService) apply(ctx context.Context, name string) error {
	f, err := fixtures.Load(name)
	if err != nil {
		return err
	}

	snap, err := f.Snapshot(func(pw string) (string, error) {
		return HashPassword(pw, s.bcryptCost)
	})
	if err != nil {
		return err
	}

	if err := s.db.Replace(ctx, snap); err != nil {
		return fmt.Errorf("replace store with %s: %w", name, err)
	}

	slog.Info("fixture applied",
		"fixture", name,
		"users", len(snap.Users),
		"posts", len(snap.Posts),
		"votes", len(snap.Votes),
	)
	return nil
}
