package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/repository/sqlite"
	"github.com/msomdec/forumvotes/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests-0123456789"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newSeededDB returns a store loaded with the embedded seed fixture.
func newSeededDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := newTestDB(t)
	if err := service.NewFixtureService(db, 4).Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

func createPost(t *testing.T, db *sqlite.DB, authorID int64, comments ...string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		UserID:    authorID,
		Title:     "Test post",
		Content:   "Body",
		CreatedAt: time.Now().UTC(),
	}
	for i, text := range comments {
		post.Comments = append(post.Comments, domain.Comment{
			ID:        int64(i + 1),
			UserID:    authorID,
			Text:      text,
			CreatedAt: time.Now().UTC(),
		})
	}
	if err := db.Posts().Create(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

// unsignedToken builds a token whose signature is never checked by
// TokenDecoder.
func unsignedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
