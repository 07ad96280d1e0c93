package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/msomdec/forumvotes/internal/domain"
)

// commentIDAttempts bounds how often AddComment reallocates an id that a
// writer outside this process claimed first.
const commentIDAttempts = 3

// CommentService appends comments to posts. Comment ids are allocated per
// post as the highest existing id plus one, serialized per post.
type CommentService struct {
	posts domain.PostRepository
	locks *keyedMutex[int64]
	now   func() time.Time
}

// NewCommentService creates a new CommentService.
func NewCommentService(posts domain.PostRepository) *CommentService {
	return &CommentService{
		posts: posts,
		locks: newKeyedMutex[int64](),
		now:   time.Now,
	}
}

// AddComment appends text as a new comment by userID and returns the
// updated post with every comment. Text that is blank after trimming is
// rejected with domain.ErrEmptyComment; otherwise it is stored as given.
func (s *CommentService) AddComment(ctx context.Context, postID, userID int64, text string) (*domain.Post, error) {
	unlock := s.locks.Lock(postID)
	defer unlock()

	var err error
	for range commentIDAttempts {
		var post *domain.Post
		post, err = s.posts.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}

		if err := validate.Var(trimSpace(text), "required"); err != nil {
			return nil, domain.ErrEmptyComment
		}

		c := domain.Comment{
			ID:        nextCommentID(post.Comments),
			PostID:    postID,
			UserID:    userID,
			Text:      text,
			CreatedAt: s.now().UTC(),
		}
		err = s.posts.AddComment(ctx, &c)
		if err == nil {
			post.Comments = append(post.Comments, c)
			return post, nil
		}
		if !errors.Is(err, domain.ErrCommentIDTaken) {
			return nil, fmt.Errorf("add comment: %w", err)
		}
		slog.Warn("comment id taken, reallocating", "post_id", postID, "comment_id", c.ID)
	}
	return nil, fmt.Errorf("add comment: %w", err)
}

// trimSpace strips Unicode white space and the byte order mark from both
// ends. U+0085 is kept.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '\uFEFF' || (r != '\u0085' && unicode.IsSpace(r))
	})
}

// FindComment returns a comment addressed through its post.
func (s *CommentService) FindComment(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	return findComment(ctx, s.posts, postID, commentID)
}

func findComment(ctx context.Context, posts domain.PostRepository, postID, commentID int64) (*domain.Comment, error) {
	post, err := posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			return &post.Comments[i], nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func nextCommentID(comments []domain.Comment) int64 {
	var highest int64
	for _, c := range comments {
		highest = max(highest, c.ID)
	}
	return highest + 1
}
