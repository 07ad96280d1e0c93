package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/forumvotes/internal/domain"
)

// postRepo implements domain.PostRepository using SQLite. Comments live in
// their own table keyed by (post_id, id) and are attached on read.
type postRepo struct {
	db *sql.DB
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertPost(ctx, tx, post); err != nil {
		return err
	}
	for i := range post.Comments {
		c := &post.Comments[i]
		c.PostID = post.ID
		if err := insertComment(ctx, tx, c); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertPost(ctx context.Context, db execer, post *domain.Post) error {
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	result, err := db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		nullID(post.ID), post.UserID, post.Title, post.Content, post.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get post id: %w", err)
	}
	post.ID = id
	return nil
}

func insertComment(ctx context.Context, db execer, c *domain.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO comments (post_id, id, user_id, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.PostID, c.ID, c.UserID, c.Text, c.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: comment %d on post %d", domain.ErrCommentIDTaken, c.ID, c.PostID)
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	p := &domain.Post{}
	var created int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, created_at FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	p.CreatedAt = time.UnixMilli(created).UTC()

	comments, err := r.loadComments(ctx, `WHERE post_id = ?`, id)
	if err != nil {
		return nil, err
	}
	p.Comments = comments[id]
	return p, nil
}

func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, created_at FROM posts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var created int64
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &created); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = time.UnixMilli(created).UTC()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	comments, err := r.loadComments(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Comments = comments[posts[i].ID]
	}
	return posts, nil
}

// loadComments returns comments grouped by post, each group ordered by id.
func (r *postRepo) loadComments(ctx context.Context, where string, args ...any) (map[int64][]domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, id, user_id, text, created_at FROM comments `+where+` ORDER BY post_id, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	byPost := make(map[int64][]domain.Comment)
	for rows.Next() {
		var c domain.Comment
		var created int64
		if err := rows.Scan(&c.PostID, &c.ID, &c.UserID, &c.Text, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = time.UnixMilli(created).UTC()
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	return byPost, rows.Err()
}

func (r *postRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	return insertComment(ctx, r.db, c)
}
