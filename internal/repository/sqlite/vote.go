package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/forumvotes/internal/domain"
)

// voteRepo implements domain.VoteRepository using SQLite. Rows hold
// Target.Key(), so comment votes have post_id 0, and the unique index
// idx_votes_target_user enforces one vote per (key, user).
type voteRepo struct {
	db *sql.DB
}

func (r *voteRepo) Create(ctx context.Context, vote *domain.Vote) error {
	return insertVote(ctx, r.db, vote)
}

func insertVote(ctx context.Context, db execer, vote *domain.Vote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	key := vote.Target.Key()
	result, err := db.ExecContext(ctx,
		`INSERT INTO votes (target_kind, post_id, comment_id, user_id, direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key.Kind, key.PostID, key.CommentID,
		vote.UserID, vote.Direction, vote.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get vote id: %w", err)
	}
	vote.ID = id
	return nil
}

const voteColumns = `id, target_kind, post_id, comment_id, user_id, direction, created_at`

func scanVote(row interface{ Scan(...any) error }) (*domain.Vote, error) {
	v := &domain.Vote{}
	var created int64
	if err := row.Scan(&v.ID, &v.Target.Kind, &v.Target.PostID, &v.Target.CommentID,
		&v.UserID, &v.Direction, &created); err != nil {
		return nil, err
	}
	v.CreatedAt = time.UnixMilli(created).UTC()
	return v, nil
}

func (r *voteRepo) Find(ctx context.Context, target domain.Target, userID int64) (*domain.Vote, error) {
	target = target.Key()
	v, err := scanVote(r.db.QueryRowContext(ctx,
		`SELECT `+voteColumns+` FROM votes
		 WHERE target_kind = ? AND post_id = ? AND comment_id = ? AND user_id = ?`,
		target.Kind, target.PostID, target.CommentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return v, nil
}

func (r *voteRepo) Delete(ctx context.Context, target domain.Target, userID int64) error {
	target = target.Key()
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM votes WHERE target_kind = ? AND post_id = ? AND comment_id = ? AND user_id = ?`,
		target.Kind, target.PostID, target.CommentID, userID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}

func (r *voteRepo) Tally(ctx context.Context, target domain.Target) (domain.Tally, error) {
	target = target.Key()
	var t domain.Tally
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(direction = 'up'), 0), COALESCE(SUM(direction = 'down'), 0)
		 FROM votes WHERE target_kind = ? AND post_id = ? AND comment_id = ?`,
		target.Kind, target.PostID, target.CommentID,
	).Scan(&t.Up, &t.Down)
	if err != nil {
		return domain.Tally{}, fmt.Errorf("tally votes: %w", err)
	}
	return t, nil
}

func (r *voteRepo) TallyByKind(ctx context.Context, kind domain.TargetKind) (map[domain.Target]domain.Tally, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT post_id, comment_id, SUM(direction = 'up'), SUM(direction = 'down')
		 FROM votes WHERE target_kind = ?
		 GROUP BY post_id, comment_id`, kind)
	if err != nil {
		return nil, fmt.Errorf("tally votes by kind: %w", err)
	}
	defer rows.Close()

	tallies := make(map[domain.Target]domain.Tally)
	for rows.Next() {
		target := domain.Target{Kind: kind}
		var t domain.Tally
		if err := rows.Scan(&target.PostID, &target.CommentID, &t.Up, &t.Down); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		tallies[target] = t
	}
	return tallies, rows.Err()
}

func (r *voteRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+voteColumns+` FROM votes WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list votes by user: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, *v)
	}
	return votes, rows.Err()
}
