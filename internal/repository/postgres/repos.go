package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/msomdec/forumvotes/internal/domain"
	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	m := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepo) first(ctx context.Context, query string, arg any) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u := m.toDomain()
	return &u, nil
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	users := make([]domain.User, len(ms))
	for i, m := range ms {
		users[i] = m.toDomain()
	}
	return users, nil
}

type postRepo struct {
	db *gorm.DB
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	m := toPostModel(post)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = m.ID
	post.CreatedAt = m.CreatedAt
	for i := range post.Comments {
		post.Comments[i].PostID = m.ID
	}
	return nil
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var m postModel
	err := r.db.WithContext(ctx).Preload("Comments", orderComments).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	p := m.toDomain()
	return &p, nil
}

func (r *postRepo) List(ctx context.Context) ([]domain.Post, error) {
	var ms []postModel
	if err := r.db.WithContext(ctx).Preload("Comments", orderComments).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]domain.Post, len(ms))
	for i, m := range ms {
		posts[i] = m.toDomain()
	}
	return posts, nil
}

func (r *postRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	m := toCommentModel(c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: comment %d on post %d", domain.ErrCommentIDTaken, c.ID, c.PostID)
		}
		return fmt.Errorf("insert comment: %w", err)
	}
	c.CreatedAt = m.CreatedAt
	return nil
}

type voteRepo struct {
	db *gorm.DB
}

func whereTarget(db *gorm.DB, target domain.Target) *gorm.DB {
	target = target.Key()
	return db.Where("target_kind = ? AND post_id = ? AND comment_id = ?",
		string(target.Kind), target.PostID, target.CommentID)
}

func (r *voteRepo) Create(ctx context.Context, vote *domain.Vote) error {
	m := toVoteModel(vote)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrDuplicateVote
		}
		return fmt.Errorf("insert vote: %w", err)
	}
	vote.ID = m.ID
	vote.CreatedAt = m.CreatedAt
	return nil
}

func (r *voteRepo) Find(ctx context.Context, target domain.Target, userID int64) (*domain.Vote, error) {
	var m voteModel
	err := whereTarget(r.db.WithContext(ctx), target).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	v := m.toDomain()
	return &v, nil
}

func (r *voteRepo) Delete(ctx context.Context, target domain.Target, userID int64) error {
	res := whereTarget(r.db.WithContext(ctx), target).Where("user_id = ?", userID).Delete(&voteModel{})
	if res.Error != nil {
		return fmt.Errorf("delete vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}

const tallySelect = `COALESCE(SUM(CASE WHEN direction = 'up' THEN 1 ELSE 0 END), 0) AS up,
	COALESCE(SUM(CASE WHEN direction = 'down' THEN 1 ELSE 0 END), 0) AS down`

type tallyRow struct {
	PostID    int64
	CommentID int64
	Up        int
	Down      int
}

func (r *voteRepo) Tally(ctx context.Context, target domain.Target) (domain.Tally, error) {
	var row tallyRow
	err := whereTarget(r.db.WithContext(ctx).Model(&voteModel{}).Select(tallySelect), target).
		Scan(&row).Error
	if err != nil {
		return domain.Tally{}, fmt.Errorf("tally votes: %w", err)
	}
	return domain.Tally{Up: row.Up, Down: row.Down}, nil
}

func (r *voteRepo) TallyByKind(ctx context.Context, kind domain.TargetKind) (map[domain.Target]domain.Tally, error) {
	var rows []tallyRow
	err := r.db.WithContext(ctx).Model(&voteModel{}).
		Select("post_id, comment_id, "+tallySelect).
		Where("target_kind = ?", string(kind)).
		Group("post_id, comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tally votes by kind: %w", err)
	}

	tallies := make(map[domain.Target]domain.Tally, len(rows))
	for _, row := range rows {
		target := domain.Target{Kind: kind, PostID: row.PostID, CommentID: row.CommentID}
		tallies[target] = domain.Tally{Up: row.Up, Down: row.Down}
	}
	return tallies, nil
}

func (r *voteRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Vote, error) {
	var ms []voteModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("list votes by user: %w", err)
	}
	votes := make([]domain.Vote, len(ms))
	for i, m := range ms {
		votes[i] = m.toDomain()
	}
	return votes, nil
}
