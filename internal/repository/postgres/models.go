package postgres

import (
	"time"

	"github.com/msomdec/forumvotes/internal/domain"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"not null;default:''"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null;default:''"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

type postModel struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"not null"`
	Title     string
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	Comments  []commentModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (postModel) TableName() string { return "posts" }

// commentModel ids are only unique within a post, hence the composite key.
type commentModel struct {
	PostID    int64  `gorm:"primaryKey;autoIncrement:false"`
	ID        int64  `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64  `gorm:"not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (commentModel) TableName() string { return "comments" }

// voteModel rows hold Target.Key(), so comment votes have PostID 0.
type voteModel struct {
	ID         int64  `gorm:"primaryKey"`
	TargetKind string `gorm:"not null;uniqueIndex:idx_votes_target_user,priority:1"`
	PostID     int64  `gorm:"not null;uniqueIndex:idx_votes_target_user,priority:2"`
	CommentID  int64  `gorm:"not null;default:0;uniqueIndex:idx_votes_target_user,priority:3"`
	UserID     int64  `gorm:"not null;uniqueIndex:idx_votes_target_user,priority:4;index:idx_votes_user"`
	Direction  string `gorm:"not null"`
	CreatedAt  time.Time
}

func (voteModel) TableName() string { return "votes" }

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    orNow(u.CreatedAt),
	}
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func toPostModel(p *domain.Post) postModel {
	m := postModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: orNow(p.CreatedAt),
	}
	for i := range p.Comments {
		c := p.Comments[i]
		c.PostID = p.ID
		m.Comments = append(m.Comments, toCommentModel(&c))
	}
	return m
}

func (m postModel) toDomain() domain.Post {
	p := domain.Post{
		ID:        m.ID,
		UserID:    m.UserID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
	}
	for _, c := range m.Comments {
		p.Comments = append(p.Comments, c.toDomain())
	}
	return p
}

func toCommentModel(c *domain.Comment) commentModel {
	return commentModel{
		PostID:    c.PostID,
		ID:        c.ID,
		UserID:    c.UserID,
		Text:      c.Text,
		CreatedAt: orNow(c.CreatedAt),
	}
}

func (m commentModel) toDomain() domain.Comment {
	return domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func toVoteModel(v *domain.Vote) voteModel {
	key := v.Target.Key()
	return voteModel{
		ID:         v.ID,
		TargetKind: string(key.Kind),
		PostID:     key.PostID,
		CommentID:  key.CommentID,
		UserID:     v.UserID,
		Direction:  string(v.Direction),
		CreatedAt:  orNow(v.CreatedAt),
	}
}

func (m voteModel) toDomain() domain.Vote {
	return domain.Vote{
		ID: m.ID,
		Target: domain.Target{
			Kind:      domain.TargetKind(m.TargetKind),
			PostID:    m.PostID,
			CommentID: m.CommentID,
		},
		UserID:    m.UserID,
		Direction: domain.Direction(m.Direction),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
