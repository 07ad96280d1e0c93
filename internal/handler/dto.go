package handler

import (
	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

// Timestamps are Unix milliseconds throughout the API.

// UserDTO is the public part of an account.
type UserDTO struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AuthResponseDTO is returned by register and login.
type AuthResponseDTO struct {
	AccessToken string  `json:"accessToken"`
	User        UserDTO `json:"user"`
}

// CommentDTO is a stored comment without derived fields.
type CommentDTO struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// PostDTO is a stored post with its raw comments, as returned after a
// comment is added.
type PostDTO struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	CreatedAt int64        `json:"createdAt"`
	Comments  []CommentDTO `json:"comments"`
}

func toPostDTO(p *domain.Post) PostDTO {
	comments := make([]CommentDTO, len(p.Comments))
	for i, c := range p.Comments {
		comments[i] = CommentDTO{
			ID:        c.ID,
			UserID:    c.UserID,
			Text:      c.Text,
			CreatedAt: c.CreatedAt.UnixMilli(),
		}
	}
	return PostDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt.UnixMilli(),
		Comments:  comments,
	}
}

// PostSummaryDTO is one entry of the post list.
type PostSummaryDTO struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	CreatedAt     int64   `json:"createdAt"`
	UserName      *string `json:"userName"`
	UpVote        int     `json:"upVote"`
	DownVote      int     `json:"downVote"`
	CommentsCount int     `json:"commentsCount"`
}

func toPostSummaryDTOs(summaries []service.PostSummary) []PostSummaryDTO {
	dtos := make([]PostSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = PostSummaryDTO{
			ID:            s.Post.ID,
			UserID:        s.Post.UserID,
			Title:         s.Post.Title,
			Content:       s.Post.Content,
			CreatedAt:     s.Post.CreatedAt.UnixMilli(),
			UserName:      s.UserName,
			UpVote:        s.Tally.Up,
			DownVote:      s.Tally.Down,
			CommentsCount: s.CommentsCount,
		}
	}
	return dtos
}

type CommentDetailDTO struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"userId"`
	Text      string  `json:"text"`
	CreatedAt int64   `json:"createdAt"`
	UserName  *string `json:"userName"`
	UpVote    int     `json:"upVote"`
	DownVote  int     `json:"downVote"`
}

// PostDetailDTO is a single post with hydrated comments.
type PostDetailDTO struct {
	ID            int64              `json:"id"`
	UserID        int64              `json:"userId"`
	UserName      *string            `json:"userName"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	ContentHTML   string             `json:"contentHtml"`
	CreatedAt     int64              `json:"createdAt"`
	UpVote        int                `json:"upVote"`
	DownVote      int                `json:"downVote"`
	CommentsCount int                `json:"commentsCount"`
	Comments      []CommentDetailDTO `json:"comments"`
}

func toPostDetailDTO(d *service.PostDetail) PostDetailDTO {
	comments := make([]CommentDetailDTO, len(d.Comments))
	for i, c := range d.Comments {
		comments[i] = CommentDetailDTO{
			ID:        c.Comment.ID,
			UserID:    c.Comment.UserID,
			Text:      c.Comment.Text,
			CreatedAt: c.Comment.CreatedAt.UnixMilli(),
			UserName:  c.UserName,
			UpVote:    c.Tally.Up,
			DownVote:  c.Tally.Down,
		}
	}
	return PostDetailDTO{
		ID:            d.Post.ID,
		UserID:        d.Post.UserID,
		UserName:      d.UserName,
		Title:         d.Post.Title,
		Content:       d.Post.Content,
		ContentHTML:   d.ContentHTML,
		CreatedAt:     d.Post.CreatedAt.UnixMilli(),
		UpVote:        d.Tally.Up,
		DownVote:      d.Tally.Down,
		CommentsCount: d.CommentsCount,
		Comments:      comments,
	}
}

// PostVoteDTO is a vote cast on a post.
type PostVoteDTO struct {
	PostID    int64            `json:"postId"`
	UserID    int64            `json:"userId"`
	CreatedAt int64            `json:"createdAt"`
	Vote      domain.Direction `json:"vote"`
}

// CommentVoteDTO is a vote cast on a comment.
type CommentVoteDTO struct {
	CommentID int64            `json:"commentId"`
	UserID    int64            `json:"userId"`
	CreatedAt int64            `json:"createdAt"`
	Vote      domain.Direction `json:"vote"`
}

// toVoteDTO exposes exactly one of postId or commentId depending on the
// target kind.
func toVoteDTO(v *domain.Vote) any {
	if v.Target.Kind == domain.TargetComment {
		return CommentVoteDTO{
			CommentID: v.Target.CommentID,
			UserID:    v.UserID,
			CreatedAt: v.CreatedAt.UnixMilli(),
			Vote:      v.Direction,
		}
	}
	return PostVoteDTO{
		PostID:    v.Target.PostID,
		UserID:    v.UserID,
		CreatedAt: v.CreatedAt.UnixMilli(),
		Vote:      v.Direction,
	}
}

type PostVoteRefDTO struct {
	PostID int64            `json:"postId"`
	Vote   domain.Direction `json:"vote"`
}

type CommentVoteRefDTO struct {
	CommentID int64            `json:"commentId"`
	Vote      domain.Direction `json:"vote"`
}

// UserVotesDTO lists a user's votes split by target kind.
type UserVotesDTO struct {
	PostVotes    []PostVoteRefDTO    `json:"postVotes"`
	CommentVotes []CommentVoteRefDTO `json:"commentVotes"`
}

func toUserVotesDTO(l *service.UserVoteListing) UserVotesDTO {
	dto := UserVotesDTO{
		PostVotes:    make([]PostVoteRefDTO, len(l.PostVotes)),
		CommentVotes: make([]CommentVoteRefDTO, len(l.CommentVotes)),
	}
	for i, v := range l.PostVotes {
		dto.PostVotes[i] = PostVoteRefDTO{PostID: v.PostID, Vote: v.Direction}
	}
	for i, v := range l.CommentVotes {
		dto.CommentVotes[i] = CommentVoteRefDTO{CommentID: v.CommentID, Vote: v.Direction}
	}
	return dto
}
