package service

import (
	"context"
	"fmt"

	"github.com/msomdec/forumvotes/internal/domain"
)

// PostSummary is a post as shown in lists: no comments, only their count.
type PostSummary struct {
	Post          domain.Post
	UserName      *string
	Tally         domain.Tally
	CommentsCount int
}

// CommentView is a comment hydrated with its author's name and tally.
type CommentView struct {
	Comment  domain.Comment
	UserName *string
	Tally    domain.Tally
}

// PostDetail is a single post with every comment hydrated.
type PostDetail struct {
	Post          domain.Post
	UserName      *string
	Tally         domain.Tally
	ContentHTML   string
	Comments      []CommentView
	CommentsCount int
}

type PostVoteRef struct {
	PostID    int64
	Direction domain.Direction
}

type CommentVoteRef struct {
	CommentID int64
	Direction domain.Direction
}

// UserVoteListing partitions a user's votes by target kind.
type UserVoteListing struct {
	PostVotes    []PostVoteRef
	CommentVotes []CommentVoteRef
}

// ViewService builds read-only projections. It never mutates state.
type ViewService struct {
	posts domain.PostRepository
	votes domain.VoteRepository
	users domain.UserRepository
}

// NewViewService creates a new ViewService.
func NewViewService(posts domain.PostRepository, votes domain.VoteRepository, users domain.UserRepository) *ViewService {
	return &ViewService{posts: posts, votes: votes, users: users}
}

// Tally counts the up and down votes on target. Comment tallies cover
// every vote on the comment id, whichever post it was cast through.
func (s *ViewService) Tally(ctx context.Context, target domain.Target) (domain.Tally, error) {
	return s.votes.Tally(ctx, target)
}

// PostSummaries returns every post in list form.
func (s *ViewService) PostSummaries(ctx context.Context) ([]PostSummary, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	tallies, err := s.votes.TallyByKind(ctx, domain.TargetPost)
	if err != nil {
		return nil, fmt.Errorf("tally posts: %w", err)
	}

	userIDs := make([]int64, 0, len(posts))
	for _, p := range posts {
		userIDs = append(userIDs, p.UserID)
	}
	names, err := s.userNames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, len(posts))
	for i, p := range posts {
		count := len(p.Comments)
		p.Comments = nil
		summaries[i] = PostSummary{
			Post:          p,
			UserName:      names[p.UserID],
			Tally:         tallies[domain.PostTarget(p.ID)],
			CommentsCount: count,
		}
	}
	return summaries, nil
}

// PostDetail returns the fully hydrated post, or domain.ErrPostNotFound.
func (s *ViewService) PostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	tally, err := s.Tally(ctx, domain.PostTarget(post.ID))
	if err != nil {
		return nil, fmt.Errorf("tally post: %w", err)
	}

	userIDs := []int64{post.UserID}
	for _, c := range post.Comments {
		userIDs = append(userIDs, c.UserID)
	}
	names, err := s.userNames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	comments := make([]CommentView, len(post.Comments))
	for i, c := range post.Comments {
		ct, err := s.Tally(ctx, domain.CommentTarget(post.ID, c.ID))
		if err != nil {
			return nil, fmt.Errorf("tally comment %d: %w", c.ID, err)
		}
		comments[i] = CommentView{Comment: c, UserName: names[c.UserID], Tally: ct}
	}

	detail := &PostDetail{
		Post:          *post,
		UserName:      names[post.UserID],
		Tally:         tally,
		ContentHTML:   RenderMarkdown(post.Content),
		Comments:      comments,
		CommentsCount: len(comments),
	}
	detail.Post.Comments = nil
	return detail, nil
}

// UserVotes lists every vote cast by userID in insertion order. Only the
// user themself may read it: requesterID must equal userID.
func (s *ViewService) UserVotes(ctx context.Context, requesterID, userID int64) (*UserVoteListing, error) {
	if requesterID != userID {
		return nil, domain.ErrForbidden
	}

	votes, err := s.votes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	listing := &UserVoteListing{
		PostVotes:    []PostVoteRef{},
		CommentVotes: []CommentVoteRef{},
	}
	for _, v := range votes {
		switch v.Target.Kind {
		case domain.TargetPost:
			listing.PostVotes = append(listing.PostVotes, PostVoteRef{PostID: v.Target.PostID, Direction: v.Direction})
		case domain.TargetComment:
			listing.CommentVotes = append(listing.CommentVotes, CommentVoteRef{CommentID: v.Target.CommentID, Direction: v.Direction})
		}
	}
	return listing, nil
}

// userNames resolves ids to names. Ids with no user are absent from the
// map, which callers read as a nil name.
func (s *ViewService) userNames(ctx context.Context, ids []int64) (map[int64]*string, error) {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	users, err := s.users.ListByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}

	names := make(map[int64]*string, len(users))
	for _, u := range users {
		name := u.Name
		names[u.ID] = &name
	}
	return names, nil
}
