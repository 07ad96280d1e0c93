package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

// VoteHandler casts and revokes votes on posts and comments.
type VoteHandler struct {
	votes    *service.VoteService
	identity service.Identifier
}

// NewVoteHandler creates a new VoteHandler.
func NewVoteHandler(votes *service.VoteService, identity service.Identifier) *VoteHandler {
	return &VoteHandler{votes: votes, identity: identity}
}

type voteRequest struct {
	Vote string `json:"vote"`
}

// HandleCastPostVote records the caller's vote on a post.
// POST /posts/{postId}/votes
// Request: {"vote":"up"|"down"}
func (h *VoteHandler) HandleCastPostVote(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}
	h.cast(w, r, domain.PostTarget(postID), "Post not found", "You have already voted for this post")
}

// HandleCastCommentVote records the caller's vote on a comment.
// POST /posts/{postId}/comments/{commentId}/votes
// Request: {"vote":"up"|"down"}
func (h *VoteHandler) HandleCastCommentVote(w http.ResponseWriter, r *http.Request) {
	postID, okPost := pathID(r, "postId")
	commentID, okComment := pathID(r, "commentId")
	if !okPost || !okComment {
		writeError(w, http.StatusNotFound, "Comment not found")
		return
	}
	h.cast(w, r, domain.CommentTarget(postID, commentID), "Comment not found", "You have already voted for this comment")
}

// cast checks, in order: the target exists, the caller is identified, the
// direction is valid, the caller has not voted yet. Cast looks the target up
// itself, so the handler only does so when the caller cannot be identified.
func (h *VoteHandler) cast(w http.ResponseWriter, r *http.Request, target domain.Target, notFound, duplicate string) {
	userID, err := identify(r, h.identity)
	if err != nil {
		if err := h.votes.TargetExists(r.Context(), target); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, notFound)
				return
			}
			writeInternalError(w, "look up vote target", err)
			return
		}
		slog.Debug("reject token", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	req := readBody[voteRequest](r)
	vote, err := h.votes.Cast(r.Context(), target, userID, domain.Direction(req.Vote))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, notFound)
		case errors.Is(err, domain.ErrInvalidDirection):
			writeError(w, http.StatusBadRequest, "Invalid vote value. Should be up or down")
		case errors.Is(err, domain.ErrDuplicateVote):
			writeError(w, http.StatusBadRequest, duplicate)
		default:
			writeInternalError(w, "cast vote", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toVoteDTO(vote))
}

// HandleRevokePostVote deletes the caller's vote on a post.
// DELETE /posts/{postId}/votes
func (h *VoteHandler) HandleRevokePostVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r, h.identity)
	if !ok {
		return
	}
	postID, ok := pathID(r, "postId")
	if !ok {
		writeError(w, http.StatusNotFound, "Vote not found")
		return
	}
	h.revoke(w, r, domain.PostTarget(postID), userID)
}

// HandleRevokeCommentVote deletes the caller's vote on a comment.
// DELETE /posts/{postId}/comments/{commentId}/votes
func (h *VoteHandler) HandleRevokeCommentVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r, h.identity)
	if !ok {
		return
	}
	postID, okPost := pathID(r, "postId")
	commentID, okComment := pathID(r, "commentId")
	if !okPost || !okComment {
		writeError(w, http.StatusNotFound, "Vote not found")
		return
	}
	h.revoke(w, r, domain.CommentTarget(postID, commentID), userID)
}

func (h *VoteHandler) revoke(w http.ResponseWriter, r *http.Request, target domain.Target, userID int64) {
	if err := h.votes.Revoke(r.Context(), target, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Vote not found")
			return
		}
		writeInternalError(w, "revoke vote", err)
		return
	}
	writeJSON(w, http.StatusOK, "Vote deleted")
}
