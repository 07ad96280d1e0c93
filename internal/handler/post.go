package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

// PostHandler serves the post list, post detail and comment creation.
type PostHandler struct {
	views    *service.ViewService
	comments *service.CommentService
	identity service.Identifier
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(views *service.ViewService, comments *service.CommentService, identity service.Identifier) *PostHandler {
	return &PostHandler{views: views, comments: comments, identity: identity}
}

// HandleList returns every post with its author name, tally and comment count.
// GET /posts
func (h *PostHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.views.PostSummaries(r.Context())
	if err != nil {
		writeInternalError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, toPostSummaryDTOs(summaries))
}

// HandleGet returns one post with hydrated comments.
// GET /posts/{postId}
func (h *PostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	detail, err := h.views.PostDetail(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		writeInternalError(w, "get post", err)
		return
	}
	writeJSON(w, http.StatusOK, toPostDetailDTO(detail))
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// HandleAddComment appends a comment and returns the updated post.
// POST /posts/{postId}/comments
// Request: {"comment":"..."}
func (h *PostHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticate(w, r, h.identity)
	if !ok {
		return
	}

	postID, ok := pathID(r, "postId")
	if !ok {
		writeError(w, http.StatusNotFound, "Post not found")
		return
	}

	req := readBody[commentRequest](r)

	post, err := h.comments.AddComment(r.Context(), postID, userID, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostNotFound):
			writeError(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, domain.ErrEmptyComment):
			writeError(w, http.StatusBadRequest, "Comment cannot be empty")
		case errors.Is(err, domain.ErrCommentIDTaken):
			writeError(w, http.StatusConflict, "Comment could not be added, please retry")
		default:
			writeInternalError(w, "add comment", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(post))
}

// pathID parses a numeric path parameter.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
