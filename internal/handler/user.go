package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/forumvotes/internal/domain"
	"github.com/msomdec/forumvotes/internal/service"
)

// UserHandler serves per-user listings.
type UserHandler struct {
	views    *service.ViewService
	identity service.Identifier
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(views *service.ViewService, identity service.Identifier) *UserHandler {
	return &UserHandler{views: views, identity: identity}
}

// HandleVotes lists the caller's own votes.
// GET /users/{userId}/votes
// Response: {"postVotes":[...],"commentVotes":[...]}
func (h *UserHandler) HandleVotes(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authenticate(w, r, h.identity)
	if !ok {
		return
	}

	// A non-numeric id can never match the caller.
	userID, ok := pathID(r, "userId")
	if !ok {
		writeError(w, http.StatusForbidden, "Forbidden: User ID does not match token")
		return
	}

	listing, err := h.views.UserVotes(r.Context(), callerID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Forbidden: User ID does not match token")
			return
		}
		writeInternalError(w, "list user votes", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserVotesDTO(listing))
}
