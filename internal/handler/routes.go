package handler

import (
	"net/http"

	"github.com/msomdec/forumvotes/internal/service"
)

// Services are the dependencies the routes are built from. A nil Auth
// leaves out /register and /login; a nil Fixtures leaves out /seedDB and
// /clearDb.
type Services struct {
	Identity service.Identifier
	Auth     *service.AuthService
	Votes    *service.VoteService
	Comments *service.CommentService
	Views    *service.ViewService
	Fixtures *service.FixtureService
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, s Services) {
	posts := NewPostHandler(s.Views, s.Comments, s.Identity)
	votes := NewVoteHandler(s.Votes, s.Identity)
	users := NewUserHandler(s.Views, s.Identity)

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("GET /posts", posts.HandleList)
	mux.HandleFunc("GET /posts/{postId}", posts.HandleGet)
	mux.HandleFunc("POST /posts/{postId}/comments", posts.HandleAddComment)

	mux.HandleFunc("POST /posts/{postId}/votes", votes.HandleCastPostVote)
	mux.HandleFunc("DELETE /posts/{postId}/votes", votes.HandleRevokePostVote)
	mux.HandleFunc("POST /posts/{postId}/comments/{commentId}/votes", votes.HandleCastCommentVote)
	mux.HandleFunc("DELETE /posts/{postId}/comments/{commentId}/votes", votes.HandleRevokeCommentVote)

	mux.HandleFunc("GET /users/{userId}/votes", users.HandleVotes)

	if s.Auth != nil {
		auth := NewAuthHandler(s.Auth)
		mux.HandleFunc("POST /register", auth.HandleRegister)
		mux.HandleFunc("POST /login", auth.HandleLogin)
	}

	if s.Fixtures != nil {
		admin := NewAdminHandler(s.Fixtures)
		mux.HandleFunc("POST /seedDB", admin.HandleSeed)
		mux.HandleFunc("POST /clearDb", admin.HandleClear)
	}
}
