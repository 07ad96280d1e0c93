package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/forumvotes/internal/handler"
)

func TestUserVotes_Own(t *testing.T) {
	env := newTestEnv(t, false)
	token := tokenFor(t, 3)

	status, body := env.do(t, http.MethodGet, "/users/3/votes", token, nil)
	require.Equal(t, http.StatusOK, status)

	votes := decode[handler.UserVotesDTO](t, body)
	assert.Equal(t, []handler.PostVoteRefDTO{{PostID: 1, Vote: "up"}}, votes.PostVotes)
	assert.Equal(t, []handler.CommentVoteRefDTO{{CommentID: 1, Vote: "down"}}, votes.CommentVotes)
}

func TestUserVotes_EmptyListsAreArrays(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodGet, "/users/7/votes", tokenFor(t, 7), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"postVotes":[],"commentVotes":[]}`, string(body))
}

func TestUserVotes_TracksCastsAndRevokes(t *testing.T) {
	env := newTestEnv(t, false)
	token := tokenFor(t, 7)

	env.do(t, http.MethodPost, "/posts/2/votes", token, map[string]string{"vote": "down"})
	env.do(t, http.MethodPost, "/posts/1/comments/2/votes", token, map[string]string{"vote": "up"})
	env.do(t, http.MethodPost, "/posts/1/votes", token, map[string]string{"vote": "up"})
	env.do(t, http.MethodDelete, "/posts/2/votes", token, nil)

	_, body := env.do(t, http.MethodGet, "/users/7/votes", token, nil)
	votes := decode[handler.UserVotesDTO](t, body)
	assert.Equal(t, []handler.PostVoteRefDTO{{PostID: 1, Vote: "up"}}, votes.PostVotes)
	assert.Equal(t, []handler.CommentVoteRefDTO{{CommentID: 2, Vote: "up"}}, votes.CommentVotes)
}

func TestUserVotes_Errors(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodGet, "/users/7/votes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", message(t, body))

	status, body = env.do(t, http.MethodGet, "/users/7/votes", tokenFor(t, 9), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden: User ID does not match token", message(t, body))

	status, body = env.do(t, http.MethodGet, "/users/me/votes", tokenFor(t, 9), nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden: User ID does not match token", message(t, body))
}
