package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/forumvotes/internal/handler"
)

func TestAdmin_ClearThenSeed(t *testing.T) {
	env := newTestEnv(t, false)

	status, body := env.do(t, http.MethodPost, "/clearDb", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Database cleared successfully", message(t, body))

	_, body = env.do(t, http.MethodGet, "/posts", "", nil)
	assert.JSONEq(t, `[]`, string(body))

	// Accounts survive the clear, so old tokens still list (empty) votes.
	status, body = env.do(t, http.MethodGet, "/users/3/votes", tokenFor(t, 3), nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"postVotes":[],"commentVotes":[]}`, string(body))

	status, body = env.do(t, http.MethodPost, "/seedDB", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Database seeded successfully", message(t, body))

	_, body = env.do(t, http.MethodGet, "/posts", "", nil)
	assert.Len(t, decode[[]handler.PostSummaryDTO](t, body), 3)
}

func TestAdmin_SeedUndoesChanges(t *testing.T) {
	env := newTestEnv(t, false)

	env.do(t, http.MethodPost, "/posts/1/votes", tokenFor(t, 7), map[string]string{"vote": "up"})
	env.do(t, http.MethodPost, "/seedDB", "", nil)

	_, body := env.do(t, http.MethodGet, "/posts/1", "", nil)
	assert.Equal(t, 2, decode[handler.PostDetailDTO](t, body).UpVote)
}

func TestAdmin_RoutesOmittedWithoutFixtures(t *testing.T) {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{})

	req := httptest.NewRequest(http.MethodPost, "/seedDB", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
