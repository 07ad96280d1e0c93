package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/forumvotes/internal/handler"
	"github.com/msomdec/forumvotes/internal/repository/sqlite"
	"github.com/msomdec/forumvotes/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type testEnv struct {
	srv  *httptest.Server
	db   *sqlite.DB
	auth *service.AuthService
}

// newTestEnv starts a server over a freshly seeded store. Tokens are
// decoded, not verified, unless verify is set.
func newTestEnv(t *testing.T, verify bool) *testEnv {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(context.Background()))

	fixtures := service.NewFixtureService(db, 4)
	require.NoError(t, fixtures.Seed(context.Background()))

	auth := service.NewAuthService(db.Users(), testJWTSecret, 4, time.Hour)
	var identity service.Identifier = service.NewTokenDecoder()
	if verify {
		identity = auth
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Identity: identity,
		Auth:     auth,
		Votes:    service.NewVoteService(db.Votes(), db.Posts()),
		Comments: service.NewCommentService(db.Posts()),
		Views:    service.NewViewService(db.Posts(), db.Votes(), db.Users()),
		Fixtures: fixtures,
	})

	srv := httptest.NewServer(handler.CORS("*", mux))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: db, auth: auth}
}

// withServices starts another server over e's store whose routes use s.
// Nil vote, comment and view services default to ones over the store.
func (e *testEnv) withServices(t *testing.T, s handler.Services) *testEnv {
	t.Helper()
	if s.Identity == nil {
		s.Identity = service.NewTokenDecoder()
	}
	if s.Votes == nil {
		s.Votes = service.NewVoteService(e.db.Votes(), e.db.Posts())
	}
	if s.Comments == nil {
		s.Comments = service.NewCommentService(e.db.Posts())
	}
	if s.Views == nil {
		s.Views = service.NewViewService(e.db.Posts(), e.db.Votes(), e.db.Users())
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, s)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, db: e.db, auth: e.auth}
}

// tokenFor returns an unverified-style token whose sub is userID.
func tokenFor(t *testing.T, userID int64) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
	}).SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)
	return token
}

// do sends a request and returns the status and raw body. A non-empty
// token is sent as a bearer token; a non-nil body is JSON encoded unless
// it is already a string.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

// message decodes a JSON string body.
func message(t *testing.T, body []byte) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(body, &msg), "body: %s", body)
	return msg
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}
