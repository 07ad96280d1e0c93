package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msomdec/forumvotes/internal/handler"
	"github.com/msomdec/forumvotes/internal/service"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called for preflight")
	})

	req := httptest.NewRequest(http.MethodOptions, "/posts/1/votes", nil)
	w := httptest.NewRecorder()
	handler.CORS("https://forum.example", inner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://forum.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_PassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	handler.CORS("*", okHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limited := handler.RateLimit(service.NewTokenBucket(ctx, 0, 2), okHandler())

	send := func(method, remote string) int {
		req := httptest.NewRequest(method, "/posts/1/votes", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, send(http.MethodPost, "10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, send(http.MethodPost, "10.0.0.1:5002"))

	// Reads are never throttled and other clients have their own budget.
	assert.Equal(t, http.StatusOK, send(http.MethodGet, "10.0.0.1:5003"))
	assert.Equal(t, http.StatusOK, send(http.MethodDelete, "10.0.0.2:5000"))
}

func TestRequestLogger_PreservesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	w := httptest.NewRecorder()
	handler.RequestLogger(inner).ServeHTTP(w, req)

	assert.Equal(t, http.StatusTeapot, w.Code)
}
