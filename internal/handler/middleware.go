package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/forumvotes/internal/service"
)

// bearerToken returns the second space-separated field of the
// Authorization header, or "" when there is none.
func bearerToken(r *http.Request) string {
	fields := strings.Split(r.Header.Get("Authorization"), " ")
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

var errNoToken = errors.New("no bearer token")

// identify resolves the calling user without writing a response.
func identify(r *http.Request, ids service.Identifier) (int64, error) {
	token := bearerToken(r)
	if token == "" {
		return 0, errNoToken
	}
	return ids.UserID(token)
}

// authenticate resolves the calling user. It writes 401 and reports false
// when the token is missing or cannot be read.
func authenticate(w http.ResponseWriter, r *http.Request, ids service.Identifier) (int64, bool) {
	userID, err := identify(r, ids)
	if err != nil {
		slog.Debug("reject token", "error", err)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return userID, true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// RequestLogger logs one line per request with its status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

const corsAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Access-Control-Allow-Origin, Authorization"

// CORS allows browser clients from origin and answers preflight requests.
func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit throttles mutating requests per client IP. Reads pass through.
func RateLimit(limiter *service.TokenBucket, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if !limiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
