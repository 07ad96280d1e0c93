package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeError sends the message as a bare JSON string.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, message)
}

func writeInternalError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal Server Error")
}

// readJSON decodes the request body into the given destination.
func readJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// readBody decodes the request body into a T. A missing or malformed body
// yields the zero T, so field validation reports the problem instead.
func readBody[T any](r *http.Request) T {
	var v T
	if err := readJSON(r, &v); err != nil {
		var zero T
		return zero
	}
	return v
}
