package handler

import (
	"net/http"

	"github.com/msomdec/forumvotes/internal/service"
)

// AdminHandler resets the store to one of the embedded fixtures.
type AdminHandler struct {
	fixtures *service.FixtureService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(fixtures *service.FixtureService) *AdminHandler {
	return &AdminHandler{fixtures: fixtures}
}

// HandleSeed loads the demo data set.
// POST /seedDB
func (h *AdminHandler) HandleSeed(w http.ResponseWriter, r *http.Request) {
	if err := h.fixtures.Seed(r.Context()); err != nil {
		writeInternalError(w, "seed database", err)
		return
	}
	writeJSON(w, http.StatusOK, "Database seeded successfully")
}

// HandleClear drops all posts and votes.
// POST /clearDb
func (h *AdminHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.fixtures.Clear(r.Context()); err != nil {
		writeInternalError(w, "clear database", err)
		return
	}
	writeJSON(w, http.StatusOK, "Database cleared successfully")
}
