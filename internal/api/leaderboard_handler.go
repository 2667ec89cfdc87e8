package api

import (
	"net/http"

	"github.com/aperrin/fitledger/internal/leaderboard"
	"github.com/go-chi/chi/v5"
)

// leaderboardHandler groups leaderboard HTTP handlers.
type leaderboardHandler struct {
	board *leaderboard.Service
}

func newLeaderboardHandler(board *leaderboard.Service) *leaderboardHandler {
	return &leaderboardHandler{board: board}
}

// ListEntries handles GET /api/v1/leaderboard. Entries come back in rank
// order, ranks dense starting at 1.
func (h *leaderboardHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.board.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// GetEntry handles GET /api/v1/leaderboard/{email}.
func (h *leaderboardHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := h.board.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Rebuild handles POST /api/v1/leaderboard/rebuild. It forces a full
// recomputation of the board and returns the fresh standings.
func (h *leaderboardHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if err := h.board.Rebuild(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	entries, err := h.board.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}
