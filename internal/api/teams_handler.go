package api

import (
	"net/http"

	"github.com/aperrin/fitledger/internal/team"
	"github.com/go-chi/chi/v5"
)

// teamsHandler groups team HTTP handlers.
type teamsHandler struct {
	teams *team.Service
}

func newTeamsHandler(teams *team.Service) *teamsHandler {
	return &teamsHandler{teams: teams}
}

// CreateTeam handles POST /api/v1/teams.
func (h *teamsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req team.CreateTeamInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// ListTeams handles GET /api/v1/teams.
func (h *teamsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// GetTeam handles GET /api/v1/teams/{id}.
func (h *teamsHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	t, err := h.teams.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// UpdateTeam handles PUT /api/v1/teams/{id}.
func (h *teamsHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req team.UpdateTeamInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, err := h.teams.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTeam handles DELETE /api/v1/teams/{id}.
func (h *teamsHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	if err := h.teams.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
