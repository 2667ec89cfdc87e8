package api

import (
	"net/http"

	"github.com/aperrin/fitledger/internal/workout"
	"github.com/go-chi/chi/v5"
)

// workoutsHandler groups workout HTTP handlers.
type workoutsHandler struct {
	workouts *workout.Service
}

func newWorkoutsHandler(workouts *workout.Service) *workoutsHandler {
	return &workoutsHandler{workouts: workouts}
}

// CreateWorkout handles POST /api/v1/workouts.
func (h *workoutsHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workout.CreateWorkoutInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	wk, err := h.workouts.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wk)
}

// ListWorkouts handles GET /api/v1/workouts.
func (h *workoutsHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.workouts.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"workouts": workouts})
}

// GetWorkout handles GET /api/v1/workouts/{id}.
func (h *workoutsHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := h.workouts.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// UpdateWorkout handles PUT /api/v1/workouts/{id}.
func (h *workoutsHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workout.UpdateWorkoutInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	wk, err := h.workouts.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

// DeleteWorkout handles DELETE /api/v1/workouts/{id}.
func (h *workoutsHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if err := h.workouts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
