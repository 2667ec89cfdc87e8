package api

import (
	"net/http"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/go-chi/chi/v5"
)

// activitiesHandler groups activity HTTP handlers.
type activitiesHandler struct {
	activities *activity.Service
}

func newActivitiesHandler(activities *activity.Service) *activitiesHandler {
	return &activitiesHandler{activities: activities}
}

// CreateActivity handles POST /api/v1/activities.
func (h *activitiesHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activity.CreateActivityInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	a, err := h.activities.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListActivities handles GET /api/v1/activities. An optional user_email
// query parameter narrows the listing to a single user's feed.
func (h *activitiesHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	var (
		activities []*activity.Activity
		err        error
	)
	if email := r.URL.Query().Get("user_email"); email != "" {
		activities, err = h.activities.ListByUserEmail(r.Context(), email)
	} else {
		activities, err = h.activities.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})
}

// GetActivity handles GET /api/v1/activities/{id}.
func (h *activitiesHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.activities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateActivity handles PUT /api/v1/activities/{id}.
func (h *activitiesHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req activity.UpdateActivityInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	a, err := h.activities.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteActivity handles DELETE /api/v1/activities/{id}.
func (h *activitiesHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.activities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
