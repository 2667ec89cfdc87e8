package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aperrin/fitledger/internal/activity"
	"github.com/aperrin/fitledger/internal/store"
	"github.com/aperrin/fitledger/internal/team"
	"github.com/aperrin/fitledger/internal/user"
	"github.com/aperrin/fitledger/internal/workout"
)

// maxBodySize is the maximum allowed request body size (1 MB).
const maxBodySize = 1 << 20

// errorEnvelope is the standard error response shape.
type errorEnvelope struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a JSON error response with the given status code.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// readJSON decodes the request body into v, enforcing a size limit.
func readJSON(r *http.Request, v interface{}) error {
	lr := io.LimitReader(r.Body, maxBodySize)
	return json.NewDecoder(lr).Decode(v)
}

// validationErrors is the set of sentinels that map to 422 responses.
var validationErrors = []error{
	user.ErrNameRequired,
	user.ErrEmailInvalid,
	user.ErrPointsInvalid,
	team.ErrNameRequired,
	activity.ErrUserEmailRequired,
	activity.ErrTypeRequired,
	activity.ErrDurationInvalid,
	activity.ErrPointsInvalid,
	workout.ErrNameRequired,
	workout.ErrDescriptionRequired,
	workout.ErrDifficultyInvalid,
	workout.ErrDurationInvalid,
	workout.ErrPointsValueInvalid,
}

// writeServiceError maps a service error to the response envelope:
// validation sentinels become 422, missing records 404, uniqueness
// conflicts 409, anything else a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", sentinel.Error())
			return
		}
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
