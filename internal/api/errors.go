package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vbtech/vbadmin/internal/domain"
	"github.com/vbtech/vbadmin/internal/repository"
)

// errorResponse is the JSON body returned for every failed request. Fields is
// populated for validation failures (keyed by input name with a message) and
// for duplicate collisions (display names of every colliding field).
type errorResponse struct {
	Error  string `json:"error"`
	Fields any    `json:"fields,omitempty"`
}

// writeError maps the action layer's error taxonomy onto HTTP statuses. The
// categories stay distinct so clients can render field errors, a denial
// dialog, or a duplicate warning without parsing messages.
func writeError(w http.ResponseWriter, err error) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "validation failed", Fields: valErr.Fields})
		return
	}
	var authErr *domain.AuthorizationError
	if errors.As(err, &authErr) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: authErr.Error()})
		return
	}
	var dupErr *domain.DuplicateError
	if errors.As(err, &dupErr) {
		writeJSON(w, http.StatusConflict, errorResponse{Error: dupErr.Error(), Fields: dupErr.Fields})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	// Infrastructure details stay out of responses.
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
