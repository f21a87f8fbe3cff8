package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

const (
	codeInvalidRequestBody = "invalid_request_body"
	codeValidationError    = "validation_error"
	codeMissingID          = "missing_id"
	codeInvalidID          = "invalid_id"
	codeUnauthenticated    = "unauthenticated"
	codeNotFound           = "not_found"
	codeInternalError      = "internal_error"
)

// errorResponse is the JSON body for every non-2xx response.
// Violations is present only for validation failures, one entry per field.
type errorResponse struct {
	Error      string                  `json:"error"`
	Code       string                  `json:"code"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps a service-layer error onto the wire.
// Authorization failures never appear here: the repo collapses them into
// ErrNotFound, and this mapping preserves that (no 403 is ever emitted, so a
// response can't confirm that someone else's event exists).
// Unrecognized errors are reported generically — store-level detail must not
// leak to the caller.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      "validation error",
			Code:       codeValidationError,
			Violations: verr.Violations,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "event not found")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
