package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jmoreau/eventplanner/backend/internal/auth"
	"github.com/jmoreau/eventplanner/backend/internal/domain"
)

// createEventRequest is the decode target for POST /events. It has no id or
// ownerId field, so client-supplied values for either are dropped during
// decoding instead of being checked and rejected.
type createEventRequest struct {
	Name           string        `json:"name"`
	Date           string        `json:"date"`
	Location       string        `json:"location"`
	Description    string        `json:"description"`
	Steps          []domain.Step `json:"steps"`
	GuestCount     *int          `json:"guestCount"`
	ConfirmedCount *int          `json:"confirmedCount"`
}

// handleGetEvents serves both list and single-event reads on GET /events.
// Without an id parameter it returns the caller's events (empty array for
// anonymous callers); with ?id= it returns that one event, requiring auth.
func (s *Server) handleGetEvents(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())

	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		events, err := s.events.List(r.Context(), caller)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "id must be a valid UUID")
		return
	}

	event, err := s.events.Get(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// handleCreateEvent serves POST /events. The identity check runs before the
// body is even decoded — an anonymous caller learns nothing about what a
// valid payload looks like.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	if caller.IsAnonymous() {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	event := domain.Event{
		Name:           req.Name,
		Date:           req.Date,
		Location:       req.Location,
		Description:    req.Description,
		Steps:          req.Steps,
		GuestCount:     req.GuestCount,
		ConfirmedCount: req.ConfirmedCount,
	}

	created, err := s.events.Create(r.Context(), caller, event)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateEvent serves PATCH /events?id=... with a partial body.
// EventPatch has no id or ownerId field, so neither can be smuggled in.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	if caller.IsAnonymous() {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	id, ok := requireIDParam(w, r)
	if !ok {
		return
	}

	var patch domain.EventPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return
	}

	updated, err := s.events.Update(r.Context(), caller, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteEvent serves DELETE /events?id=... and responds 204 on success.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	caller := auth.IdentityFrom(r.Context())
	if caller.IsAnonymous() {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "authentication required")
		return
	}

	id, ok := requireIDParam(w, r)
	if !ok {
		return
	}

	if err := s.events.Delete(r.Context(), caller, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireIDParam extracts and parses the mandatory ?id= query parameter,
// writing the 400 response itself when the parameter is missing or malformed.
func requireIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	rawID := r.URL.Query().Get("id")
	if rawID == "" {
		writeError(w, http.StatusBadRequest, codeMissingID, "id query parameter is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
