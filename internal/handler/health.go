package handler

import "net/http"

// handleHealth is a liveness probe. It does not touch the database.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
