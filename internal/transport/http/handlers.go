package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStats reports process-wide room and participant totals
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"rooms":        s.registry.RoomCount(),
		"participants": s.registry.ParticipantCount(),
		"broadcast":    s.roomCount.Load(),
	})
}

// handleRoomExists lets a client check a code before attempting to join
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	s.writeJSON(w, http.StatusOK, map[string]any{
		"code":   code,
		"exists": s.registry.RoomExists(code),
	})
}

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Debug().Err(err).Msg("response encode failed")
	}
}
