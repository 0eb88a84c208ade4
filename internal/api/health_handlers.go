package api

import (
	"net/http"

	"github.com/longbox/longbox-server/internal/http/response"
)

// handleHealth reports liveness and database reachability.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		s.logger.Error("health check failed", "error", err)
		response.Error(w, http.StatusServiceUnavailable, "database unreachable", s.logger)
		return
	}
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}
