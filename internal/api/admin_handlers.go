package api

import (
	"net/http"

	"github.com/longbox/longbox-server/internal/http/response"
)

// handleReseed wipes the database and loads the development scenario. Only
// reachable outside production.
// POST /api/v1/admin/reseed
func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Seeder.Reseed(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]string{"status": "reseeded"}, s.logger)
}
