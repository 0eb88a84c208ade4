package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/longbox/longbox-server/internal/http/response"
	"github.com/longbox/longbox-server/internal/service"
)

// handleSetupRequired reports whether the first-run setup is still open.
// GET /api/v1/auth/setup
func (s *Server) handleSetupRequired(w http.ResponseWriter, r *http.Request) {
	required, err := s.services.Auth.SetupRequired(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]bool{"setup_required": required}, s.logger)
}

// handleSetup creates the first superuser account and logs it in.
// POST /api/v1/auth/setup
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req service.SetupRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	resp, err := s.services.Auth.Setup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, resp, s.logger)
}

// handleLogin authenticates credentials and issues a token pair.
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	resp, err := s.services.Auth.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resp, s.logger)
}

// handleRefresh rotates a refresh token for a fresh token pair.
// POST /api/v1/auth/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req service.RefreshRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	resp, err := s.services.Auth.Refresh(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, resp, s.logger)
}

// handleLogout revokes the access token on the request, and with it the
// refresh token it anchors.
// POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		response.Unauthorized(w, "missing or malformed authorization header", s.logger)
		return
	}

	if err := s.services.Auth.Logout(r.Context(), token); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleMe returns the authenticated user.
// GET /api/v1/me
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	if user == nil {
		response.Unauthorized(w, "authentication required", s.logger)
		return
	}
	response.Success(w, user, s.logger)
}
