package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/longbox/longbox-server/internal/http/response"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/store"
)

// handleListLibraries lists all libraries.
// GET /api/v1/libraries
func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), nil)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	libraries, err := s.services.Libraries.List(r.Context(), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, libraries, s.logger)
}

// handleCreateLibrary creates a library.
// POST /api/v1/libraries
func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLibraryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	library, err := s.services.Libraries.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, library, s.logger)
}

// handleGetLibrary returns one library.
// GET /api/v1/libraries/{libraryID}
func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	library, err := s.services.Libraries.Get(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, library, s.logger)
}

// handleUpdateLibrary applies a partial update to a library.
// PATCH /api/v1/libraries/{libraryID}
func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateLibraryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	library, err := s.services.Libraries.Update(r.Context(), chi.URLParam(r, "libraryID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, library, s.logger)
}

// handleDeleteLibrary deletes a library and, through the schema's cascades,
// everything catalogued under it.
// DELETE /api/v1/libraries/{libraryID}
func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	library, err := s.services.Libraries.Delete(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, library, s.logger)
}
