package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/longbox/longbox-server/internal/http/response"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/store"
	"github.com/longbox/longbox-server/internal/store/sqlite"
)

// ordinalRequest carries a story's position within a series.
type ordinalRequest struct {
	Ordinal int `json:"ordinal"`
}

// handleListSeries lists a library's series.
// GET /api/v1/libraries/{libraryID}/series
func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.SeriesIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	series, err := s.services.Catalog.ListSeries(r.Context(), chi.URLParam(r, "libraryID"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, series, s.logger)
}

// handleCreateSeries creates a series in a library.
// POST /api/v1/libraries/{libraryID}/series
func (s *Server) handleCreateSeries(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSeriesRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	series, err := s.services.Catalog.CreateSeries(r.Context(), chi.URLParam(r, "libraryID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, series, s.logger)
}

// handleGetSeries returns one series, with any requested includes.
// GET /api/v1/libraries/{libraryID}/series/{id}
func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.SeriesIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	series, err := s.services.Catalog.GetSeries(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, series, s.logger)
}

// handleUpdateSeries applies a partial update to a series.
// PATCH /api/v1/libraries/{libraryID}/series/{id}
func (s *Server) handleUpdateSeries(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateSeriesRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	series, err := s.services.Catalog.UpdateSeries(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, series, s.logger)
}

// handleDeleteSeries deletes a series and its memberships.
// DELETE /api/v1/libraries/{libraryID}/series/{id}
func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.services.Catalog.DeleteSeries(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, series, s.logger)
}

// handleIncludeStoryInSeries places a story in a series at the given
// ordinal. Re-linking an existing pair moves the story.
// PUT /api/v1/libraries/{libraryID}/series/{id}/stories/{storyID}
func (s *Server) handleIncludeStoryInSeries(w http.ResponseWriter, r *http.Request) {
	var req ordinalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	err := s.services.Associations.IncludeStoryInSeries(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"), req.Ordinal)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleExcludeStoryFromSeries removes a story from a series.
// DELETE /api/v1/libraries/{libraryID}/series/{id}/stories/{storyID}
func (s *Server) handleExcludeStoryFromSeries(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.ExcludeStoryFromSeries(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
