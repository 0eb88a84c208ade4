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

// principalRequest carries the principal-credit flag for author links.
type principalRequest struct {
	Principal bool `json:"principal"`
}

// handleListAuthors lists a library's authors.
// GET /api/v1/libraries/{libraryID}/authors
func (s *Server) handleListAuthors(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.AuthorIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	authors, err := s.services.Catalog.ListAuthors(r.Context(), chi.URLParam(r, "libraryID"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, authors, s.logger)
}

// handleCreateAuthor creates an author in a library.
// POST /api/v1/libraries/{libraryID}/authors
func (s *Server) handleCreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAuthorRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	author, err := s.services.Catalog.CreateAuthor(r.Context(), chi.URLParam(r, "libraryID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, author, s.logger)
}

// handleGetAuthor returns one author, with any requested includes.
// GET /api/v1/libraries/{libraryID}/authors/{id}
func (s *Server) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.AuthorIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	author, err := s.services.Catalog.GetAuthor(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, author, s.logger)
}

// handleUpdateAuthor applies a partial update to an author.
// PATCH /api/v1/libraries/{libraryID}/authors/{id}
func (s *Server) handleUpdateAuthor(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateAuthorRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	author, err := s.services.Catalog.UpdateAuthor(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, author, s.logger)
}

// handleDeleteAuthor deletes an author and its credits.
// DELETE /api/v1/libraries/{libraryID}/authors/{id}
func (s *Server) handleDeleteAuthor(w http.ResponseWriter, r *http.Request) {
	author, err := s.services.Catalog.DeleteAuthor(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, author, s.logger)
}

// handleIncludeAuthorInVolume credits an author on a volume. For single and
// anthology volumes the credit cascades to the contained stories.
// PUT /api/v1/libraries/{libraryID}/authors/{id}/volumes/{volumeID}
func (s *Server) handleIncludeAuthorInVolume(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	err := s.services.Associations.IncludeAuthorInVolume(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "volumeID"), req.Principal)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleExcludeAuthorFromVolume removes an author's volume credit and their
// credits on the volume's stories, whatever the volume type.
// DELETE /api/v1/libraries/{libraryID}/authors/{id}/volumes/{volumeID}
func (s *Server) handleExcludeAuthorFromVolume(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.ExcludeAuthorFromVolume(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "volumeID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleIncludeAuthorInSeries credits an author on a series.
// PUT /api/v1/libraries/{libraryID}/authors/{id}/series/{seriesID}
func (s *Server) handleIncludeAuthorInSeries(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	err := s.services.Associations.IncludeAuthorInSeries(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "seriesID"), req.Principal)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleExcludeAuthorFromSeries removes an author's series credit.
// DELETE /api/v1/libraries/{libraryID}/authors/{id}/series/{seriesID}
func (s *Server) handleExcludeAuthorFromSeries(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.ExcludeAuthorFromSeries(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "seriesID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleIncludeAuthorInStory credits an author directly on a story,
// overriding any cascaded principal flag.
// PUT /api/v1/libraries/{libraryID}/authors/{id}/stories/{storyID}
func (s *Server) handleIncludeAuthorInStory(w http.ResponseWriter, r *http.Request) {
	var req principalRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	err := s.services.Associations.IncludeAuthorInStory(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"), req.Principal)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleExcludeAuthorFromStory removes an author's story credit.
// DELETE /api/v1/libraries/{libraryID}/authors/{id}/stories/{storyID}
func (s *Server) handleExcludeAuthorFromStory(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.ExcludeAuthorFromStory(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
