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

// handleListStories lists a library's stories.
// GET /api/v1/libraries/{libraryID}/stories
func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.StoryIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	stories, err := s.services.Catalog.ListStories(r.Context(), chi.URLParam(r, "libraryID"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, stories, s.logger)
}

// handleCreateStory creates a story in a library.
// POST /api/v1/libraries/{libraryID}/stories
func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateStoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	story, err := s.services.Catalog.CreateStory(r.Context(), chi.URLParam(r, "libraryID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, story, s.logger)
}

// handleGetStory returns one story, with any requested includes.
// GET /api/v1/libraries/{libraryID}/stories/{id}
func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.StoryIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	story, err := s.services.Catalog.GetStory(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, story, s.logger)
}

// handleUpdateStory applies a partial update to a story.
// PATCH /api/v1/libraries/{libraryID}/stories/{id}
func (s *Server) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateStoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	story, err := s.services.Catalog.UpdateStory(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, story, s.logger)
}

// handleDeleteStory deletes a story and its credits and memberships.
// DELETE /api/v1/libraries/{libraryID}/stories/{id}
func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	story, err := s.services.Catalog.DeleteStory(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, story, s.logger)
}
