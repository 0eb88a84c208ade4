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

// handleListVolumes lists a library's volumes.
// GET /api/v1/libraries/{libraryID}/volumes
func (s *Server) handleListVolumes(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.VolumeIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	volumes, err := s.services.Catalog.ListVolumes(r.Context(), chi.URLParam(r, "libraryID"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, volumes, s.logger)
}

// handleCreateVolume creates a volume in a library.
// POST /api/v1/libraries/{libraryID}/volumes
func (s *Server) handleCreateVolume(w http.ResponseWriter, r *http.Request) {
	var req service.CreateVolumeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	volume, err := s.services.Catalog.CreateVolume(r.Context(), chi.URLParam(r, "libraryID"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, volume, s.logger)
}

// handleGetVolume returns one volume, with any requested includes.
// GET /api/v1/libraries/{libraryID}/volumes/{id}
func (s *Server) handleGetVolume(w http.ResponseWriter, r *http.Request) {
	opts, err := store.ParseListOptions(store.ListOptions{}, r.URL.Query(), sqlite.VolumeIncludes)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	volume, err := s.services.Catalog.GetVolume(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), opts)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, volume, s.logger)
}

// handleUpdateVolume applies a partial update to a volume.
// PATCH /api/v1/libraries/{libraryID}/volumes/{id}
func (s *Server) handleUpdateVolume(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateVolumeRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "invalid request body", s.logger)
		return
	}

	volume, err := s.services.Catalog.UpdateVolume(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, volume, s.logger)
}

// handleDeleteVolume deletes a volume and its credits and contents.
// DELETE /api/v1/libraries/{libraryID}/volumes/{id}
func (s *Server) handleDeleteVolume(w http.ResponseWriter, r *http.Request) {
	volume, err := s.services.Catalog.DeleteVolume(r.Context(), chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, volume, s.logger)
}

// handleAddStoryToVolume places a story in a volume. For single and
// anthology volumes the volume's author credits cascade to the story.
// PUT /api/v1/libraries/{libraryID}/volumes/{id}/stories/{storyID}
func (s *Server) handleAddStoryToVolume(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.AddStoryToVolume(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleRemoveStoryFromVolume removes a story from a volume.
// DELETE /api/v1/libraries/{libraryID}/volumes/{id}/stories/{storyID}
func (s *Server) handleRemoveStoryFromVolume(w http.ResponseWriter, r *http.Request) {
	err := s.services.Associations.RemoveStoryFromVolume(r.Context(),
		chi.URLParam(r, "libraryID"), chi.URLParam(r, "id"), chi.URLParam(r, "storyID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
