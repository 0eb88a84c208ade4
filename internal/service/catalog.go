package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/id"
	"github.com/longbox/longbox-server/internal/store"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

// CatalogService manages the library-owned catalog entities: authors,
// series, stories, and volumes. Every operation is scoped to the library id
// from the request path; the store enforces that ownership on every query.
type CatalogService struct {
	store    *sqlite.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(s *sqlite.Store, validate *validation.Validator, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: s, validate: validate, logger: logger}
}

// Authors

// CreateAuthorRequest holds the fields for creating an author.
type CreateAuthorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Active    *bool  `json:"active"`
	Notes     string `json:"notes"`
}

// UpdateAuthorRequest holds the fields for a partial author update.
type UpdateAuthorRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Active    *bool   `json:"active"`
	Notes     *string `json:"notes"`
}

// CreateAuthor creates an author under the given library.
func (s *CatalogService) CreateAuthor(ctx context.Context, libraryID string, req CreateAuthorRequest) (*domain.Author, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Author{
		ID:        id.MustGenerate("author"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    true,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		a.Active = *req.Active
	}

	if err := s.store.CreateAuthor(ctx, libraryID, a); err != nil {
		return nil, err
	}
	s.logger.Info("author created", "library_id", libraryID, "author_id", a.ID)
	return a, nil
}

// UpdateAuthor applies a partial update to an author.
func (s *CatalogService) UpdateAuthor(ctx context.Context, libraryID, authorID string, req UpdateAuthorRequest) (*domain.Author, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	a, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}

	if err := s.store.UpdateAuthor(ctx, libraryID, authorID, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAuthor removes an author and their credits.
func (s *CatalogService) DeleteAuthor(ctx context.Context, libraryID, authorID string) (*domain.Author, error) {
	return s.store.DeleteAuthor(ctx, libraryID, authorID)
}

// GetAuthor returns an author, with any requested relation includes.
func (s *CatalogService) GetAuthor(ctx context.Context, libraryID, authorID string, opts store.ListOptions) (*domain.Author, error) {
	return s.store.GetAuthor(ctx, libraryID, authorID, opts)
}

// ListAuthors lists a library's authors.
func (s *CatalogService) ListAuthors(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Author, error) {
	return s.store.ListAuthors(ctx, libraryID, opts)
}

// Series

// CreateSeriesRequest holds the fields for creating a series.
type CreateSeriesRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Copyright int    `json:"copyright" validate:"omitempty,gte=1400"`
	Active    *bool  `json:"active"`
}

// UpdateSeriesRequest holds the fields for a partial series update.
type UpdateSeriesRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	Copyright *int    `json:"copyright" validate:"omitempty,gte=1400"`
	Active    *bool   `json:"active"`
}

// CreateSeries creates a series under the given library.
func (s *CatalogService) CreateSeries(ctx context.Context, libraryID string, req CreateSeriesRequest) (*domain.Series, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sr := &domain.Series{
		ID:        id.MustGenerate("series"),
		Name:      req.Name,
		Copyright: req.Copyright,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		sr.Active = *req.Active
	}

	if err := s.store.CreateSeries(ctx, libraryID, sr); err != nil {
		return nil, err
	}
	s.logger.Info("series created", "library_id", libraryID, "series_id", sr.ID)
	return sr, nil
}

// UpdateSeries applies a partial update to a series.
func (s *CatalogService) UpdateSeries(ctx context.Context, libraryID, seriesID string, req UpdateSeriesRequest) (*domain.Series, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	sr, err := s.store.GetSeries(ctx, libraryID, seriesID, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		sr.Name = *req.Name
	}
	if req.Copyright != nil {
		sr.Copyright = *req.Copyright
	}
	if req.Active != nil {
		sr.Active = *req.Active
	}

	if err := s.store.UpdateSeries(ctx, libraryID, seriesID, sr); err != nil {
		return nil, err
	}
	return sr, nil
}

// DeleteSeries removes a series; its story entries go with it.
func (s *CatalogService) DeleteSeries(ctx context.Context, libraryID, seriesID string) (*domain.Series, error) {
	return s.store.DeleteSeries(ctx, libraryID, seriesID)
}

// GetSeries returns a series, with any requested relation includes.
func (s *CatalogService) GetSeries(ctx context.Context, libraryID, seriesID string, opts store.ListOptions) (*domain.Series, error) {
	return s.store.GetSeries(ctx, libraryID, seriesID, opts)
}

// ListSeries lists a library's series.
func (s *CatalogService) ListSeries(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Series, error) {
	return s.store.ListSeries(ctx, libraryID, opts)
}

// Stories

// CreateStoryRequest holds the fields for creating a story.
type CreateStoryRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Copyright int    `json:"copyright" validate:"omitempty,gte=1400"`
	Active    *bool  `json:"active"`
}

// UpdateStoryRequest holds the fields for a partial story update.
type UpdateStoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	Copyright *int    `json:"copyright" validate:"omitempty,gte=1400"`
	Active    *bool   `json:"active"`
}

// CreateStory creates a story under the given library.
func (s *CatalogService) CreateStory(ctx context.Context, libraryID string, req CreateStoryRequest) (*domain.Story, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	st := &domain.Story{
		ID:        id.MustGenerate("story"),
		Name:      req.Name,
		Copyright: req.Copyright,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := s.store.CreateStory(ctx, libraryID, st); err != nil {
		return nil, err
	}
	s.logger.Info("story created", "library_id", libraryID, "story_id", st.ID)
	return st, nil
}

// UpdateStory applies a partial update to a story.
func (s *CatalogService) UpdateStory(ctx context.Context, libraryID, storyID string, req UpdateStoryRequest) (*domain.Story, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	st, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		st.Name = *req.Name
	}
	if req.Copyright != nil {
		st.Copyright = *req.Copyright
	}
	if req.Active != nil {
		st.Active = *req.Active
	}

	if err := s.store.UpdateStory(ctx, libraryID, storyID, st); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStory removes a story and its links.
func (s *CatalogService) DeleteStory(ctx context.Context, libraryID, storyID string) (*domain.Story, error) {
	return s.store.DeleteStory(ctx, libraryID, storyID)
}

// GetStory returns a story, with any requested relation includes.
func (s *CatalogService) GetStory(ctx context.Context, libraryID, storyID string, opts store.ListOptions) (*domain.Story, error) {
	return s.store.GetStory(ctx, libraryID, storyID, opts)
}

// ListStories lists a library's stories.
func (s *CatalogService) ListStories(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Story, error) {
	return s.store.ListStories(ctx, libraryID, opts)
}

// Volumes

// CreateVolumeRequest holds the fields for creating a volume.
type CreateVolumeRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Type      string `json:"type" validate:"omitempty,oneof=single collection anthology"`
	Copyright int    `json:"copyright" validate:"omitempty,gte=1400"`
	ISBN      string `json:"isbn" validate:"omitempty,max=20"`
	Location  string `json:"location" validate:"omitempty,max=200"`
	Digital   bool   `json:"digital"`
	Active    *bool  `json:"active"`
	Read      bool   `json:"read"`
}

// UpdateVolumeRequest holds the fields for a partial volume update.
type UpdateVolumeRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	Type      *string `json:"type" validate:"omitempty,oneof=single collection anthology"`
	Copyright *int    `json:"copyright" validate:"omitempty,gte=1400"`
	ISBN      *string `json:"isbn" validate:"omitempty,max=20"`
	Location  *string `json:"location" validate:"omitempty,max=200"`
	Digital   *bool   `json:"digital"`
	Active    *bool   `json:"active"`
	Read      *bool   `json:"read"`
}

// CreateVolume creates a volume under the given library.
func (s *CatalogService) CreateVolume(ctx context.Context, libraryID string, req CreateVolumeRequest) (*domain.Volume, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	v := &domain.Volume{
		ID:        id.MustGenerate("vol"),
		Name:      req.Name,
		Type:      domain.VolumeType(req.Type),
		Copyright: req.Copyright,
		ISBN:      req.ISBN,
		Location:  req.Location,
		Digital:   req.Digital,
		Active:    true,
		Read:      req.Read,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		v.Active = *req.Active
	}

	if err := s.store.CreateVolume(ctx, libraryID, v); err != nil {
		return nil, err
	}
	s.logger.Info("volume created", "library_id", libraryID, "volume_id", v.ID, "type", v.Type)
	return v, nil
}

// UpdateVolume applies a partial update to a volume. Changing the type does
// not retroactively add or remove cascaded story credits; only association
// operations move those.
func (s *CatalogService) UpdateVolume(ctx context.Context, libraryID, volumeID string, req UpdateVolumeRequest) (*domain.Volume, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	v, err := s.store.GetVolume(ctx, libraryID, volumeID, store.ListOptions{})
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Type != nil {
		t := domain.VolumeType(*req.Type)
		if !t.Valid() {
			return nil, errors.Validation("unknown volume type %q", *req.Type)
		}
		v.Type = t
	}
	if req.Copyright != nil {
		v.Copyright = *req.Copyright
	}
	if req.ISBN != nil {
		v.ISBN = *req.ISBN
	}
	if req.Location != nil {
		v.Location = *req.Location
	}
	if req.Digital != nil {
		v.Digital = *req.Digital
	}
	if req.Active != nil {
		v.Active = *req.Active
	}
	if req.Read != nil {
		v.Read = *req.Read
	}

	if err := s.store.UpdateVolume(ctx, libraryID, volumeID, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVolume removes a volume and its links.
func (s *CatalogService) DeleteVolume(ctx context.Context, libraryID, volumeID string) (*domain.Volume, error) {
	return s.store.DeleteVolume(ctx, libraryID, volumeID)
}

// GetVolume returns a volume, with any requested relation includes.
func (s *CatalogService) GetVolume(ctx context.Context, libraryID, volumeID string, opts store.ListOptions) (*domain.Volume, error) {
	return s.store.GetVolume(ctx, libraryID, volumeID, opts)
}

// ListVolumes lists a library's volumes.
func (s *CatalogService) ListVolumes(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Volume, error) {
	return s.store.ListVolumes(ctx, libraryID, opts)
}
