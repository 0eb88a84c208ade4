// Package service provides the business logic layer between the HTTP
// handlers and the store.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/id"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/store"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

// LibraryService manages libraries, the tenant boundary of the catalog.
type LibraryService struct {
	store    *sqlite.Store
	scopes   *scope.Resolver
	validate *validation.Validator
	logger   *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(s *sqlite.Store, scopes *scope.Resolver, validate *validation.Validator, logger *slog.Logger) *LibraryService {
	return &LibraryService{store: s, scopes: scopes, validate: validate, logger: logger}
}

// CreateLibraryRequest holds the fields for creating a library.
type CreateLibraryRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Scope  string `json:"scope" validate:"required,max=50"`
	Active *bool  `json:"active"`
	Notes  string `json:"notes"`
}

// UpdateLibraryRequest holds the fields for a partial library update.
type UpdateLibraryRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=200"`
	Scope  *string `json:"scope" validate:"omitempty,max=50"`
	Active *bool   `json:"active"`
	Notes  *string `json:"notes"`
}

// validScopeToken enforces the shape permission strings depend on: a scope
// is a single lowercase token, and never the reserved superuser word.
func validScopeToken(s string) error {
	if len(strings.Fields(s)) != 1 || s != strings.ToLower(s) {
		return errors.Validation("scope must be a single lowercase token")
	}
	if s == domain.ScopeSuperuser {
		return errors.Validation("scope %q is reserved", domain.ScopeSuperuser)
	}
	return nil
}

// Create creates a new library.
func (s *LibraryService) Create(ctx context.Context, req CreateLibraryRequest) (*domain.Library, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	if err := validScopeToken(req.Scope); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	l := &domain.Library{
		ID:        id.MustGenerate("lib"),
		Name:      req.Name,
		Scope:     req.Scope,
		Active:    true,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Active != nil {
		l.Active = *req.Active
	}

	if err := s.store.CreateLibrary(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("library created", "library_id", l.ID, "name", l.Name, "scope", l.Scope)
	return l, nil
}

// Update applies a partial update. A scope change invalidates the scope
// cache so permission checks pick up the new token immediately.
func (s *LibraryService) Update(ctx context.Context, libraryID string, req UpdateLibraryRequest) (*domain.Library, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	l, err := s.store.GetLibrary(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Scope != nil {
		if err := validScopeToken(*req.Scope); err != nil {
			return nil, err
		}
		l.Scope = *req.Scope
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	if req.Notes != nil {
		l.Notes = *req.Notes
	}

	if err := s.store.UpdateLibrary(ctx, libraryID, l); err != nil {
		return nil, err
	}
	s.scopes.Invalidate(libraryID)

	s.logger.Info("library updated", "library_id", libraryID, "scope", l.Scope)
	return l, nil
}

// Delete removes a library and, via store cascades, everything it owns.
func (s *LibraryService) Delete(ctx context.Context, libraryID string) (*domain.Library, error) {
	l, err := s.store.DeleteLibrary(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	s.scopes.Invalidate(libraryID)

	s.logger.Info("library deleted", "library_id", libraryID, "name", l.Name)
	return l, nil
}

// Get returns a library by id.
func (s *LibraryService) Get(ctx context.Context, libraryID string) (*domain.Library, error) {
	return s.store.GetLibrary(ctx, libraryID)
}

// List returns libraries matching the given options.
func (s *LibraryService) List(ctx context.Context, opts store.ListOptions) ([]*domain.Library, error) {
	return s.store.ListLibraries(ctx, opts)
}
