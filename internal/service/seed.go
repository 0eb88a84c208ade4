package service

import (
	"context"
	"log/slog"

	"github.com/longbox/longbox-server/internal/store/sqlite"
)

// Seeder populates a development database with a known scenario: a test
// library with one author credited across a single-type volume and the
// story it contains. Shared by cmd/seed and the reseed endpoint.
type Seeder struct {
	store        *sqlite.Store
	libraries    *LibraryService
	users        *UserService
	catalog      *CatalogService
	associations *AssociationService
	logger       *slog.Logger
}

// NewSeeder creates a seeder over the given services.
func NewSeeder(s *sqlite.Store, libraries *LibraryService, users *UserService, catalog *CatalogService, associations *AssociationService, logger *slog.Logger) *Seeder {
	return &Seeder{
		store:        s,
		libraries:    libraries,
		users:        users,
		catalog:      catalog,
		associations: associations,
		logger:       logger,
	}
}

// Reseed wipes the database and loads the development scenario.
func (s *Seeder) Reseed(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}

	active := true
	lib, err := s.libraries.Create(ctx, CreateLibraryRequest{
		Name: "Test Library", Scope: "test", Active: &active,
	})
	if err != nil {
		return err
	}

	seedUsers := []CreateUserRequest{
		{Username: "root", Password: "rootpassword", Scopes: "superuser"},
		{Username: "wilma", Password: "wilmapassword", Scopes: "test admin"},
		{Username: "barney", Password: "barneypassword", Scopes: "test regular"},
	}
	for _, req := range seedUsers {
		if _, err := s.users.Create(ctx, req); err != nil {
			return err
		}
	}

	fred, err := s.catalog.CreateAuthor(ctx, lib.ID, CreateAuthorRequest{
		FirstName: "Fred", LastName: "Flintstone",
	})
	if err != nil {
		return err
	}

	volume, err := s.catalog.CreateVolume(ctx, lib.ID, CreateVolumeRequest{
		Name: "Fred Volume", Type: "single",
	})
	if err != nil {
		return err
	}

	story, err := s.catalog.CreateStory(ctx, lib.ID, CreateStoryRequest{
		Name: "Fred Story",
	})
	if err != nil {
		return err
	}

	series, err := s.catalog.CreateSeries(ctx, lib.ID, CreateSeriesRequest{
		Name: "Fred Series",
	})
	if err != nil {
		return err
	}

	if err := s.associations.AddStoryToVolume(ctx, lib.ID, volume.ID, story.ID); err != nil {
		return err
	}
	// Cascades the credit onto the contained story.
	if err := s.associations.IncludeAuthorInVolume(ctx, lib.ID, fred.ID, volume.ID, true); err != nil {
		return err
	}
	if err := s.associations.IncludeStoryInSeries(ctx, lib.ID, series.ID, story.ID, 1); err != nil {
		return err
	}
	if err := s.associations.IncludeAuthorInSeries(ctx, lib.ID, fred.ID, series.ID, true); err != nil {
		return err
	}

	s.logger.Info("database reseeded", "library_id", lib.ID)
	return nil
}
