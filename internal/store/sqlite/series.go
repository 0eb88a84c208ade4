package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

// SeriesIncludes is the allow-list of eager-load relations for series.
var SeriesIncludes = []string{"authors", "stories"}

var seriesDef = entityDef[domain.Series]{
	table: "series",
	name:  "series",
	columns: []string{
		"id", "library_id", "name", "name_key", "copyright", "active",
		"created_at", "updated_at",
	},
	sortBy:   "name COLLATE NOCASE, id",
	nameKeys: []string{"name_key"},
	scoped:   true,
	scan:     scanSeries,
	bind: func(sr *domain.Series) []any {
		return []any{
			sr.ID, sr.LibraryID, sr.Name, normalize.Fold(sr.Name),
			sr.Copyright, sr.Active,
			formatTime(sr.CreatedAt), formatTime(sr.UpdatedAt),
		}
	},
	setOwner: func(sr *domain.Series, libraryID string) { sr.LibraryID = libraryID },
}

// Attached in init to keep the entity defs out of each other's initializers.
func init() {
	seriesDef.loaders = map[string]func(context.Context, *Store, *domain.Series) error{
		"authors": func(ctx context.Context, s *Store, sr *domain.Series) error {
			var err error
			sr.Authors, err = s.SeriesAuthors(ctx, sr.ID)
			return err
		},
		"stories": func(ctx context.Context, s *Store, sr *domain.Series) error {
			var err error
			sr.Stories, err = s.SeriesStories(ctx, sr.ID)
			return err
		},
	}
}

func scanSeries(row rowScanner) (*domain.Series, error) {
	var (
		sr                   domain.Series
		nameKey              string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&sr.ID, &sr.LibraryID, &sr.Name, &nameKey, &sr.Copyright, &sr.Active,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sr.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sr.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sr, nil
}

// ListSeries returns the library's series matching the given options.
func (s *Store) ListSeries(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Series, error) {
	return listEntities(ctx, s, &seriesDef, libraryID, opts)
}

// GetSeries returns a series owned by the given library.
func (s *Store) GetSeries(ctx context.Context, libraryID, id string, opts store.ListOptions) (*domain.Series, error) {
	return getEntity(ctx, s, &seriesDef, libraryID, id, opts)
}

// CreateSeries inserts a series under the given library.
func (s *Store) CreateSeries(ctx context.Context, libraryID string, sr *domain.Series) error {
	return insertEntity(ctx, s, &seriesDef, libraryID, sr)
}

// UpdateSeries updates a series owned by the given library.
func (s *Store) UpdateSeries(ctx context.Context, libraryID, id string, sr *domain.Series) error {
	sr.ID = id
	sr.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &seriesDef, libraryID, id, sr)
}

// DeleteSeries removes a series owned by the given library and returns it.
func (s *Store) DeleteSeries(ctx context.Context, libraryID, id string) (*domain.Series, error) {
	return deleteEntity(ctx, s, &seriesDef, libraryID, id)
}
