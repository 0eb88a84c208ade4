package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

// AuthorIncludes is the allow-list of eager-load relations for authors.
var AuthorIncludes = []string{"series", "stories", "volumes"}

var authorDef = entityDef[domain.Author]{
	table: "authors",
	name:  "author",
	columns: []string{
		"id", "library_id", "first_name", "last_name",
		"first_name_key", "last_name_key", "active", "notes",
		"created_at", "updated_at",
	},
	sortBy:   "last_name COLLATE NOCASE, first_name COLLATE NOCASE, id",
	nameKeys: []string{"first_name_key", "last_name_key"},
	scoped:   true,
	scan:     scanAuthor,
	bind: func(a *domain.Author) []any {
		return []any{
			a.ID, a.LibraryID, a.FirstName, a.LastName,
			normalize.Fold(a.FirstName), normalize.Fold(a.LastName),
			a.Active, a.Notes,
			formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
		}
	},
	setOwner: func(a *domain.Author, libraryID string) { a.LibraryID = libraryID },
}

// Loaders are attached in init: the closures reach link readers whose scans
// touch the other entity defs, which would otherwise make the package-level
// initializers cyclic.
func init() {
	authorDef.loaders = map[string]func(context.Context, *Store, *domain.Author) error{
		"series": func(ctx context.Context, s *Store, a *domain.Author) error {
			var err error
			a.Series, err = s.AuthorSeries(ctx, a.ID)
			return err
		},
		"stories": func(ctx context.Context, s *Store, a *domain.Author) error {
			var err error
			a.Stories, err = s.AuthorStories(ctx, a.ID)
			return err
		},
		"volumes": func(ctx context.Context, s *Store, a *domain.Author) error {
			var err error
			a.Volumes, err = s.AuthorVolumes(ctx, a.ID)
			return err
		},
	}
}

func scanAuthor(row rowScanner) (*domain.Author, error) {
	var (
		a                        domain.Author
		firstKey, lastKey        string
		createdAt, updatedAt     string
	)
	err := row.Scan(
		&a.ID, &a.LibraryID, &a.FirstName, &a.LastName,
		&firstKey, &lastKey, &a.Active, &a.Notes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAuthors returns the library's authors matching the given options.
func (s *Store) ListAuthors(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Author, error) {
	return listEntities(ctx, s, &authorDef, libraryID, opts)
}

// GetAuthor returns an author owned by the given library.
func (s *Store) GetAuthor(ctx context.Context, libraryID, id string, opts store.ListOptions) (*domain.Author, error) {
	return getEntity(ctx, s, &authorDef, libraryID, id, opts)
}

// CreateAuthor inserts an author under the given library. The library id in
// the payload is overwritten by the path value.
func (s *Store) CreateAuthor(ctx context.Context, libraryID string, a *domain.Author) error {
	return insertEntity(ctx, s, &authorDef, libraryID, a)
}

// UpdateAuthor updates an author owned by the given library.
func (s *Store) UpdateAuthor(ctx context.Context, libraryID, id string, a *domain.Author) error {
	a.ID = id
	a.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &authorDef, libraryID, id, a)
}

// DeleteAuthor removes an author owned by the given library and returns it.
func (s *Store) DeleteAuthor(ctx context.Context, libraryID, id string) (*domain.Author, error) {
	return deleteEntity(ctx, s, &authorDef, libraryID, id)
}
