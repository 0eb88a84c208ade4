package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

var libraryDef = entityDef[domain.Library]{
	table:    "libraries",
	name:     "library",
	columns:  []string{"id", "name", "name_key", "scope", "active", "notes", "created_at", "updated_at"},
	sortBy:   "name COLLATE NOCASE, id",
	nameKeys: []string{"name_key"},
	scan:     scanLibrary,
	bind: func(l *domain.Library) []any {
		return []any{
			l.ID, l.Name, normalize.Fold(l.Name), l.Scope, l.Active, l.Notes,
			formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
		}
	},
}

func scanLibrary(row rowScanner) (*domain.Library, error) {
	var (
		l                    domain.Library
		nameKey              string
		createdAt, updatedAt string
	)
	if err := row.Scan(&l.ID, &l.Name, &nameKey, &l.Scope, &l.Active, &l.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLibraries returns libraries matching the given options.
func (s *Store) ListLibraries(ctx context.Context, opts store.ListOptions) ([]*domain.Library, error) {
	return listEntities(ctx, s, &libraryDef, "", opts)
}

// GetLibrary returns a library by id.
func (s *Store) GetLibrary(ctx context.Context, id string) (*domain.Library, error) {
	return getEntity(ctx, s, &libraryDef, "", id, store.ListOptions{})
}

// CreateLibrary inserts a new library. The uniqueness check and the insert
// run in one transaction so a concurrent create cannot slip between them;
// any failure rolls the whole write back.
func (s *Store) CreateLibrary(ctx context.Context, l *domain.Library) error {
	const op = "library.create"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	defer tx.Rollback()

	var n int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM libraries WHERE name = ? OR scope = ?`, l.Name, l.Scope,
	).Scan(&n)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	if n > 0 {
		return errors.Conflict("library name and scope must be unique").WithContext(op)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO libraries (id, name, name_key, scope, active, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		libraryDef.bind(l)...,
	)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	if err := tx.Commit(); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// UpdateLibrary updates a library in place.
func (s *Store) UpdateLibrary(ctx context.Context, id string, l *domain.Library) error {
	l.ID = id
	l.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &libraryDef, "", id, l)
}

// DeleteLibrary removes a library and, through foreign keys, every scoped
// entity it owns. Returns the removed library.
func (s *Store) DeleteLibrary(ctx context.Context, id string) (*domain.Library, error) {
	return deleteEntity(ctx, s, &libraryDef, "", id)
}
