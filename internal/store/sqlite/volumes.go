package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

// VolumeIncludes is the allow-list of eager-load relations for volumes.
var VolumeIncludes = []string{"authors", "stories"}

var volumeDef = entityDef[domain.Volume]{
	table: "volumes",
	name:  "volume",
	columns: []string{
		"id", "library_id", "name", "name_key", "type", "copyright",
		"isbn", "location", "digital", "active", "read",
		"created_at", "updated_at",
	},
	sortBy:   "name COLLATE NOCASE, id",
	nameKeys: []string{"name_key"},
	scoped:   true,
	scan:     scanVolume,
	bind: func(v *domain.Volume) []any {
		return []any{
			v.ID, v.LibraryID, v.Name, normalize.Fold(v.Name), string(v.Type),
			v.Copyright, v.ISBN, v.Location, v.Digital, v.Active, v.Read,
			formatTime(v.CreatedAt), formatTime(v.UpdatedAt),
		}
	},
	setOwner: func(v *domain.Volume, libraryID string) { v.LibraryID = libraryID },
}

// Attached in init to keep the entity defs out of each other's initializers.
func init() {
	volumeDef.loaders = map[string]func(context.Context, *Store, *domain.Volume) error{
		"authors": func(ctx context.Context, s *Store, v *domain.Volume) error {
			var err error
			v.Authors, err = s.VolumeAuthors(ctx, v.ID)
			return err
		},
		"stories": func(ctx context.Context, s *Store, v *domain.Volume) error {
			var err error
			v.Stories, err = s.VolumeStories(ctx, v.ID)
			return err
		},
	}
}

func scanVolume(row rowScanner) (*domain.Volume, error) {
	var (
		v                    domain.Volume
		nameKey, volType     string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&v.ID, &v.LibraryID, &v.Name, &nameKey, &volType,
		&v.Copyright, &v.ISBN, &v.Location, &v.Digital, &v.Active, &v.Read,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Type = domain.VolumeType(volType)
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVolumes returns the library's volumes matching the given options.
func (s *Store) ListVolumes(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Volume, error) {
	return listEntities(ctx, s, &volumeDef, libraryID, opts)
}

// GetVolume returns a volume owned by the given library.
func (s *Store) GetVolume(ctx context.Context, libraryID, id string, opts store.ListOptions) (*domain.Volume, error) {
	return getEntity(ctx, s, &volumeDef, libraryID, id, opts)
}

// CreateVolume inserts a volume under the given library.
func (s *Store) CreateVolume(ctx context.Context, libraryID string, v *domain.Volume) error {
	return insertEntity(ctx, s, &volumeDef, libraryID, v)
}

// UpdateVolume updates a volume owned by the given library.
func (s *Store) UpdateVolume(ctx context.Context, libraryID, id string, v *domain.Volume) error {
	v.ID = id
	v.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &volumeDef, libraryID, id, v)
}

// DeleteVolume removes a volume owned by the given library and returns it.
func (s *Store) DeleteVolume(ctx context.Context, libraryID, id string) (*domain.Volume, error) {
	return deleteEntity(ctx, s, &volumeDef, libraryID, id)
}
