package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/normalize"
	"github.com/longbox/longbox-server/internal/store"
)

// StoryIncludes is the allow-list of eager-load relations for stories.
var StoryIncludes = []string{"authors", "series", "volumes"}

var storyDef = entityDef[domain.Story]{
	table: "stories",
	name:  "story",
	columns: []string{
		"id", "library_id", "name", "name_key", "copyright", "active",
		"created_at", "updated_at",
	},
	sortBy:   "name COLLATE NOCASE, id",
	nameKeys: []string{"name_key"},
	scoped:   true,
	scan:     scanStory,
	bind: func(st *domain.Story) []any {
		return []any{
			st.ID, st.LibraryID, st.Name, normalize.Fold(st.Name),
			st.Copyright, st.Active,
			formatTime(st.CreatedAt), formatTime(st.UpdatedAt),
		}
	},
	setOwner: func(st *domain.Story, libraryID string) { st.LibraryID = libraryID },
}

// Attached in init to keep the entity defs out of each other's initializers.
func init() {
	storyDef.loaders = map[string]func(context.Context, *Store, *domain.Story) error{
		"authors": func(ctx context.Context, s *Store, st *domain.Story) error {
			var err error
			st.Authors, err = s.StoryAuthors(ctx, st.ID)
			return err
		},
		"series": func(ctx context.Context, s *Store, st *domain.Story) error {
			var err error
			st.Series, err = s.StorySeries(ctx, st.ID)
			return err
		},
		"volumes": func(ctx context.Context, s *Store, st *domain.Story) error {
			var err error
			st.Volumes, err = s.StoryVolumes(ctx, st.ID)
			return err
		},
	}
}

func scanStory(row rowScanner) (*domain.Story, error) {
	var (
		st                   domain.Story
		nameKey              string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&st.ID, &st.LibraryID, &st.Name, &nameKey, &st.Copyright, &st.Active,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if st.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// ListStories returns the library's stories matching the given options.
func (s *Store) ListStories(ctx context.Context, libraryID string, opts store.ListOptions) ([]*domain.Story, error) {
	return listEntities(ctx, s, &storyDef, libraryID, opts)
}

// GetStory returns a story owned by the given library.
func (s *Store) GetStory(ctx context.Context, libraryID, id string, opts store.ListOptions) (*domain.Story, error) {
	return getEntity(ctx, s, &storyDef, libraryID, id, opts)
}

// CreateStory inserts a story under the given library.
func (s *Store) CreateStory(ctx context.Context, libraryID string, st *domain.Story) error {
	return insertEntity(ctx, s, &storyDef, libraryID, st)
}

// UpdateStory updates a story owned by the given library.
func (s *Store) UpdateStory(ctx context.Context, libraryID, id string, st *domain.Story) error {
	st.ID = id
	st.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &storyDef, libraryID, id, st)
}

// DeleteStory removes a story owned by the given library and returns it.
func (s *Store) DeleteStory(ctx context.Context, libraryID, id string) (*domain.Story, error) {
	return deleteEntity(ctx, s, &storyDef, libraryID, id)
}
