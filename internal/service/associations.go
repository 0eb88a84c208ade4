package service

import (
	"context"
	"log/slog"

	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/store"
	"github.com/longbox/longbox-server/internal/store/sqlite"
)

// AssociationService manages the links between catalog entities: author
// credits on series, stories, and volumes, reading order within series, and
// story containment within volumes.
//
// Every operation verifies that both endpoints belong to the request's
// library before touching a link table; a cross-library id is NotFound.
// Including an author on a single or anthology volume cascades the credit to
// the volume's stories; excluding removes story credits for every volume
// type. Both run atomically with the volume-level link.
type AssociationService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewAssociationService creates a new association service.
func NewAssociationService(s *sqlite.Store, logger *slog.Logger) *AssociationService {
	return &AssociationService{store: s, logger: logger}
}

// IncludeAuthorInVolume credits an author on a volume. Re-including updates
// the principal flag. For cascading volume types the credit propagates to
// every story the volume contains, leaving already-present story credits
// untouched.
func (s *AssociationService) IncludeAuthorInVolume(ctx context.Context, libraryID, authorID, volumeID string, principal bool) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	v, err := s.store.GetVolume(ctx, libraryID, volumeID, store.ListOptions{})
	if err != nil {
		return err
	}

	cascade := v.Type.CascadesToStories()
	if err := s.store.IncludeAuthorInVolume(ctx, authorID, volumeID, principal, cascade); err != nil {
		return err
	}
	s.logger.Info("author included in volume",
		"library_id", libraryID, "author_id", authorID, "volume_id", volumeID,
		"principal", principal, "cascade", cascade)
	return nil
}

// ExcludeAuthorFromVolume removes an author's credit on a volume, together
// with their credits on the volume's stories. Unlike inclusion, the story
// cleanup happens for every volume type: a credit must not outlive the
// volume-level link that implied it, and collection volumes have no
// story-level credits worth keeping either.
func (s *AssociationService) ExcludeAuthorFromVolume(ctx context.Context, libraryID, authorID, volumeID string) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetVolume(ctx, libraryID, volumeID, store.ListOptions{}); err != nil {
		return err
	}

	if err := s.store.ExcludeAuthorFromVolume(ctx, authorID, volumeID, true); err != nil {
		return err
	}
	s.logger.Info("author excluded from volume",
		"library_id", libraryID, "author_id", authorID, "volume_id", volumeID)
	return nil
}

// IncludeAuthorInSeries credits an author on a series. Re-including updates
// the principal flag.
func (s *AssociationService) IncludeAuthorInSeries(ctx context.Context, libraryID, authorID, seriesID string, principal bool) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetSeries(ctx, libraryID, seriesID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.UpsertAuthorSeries(ctx, authorID, seriesID, principal)
}

// ExcludeAuthorFromSeries removes an author's credit on a series.
func (s *AssociationService) ExcludeAuthorFromSeries(ctx context.Context, libraryID, authorID, seriesID string) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetSeries(ctx, libraryID, seriesID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.DeleteAuthorSeries(ctx, authorID, seriesID)
}

// IncludeAuthorInStory credits an author directly on a story. Re-including
// updates the principal flag, overriding any cascaded value.
func (s *AssociationService) IncludeAuthorInStory(ctx context.Context, libraryID, authorID, storyID string, principal bool) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.UpsertAuthorStory(ctx, authorID, storyID, principal)
}

// ExcludeAuthorFromStory removes an author's credit on a story.
func (s *AssociationService) ExcludeAuthorFromStory(ctx context.Context, libraryID, authorID, storyID string) error {
	if _, err := s.store.GetAuthor(ctx, libraryID, authorID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.DeleteAuthorStory(ctx, authorID, storyID)
}

// IncludeStoryInSeries places a story in a series' reading order. Including
// a story that's already in the series updates its ordinal.
func (s *AssociationService) IncludeStoryInSeries(ctx context.Context, libraryID, seriesID, storyID string, ordinal int) error {
	if ordinal < 1 {
		return errors.Validation("ordinal must be a positive integer")
	}
	if _, err := s.store.GetSeries(ctx, libraryID, seriesID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.UpsertSeriesStory(ctx, seriesID, storyID, ordinal)
}

// ExcludeStoryFromSeries removes a story from a series' reading order.
func (s *AssociationService) ExcludeStoryFromSeries(ctx context.Context, libraryID, seriesID, storyID string) error {
	if _, err := s.store.GetSeries(ctx, libraryID, seriesID, store.ListOptions{}); err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.DeleteSeriesStory(ctx, seriesID, storyID)
}

// AddStoryToVolume records that a volume contains a story. For cascading
// volume types, authors already credited on the volume are credited on the
// story too.
func (s *AssociationService) AddStoryToVolume(ctx context.Context, libraryID, volumeID, storyID string) error {
	v, err := s.store.GetVolume(ctx, libraryID, volumeID, store.ListOptions{})
	if err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.AddVolumeStory(ctx, volumeID, storyID, v.Type.CascadesToStories())
}

// RemoveStoryFromVolume removes a story from a volume; for cascading
// volume types, credits the volume's authors held on that story go too.
func (s *AssociationService) RemoveStoryFromVolume(ctx context.Context, libraryID, volumeID, storyID string) error {
	v, err := s.store.GetVolume(ctx, libraryID, volumeID, store.ListOptions{})
	if err != nil {
		return err
	}
	if _, err := s.store.GetStory(ctx, libraryID, storyID, store.ListOptions{}); err != nil {
		return err
	}
	return s.store.RemoveVolumeStory(ctx, volumeID, storyID, v.Type.CascadesToStories())
}
