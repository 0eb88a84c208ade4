package sqlite

import (
	"context"

	"github.com/longbox/longbox-server/internal/domain"
)

// Link mutations are idempotent where the association layer needs them to
// be: upserts refresh the principal flag on re-link, deletes of absent rows
// succeed quietly. Ownership of both endpoints is checked by the caller
// before any of these run.

// IncludeAuthorInVolume links an author to a volume, updating the principal
// flag when the link already exists. With cascade set, the same credit is
// propagated to every story the volume contains, in one transaction with
// the volume-level link; story links that already exist are left alone.
func (s *Store) IncludeAuthorInVolume(ctx context.Context, authorID, volumeID string, principal, cascade bool) error {
	const op = "author_volume.link"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO author_volumes (author_id, volume_id, principal)
		VALUES (?, ?, ?)
		ON CONFLICT (author_id, volume_id) DO UPDATE SET principal = excluded.principal`,
		authorID, volumeID, principal)
	if err != nil {
		return translateErr(err).WithContext(op)
	}

	if cascade {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO author_stories (author_id, story_id, principal)
			SELECT ?, story_id, ? FROM volume_stories WHERE volume_id = ?
			ON CONFLICT (author_id, story_id) DO NOTHING`,
			authorID, principal, volumeID)
		if err != nil {
			return translateErr(err).WithContext(op)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// ExcludeAuthorFromVolume removes an author-volume link. With cascade set,
// the author's credits on the volume's stories go too, atomically with the
// volume-level unlink. Removing an absent link is not an error.
func (s *Store) ExcludeAuthorFromVolume(ctx context.Context, authorID, volumeID string, cascade bool) error {
	const op = "author_volume.unlink"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx,
		`DELETE FROM author_volumes WHERE author_id = ? AND volume_id = ?`, authorID, volumeID)
	if err != nil {
		return translateErr(err).WithContext(op)
	}

	if cascade {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM author_stories
			WHERE author_id = ?
			  AND story_id IN (SELECT story_id FROM volume_stories WHERE volume_id = ?)`,
			authorID, volumeID)
		if err != nil {
			return translateErr(err).WithContext(op)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// UpsertAuthorSeries links an author to a series, updating the principal
// flag when the link already exists.
func (s *Store) UpsertAuthorSeries(ctx context.Context, authorID, seriesID string, principal bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO author_series (author_id, series_id, principal)
		VALUES (?, ?, ?)
		ON CONFLICT (author_id, series_id) DO UPDATE SET principal = excluded.principal`,
		authorID, seriesID, principal)
	if err != nil {
		return translateErr(err).WithContext("author_series.link")
	}
	return nil
}

// UpsertAuthorStory links an author to a story, updating the principal flag
// when the link already exists.
func (s *Store) UpsertAuthorStory(ctx context.Context, authorID, storyID string, principal bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO author_stories (author_id, story_id, principal)
		VALUES (?, ?, ?)
		ON CONFLICT (author_id, story_id) DO UPDATE SET principal = excluded.principal`,
		authorID, storyID, principal)
	if err != nil {
		return translateErr(err).WithContext("author_story.link")
	}
	return nil
}

// DeleteAuthorSeries removes an author-series link. Removing an absent link
// is not an error.
func (s *Store) DeleteAuthorSeries(ctx context.Context, authorID, seriesID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM author_series WHERE author_id = ? AND series_id = ?`, authorID, seriesID)
	if err != nil {
		return translateErr(err).WithContext("author_series.unlink")
	}
	return nil
}

// DeleteAuthorStory removes an author-story link. Removing an absent link
// is not an error.
func (s *Store) DeleteAuthorStory(ctx context.Context, authorID, storyID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM author_stories WHERE author_id = ? AND story_id = ?`, authorID, storyID)
	if err != nil {
		return translateErr(err).WithContext("author_story.unlink")
	}
	return nil
}

// UpsertSeriesStory places a story in a series at the given reading order,
// updating the ordinal when the story is already in the series.
func (s *Store) UpsertSeriesStory(ctx context.Context, seriesID, storyID string, ordinal int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO series_stories (series_id, story_id, ordinal)
		VALUES (?, ?, ?)
		ON CONFLICT (series_id, story_id) DO UPDATE SET ordinal = excluded.ordinal`,
		seriesID, storyID, ordinal)
	if err != nil {
		return translateErr(err).WithContext("series_story.link")
	}
	return nil
}

// DeleteSeriesStory removes a story from a series. Removing an absent entry
// is not an error.
func (s *Store) DeleteSeriesStory(ctx context.Context, seriesID, storyID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM series_stories WHERE series_id = ? AND story_id = ?`, seriesID, storyID)
	if err != nil {
		return translateErr(err).WithContext("series_story.unlink")
	}
	return nil
}

// AddVolumeStory records that a volume contains a story; adding twice is a
// no-op. With cascade set, every author already credited on the volume is
// credited on the story as well, carrying their volume-level principal
// flag, atomically with the containment link.
func (s *Store) AddVolumeStory(ctx context.Context, volumeID, storyID string, cascade bool) error {
	const op = "volume_story.link"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
		INSERT INTO volume_stories (volume_id, story_id)
		VALUES (?, ?)
		ON CONFLICT (volume_id, story_id) DO NOTHING`,
		volumeID, storyID)
	if err != nil {
		return translateErr(err).WithContext(op)
	}

	if cascade {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO author_stories (author_id, story_id, principal)
			SELECT author_id, ?, principal FROM author_volumes WHERE volume_id = ?
			ON CONFLICT (author_id, story_id) DO NOTHING`,
			storyID, volumeID)
		if err != nil {
			return translateErr(err).WithContext(op)
		}
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// RemoveVolumeStory removes a volume-story containment link. With cascade
// set, story credits held by the volume's authors are dropped with it.
// Removing an absent link is not an error.
func (s *Store) RemoveVolumeStory(ctx context.Context, volumeID, storyID string, cascade bool) error {
	const op = "volume_story.unlink"
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err).WithContext(op)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if cascade {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM author_stories
			WHERE story_id = ?
			  AND author_id IN (SELECT author_id FROM author_volumes WHERE volume_id = ?)`,
			storyID, volumeID)
		if err != nil {
			return translateErr(err).WithContext(op)
		}
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM volume_stories WHERE volume_id = ? AND story_id = ?`, volumeID, storyID)
	if err != nil {
		return translateErr(err).WithContext(op)
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err).WithContext(op)
	}
	return nil
}

// linkRows runs a two-column link query (target id plus one attribute) and
// returns the ids in query order alongside the attribute per id.
func linkRows[A any](ctx context.Context, s *Store, q, op, id string) ([]string, map[string]A, error) {
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, nil, translateErr(err).WithContext(op)
	}
	defer rows.Close()

	var ids []string
	attrs := make(map[string]A)
	for rows.Next() {
		var (
			targetID string
			attr     A
		)
		if err := rows.Scan(&targetID, &attr); err != nil {
			return nil, nil, translateErr(err).WithContext(op)
		}
		ids = append(ids, targetID)
		attrs[targetID] = attr
	}
	if err := rows.Err(); err != nil {
		return nil, nil, translateErr(err).WithContext(op)
	}
	return ids, attrs, nil
}

// AuthorVolumes returns the volumes an author is credited on.
func (s *Store) AuthorVolumes(ctx context.Context, authorID string) ([]*domain.VolumeCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT av.volume_id, av.principal
		FROM author_volumes av
		JOIN volumes v ON v.id = av.volume_id
		WHERE av.author_id = ?
		ORDER BY v.name COLLATE NOCASE, v.id`, "author.volumes", authorID)
	if err != nil {
		return nil, err
	}
	volumes, err := entitiesByIDs(ctx, s, &volumeDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.VolumeCredit, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.VolumeCredit{Volume: volumes[id], Principal: principal[id]})
	}
	return out, nil
}

// AuthorSeries returns the series an author is credited on.
func (s *Store) AuthorSeries(ctx context.Context, authorID string) ([]*domain.SeriesCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT asr.series_id, asr.principal
		FROM author_series asr
		JOIN series sr ON sr.id = asr.series_id
		WHERE asr.author_id = ?
		ORDER BY sr.name COLLATE NOCASE, sr.id`, "author.series", authorID)
	if err != nil {
		return nil, err
	}
	series, err := entitiesByIDs(ctx, s, &seriesDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.SeriesCredit, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.SeriesCredit{Series: series[id], Principal: principal[id]})
	}
	return out, nil
}

// AuthorStories returns the stories an author is credited on.
func (s *Store) AuthorStories(ctx context.Context, authorID string) ([]*domain.StoryCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT ast.story_id, ast.principal
		FROM author_stories ast
		JOIN stories st ON st.id = ast.story_id
		WHERE ast.author_id = ?
		ORDER BY st.name COLLATE NOCASE, st.id`, "author.stories", authorID)
	if err != nil {
		return nil, err
	}
	stories, err := entitiesByIDs(ctx, s, &storyDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.StoryCredit, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.StoryCredit{Story: stories[id], Principal: principal[id]})
	}
	return out, nil
}

// VolumeAuthors returns the authors credited on a volume.
func (s *Store) VolumeAuthors(ctx context.Context, volumeID string) ([]*domain.AuthorCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT av.author_id, av.principal
		FROM author_volumes av
		JOIN authors a ON a.id = av.author_id
		WHERE av.volume_id = ?
		ORDER BY a.last_name COLLATE NOCASE, a.first_name COLLATE NOCASE, a.id`,
		"volume.authors", volumeID)
	if err != nil {
		return nil, err
	}
	return s.authorCredits(ctx, ids, principal)
}

// SeriesAuthors returns the authors credited on a series.
func (s *Store) SeriesAuthors(ctx context.Context, seriesID string) ([]*domain.AuthorCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT asr.author_id, asr.principal
		FROM author_series asr
		JOIN authors a ON a.id = asr.author_id
		WHERE asr.series_id = ?
		ORDER BY a.last_name COLLATE NOCASE, a.first_name COLLATE NOCASE, a.id`,
		"series.authors", seriesID)
	if err != nil {
		return nil, err
	}
	return s.authorCredits(ctx, ids, principal)
}

// StoryAuthors returns the authors credited on a story.
func (s *Store) StoryAuthors(ctx context.Context, storyID string) ([]*domain.AuthorCredit, error) {
	ids, principal, err := linkRows[bool](ctx, s, `
		SELECT ast.author_id, ast.principal
		FROM author_stories ast
		JOIN authors a ON a.id = ast.author_id
		WHERE ast.story_id = ?
		ORDER BY a.last_name COLLATE NOCASE, a.first_name COLLATE NOCASE, a.id`,
		"story.authors", storyID)
	if err != nil {
		return nil, err
	}
	return s.authorCredits(ctx, ids, principal)
}

func (s *Store) authorCredits(ctx context.Context, ids []string, principal map[string]bool) ([]*domain.AuthorCredit, error) {
	authors, err := entitiesByIDs(ctx, s, &authorDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.AuthorCredit, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.AuthorCredit{Author: authors[id], Principal: principal[id]})
	}
	return out, nil
}

// SeriesStories returns a series' stories in reading order.
func (s *Store) SeriesStories(ctx context.Context, seriesID string) ([]*domain.StoryEntry, error) {
	ids, ordinal, err := linkRows[int](ctx, s, `
		SELECT ss.story_id, ss.ordinal
		FROM series_stories ss
		WHERE ss.series_id = ?
		ORDER BY ss.ordinal, ss.story_id`, "series.stories", seriesID)
	if err != nil {
		return nil, err
	}
	stories, err := entitiesByIDs(ctx, s, &storyDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.StoryEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, &domain.StoryEntry{Story: stories[id], Ordinal: ordinal[id]})
	}
	return out, nil
}

// StorySeries returns the series a story appears in.
func (s *Store) StorySeries(ctx context.Context, storyID string) ([]*domain.Series, error) {
	ids, err := s.linkedIDs(ctx, `
		SELECT ss.series_id
		FROM series_stories ss
		JOIN series sr ON sr.id = ss.series_id
		WHERE ss.story_id = ?
		ORDER BY sr.name COLLATE NOCASE, sr.id`, "story.series", storyID)
	if err != nil {
		return nil, err
	}
	series, err := entitiesByIDs(ctx, s, &seriesDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Series, 0, len(ids))
	for _, id := range ids {
		out = append(out, series[id])
	}
	return out, nil
}

// StoryVolumes returns the volumes that contain a story.
func (s *Store) StoryVolumes(ctx context.Context, storyID string) ([]*domain.Volume, error) {
	ids, err := s.linkedIDs(ctx, `
		SELECT vs.volume_id
		FROM volume_stories vs
		JOIN volumes v ON v.id = vs.volume_id
		WHERE vs.story_id = ?
		ORDER BY v.name COLLATE NOCASE, v.id`, "story.volumes", storyID)
	if err != nil {
		return nil, err
	}
	volumes, err := entitiesByIDs(ctx, s, &volumeDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Volume, 0, len(ids))
	for _, id := range ids {
		out = append(out, volumes[id])
	}
	return out, nil
}

// VolumeStories returns the stories a volume contains.
func (s *Store) VolumeStories(ctx context.Context, volumeID string) ([]*domain.Story, error) {
	ids, err := s.linkedIDs(ctx, `
		SELECT vs.story_id
		FROM volume_stories vs
		JOIN stories st ON st.id = vs.story_id
		WHERE vs.volume_id = ?
		ORDER BY st.name COLLATE NOCASE, st.id`, "volume.stories", volumeID)
	if err != nil {
		return nil, err
	}
	stories, err := entitiesByIDs(ctx, s, &storyDef, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Story, 0, len(ids))
	for _, id := range ids {
		out = append(out, stories[id])
	}
	return out, nil
}

func (s *Store) linkedIDs(ctx context.Context, q, op, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var targetID string
		if err := rows.Scan(&targetID); err != nil {
			return nil, translateErr(err).WithContext(op)
		}
		ids = append(ids, targetID)
	}
	if err := rows.Err(); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	return ids, nil
}
