package sqlite

import "context"

// Reset deletes every row from every table. Development tooling only; the
// reseed endpoint is gated to non-production environments.
func (s *Store) Reset(ctx context.Context) error {
	// Link and token tables clear via cascade, but wiping explicitly keeps
	// this correct even with foreign_keys off.
	tables := []string{
		"refresh_tokens", "access_tokens",
		"author_series", "author_stories", "author_volumes",
		"series_stories", "volume_stories",
		"volumes", "stories", "series", "authors",
		"users", "libraries",
	}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return translateErr(err).WithContext("store.reset")
		}
	}
	return nil
}
