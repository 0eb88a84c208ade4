package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestLibrary(t *testing.T, s *Store, id, name, scope string) {
	t.Helper()
	l := &domain.Library{ID: id, Name: name, Scope: scope, Active: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateLibrary(context.Background(), l); err != nil {
		t.Fatalf("insert test library: %v", err)
	}
}

func insertTestAuthor(t *testing.T, s *Store, libraryID, id, first, last string) {
	t.Helper()
	a := &domain.Author{ID: id, FirstName: first, LastName: last, Active: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateAuthor(context.Background(), libraryID, a); err != nil {
		t.Fatalf("insert test author: %v", err)
	}
}

func insertTestStory(t *testing.T, s *Store, libraryID, id, name string) {
	t.Helper()
	st := &domain.Story{ID: id, Name: name, Active: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateStory(context.Background(), libraryID, st); err != nil {
		t.Fatalf("insert test story: %v", err)
	}
}

func insertTestVolume(t *testing.T, s *Store, libraryID, id, name string, typ domain.VolumeType) {
	t.Helper()
	v := &domain.Volume{ID: id, Name: name, Type: typ, Active: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateVolume(context.Background(), libraryID, v); err != nil {
		t.Fatalf("insert test volume: %v", err)
	}
}

func insertTestSeries(t *testing.T, s *Store, libraryID, id, name string) {
	t.Helper()
	sr := &domain.Series{ID: id, Name: name, Active: true,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateSeries(context.Background(), libraryID, sr); err != nil {
		t.Fatalf("insert test series: %v", err)
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	tables := []string{
		"libraries", "users", "authors", "series", "stories", "volumes",
		"author_series", "author_stories", "author_volumes",
		"series_stories", "volume_stories",
		"access_tokens", "refresh_tokens",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	if err := s2.Close(); err != nil {
		t.Fatalf("close store again: %v", err)
	}
}
