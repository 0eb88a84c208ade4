package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/store"
)

func TestCreateAuthor_ForcesLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestLibrary(t, s, "lib-2", "Bravo", "bravo")

	// Payload claims lib-2; the path value wins.
	a := &domain.Author{ID: "auth-1", LibraryID: "lib-2", FirstName: "Fred", LastName: "Jones",
		Active: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateAuthor(ctx, "lib-1", a); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}

	got, err := s.GetAuthor(ctx, "lib-1", "auth-1", store.ListOptions{})
	if err != nil {
		t.Fatalf("GetAuthor: %v", err)
	}
	if got.LibraryID != "lib-1" {
		t.Errorf("library id: got %q, want lib-1", got.LibraryID)
	}
}

func TestGetAuthor_CrossLibraryIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestLibrary(t, s, "lib-2", "Bravo", "bravo")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Fred", "Jones")

	if _, err := s.GetAuthor(ctx, "lib-2", "auth-1", store.ListOptions{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound for cross-library read, got %v", err)
	}
}

func TestAuthorOps_UnknownLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.ListAuthors(ctx, "nope", store.ListOptions{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("list: expected NotFound, got %v", err)
	}
	a := &domain.Author{ID: "auth-1", FirstName: "Fred", LastName: "Jones"}
	if err := s.CreateAuthor(ctx, "nope", a); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("create: expected NotFound, got %v", err)
	}
}

func TestCreateAuthor_UniquePerLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestLibrary(t, s, "lib-2", "Bravo", "bravo")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Fred", "Jones")

	// Same name in the same library conflicts.
	dup := &domain.Author{ID: "auth-2", FirstName: "Fred", LastName: "Jones",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateAuthor(ctx, "lib-1", dup); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected Conflict, got %v", err)
	}

	// Same name in another library is fine.
	other := &domain.Author{ID: "auth-3", FirstName: "Fred", LastName: "Jones",
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateAuthor(ctx, "lib-2", other); err != nil {
		t.Fatalf("same name in other library: %v", err)
	}
}

func TestUpdateAuthor_CrossLibraryIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestLibrary(t, s, "lib-2", "Bravo", "bravo")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Fred", "Jones")

	a := &domain.Author{FirstName: "Fred", LastName: "Smith"}
	if err := s.UpdateAuthor(ctx, "lib-2", "auth-1", a); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}

	// Original row untouched.
	got, err := s.GetAuthor(ctx, "lib-1", "auth-1", store.ListOptions{})
	if err != nil {
		t.Fatalf("GetAuthor: %v", err)
	}
	if got.LastName != "Jones" {
		t.Errorf("cross-library update leaked: %q", got.LastName)
	}
}

func TestListAuthors_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Alan", "Adams")
	insertTestAuthor(t, s, "lib-1", "auth-2", "Bob", "Baker")
	insertTestAuthor(t, s, "lib-1", "auth-3", "Carl", "Clark")
	insertTestAuthor(t, s, "lib-1", "auth-4", "Dana", "Drake")

	got, err := s.ListAuthors(ctx, "lib-1", store.ListOptions{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(got))
	}
	if got[0].LastName != "Clark" || got[1].LastName != "Drake" {
		t.Errorf("page order: got %s, %s", got[0].LastName, got[1].LastName)
	}
}

func TestListAuthors_ActiveOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Alan", "Adams")

	inactive := &domain.Author{ID: "auth-2", FirstName: "Bob", LastName: "Baker",
		Active: false, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateAuthor(ctx, "lib-1", inactive); err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}

	got, err := s.ListAuthors(ctx, "lib-1", store.ListOptions{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(got) != 1 || got[0].ID != "auth-1" {
		t.Errorf("active filter: got %d results", len(got))
	}
}

func TestListAuthors_NameFilterTwoTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Frédéric", "Jones")
	insertTestAuthor(t, s, "lib-1", "auth-2", "Fred", "Smith")
	insertTestAuthor(t, s, "lib-1", "auth-3", "Alice", "Jones")

	// Two tokens match first and last name independently.
	got, err := s.ListAuthors(ctx, "lib-1", store.ListOptions{Name: "fred jones"})
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(got) != 1 || got[0].ID != "auth-1" {
		t.Fatalf("two-token filter: got %d results", len(got))
	}

	// One token matches either name.
	got, err = s.ListAuthors(ctx, "lib-1", store.ListOptions{Name: "jones"})
	if err != nil {
		t.Fatalf("ListAuthors: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("one-token filter: got %d results, want 2", len(got))
	}
}

func TestDeleteAuthor_ReturnsEntity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestLibrary(t, s, "lib-1", "Acme", "acme")
	insertTestAuthor(t, s, "lib-1", "auth-1", "Fred", "Jones")

	deleted, err := s.DeleteAuthor(ctx, "lib-1", "auth-1")
	if err != nil {
		t.Fatalf("DeleteAuthor: %v", err)
	}
	if deleted.FirstName != "Fred" {
		t.Errorf("deleted entity: %q", deleted.FirstName)
	}
	if _, err := s.GetAuthor(ctx, "lib-1", "auth-1", store.ListOptions{}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}
