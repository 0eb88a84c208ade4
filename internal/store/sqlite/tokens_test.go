package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
)

func insertTestUser(t *testing.T, s *Store, id, username string) {
	t.Helper()
	u := &domain.User{ID: id, Username: username, PasswordHash: "x", Scopes: "acme regular",
		Active: true, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("insert test user: %v", err)
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "fred")

	now := time.Now().UTC().Truncate(time.Millisecond)
	tok := &domain.AccessToken{Token: "at-1", UserID: "user-1", Scopes: "acme regular",
		ExpiresAt: now.Add(15 * time.Minute), CreatedAt: now}
	if err := s.CreateAccessToken(ctx, tok); err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	got, err := s.GetAccessToken(ctx, "at-1")
	if err != nil {
		t.Fatalf("GetAccessToken: %v", err)
	}
	if got.UserID != "user-1" || got.Scopes != "acme regular" {
		t.Errorf("got %+v", got)
	}
	if !got.ExpiresAt.Equal(tok.ExpiresAt) {
		t.Errorf("expires_at: got %v, want %v", got.ExpiresAt, tok.ExpiresAt)
	}

	if _, err := s.GetAccessToken(ctx, "nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestDeleteAccessToken_CascadesToRefresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "fred")

	now := time.Now().UTC()
	at := &domain.AccessToken{Token: "at-1", UserID: "user-1", Scopes: "acme regular",
		ExpiresAt: now.Add(15 * time.Minute), CreatedAt: now}
	if err := s.CreateAccessToken(ctx, at); err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	rt := &domain.RefreshToken{Token: "rt-1", AccessToken: "at-1", UserID: "user-1",
		ExpiresAt: now.Add(30 * 24 * time.Hour), CreatedAt: now}
	if err := s.CreateRefreshToken(ctx, rt); err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}

	if err := s.DeleteAccessToken(ctx, "at-1"); err != nil {
		t.Fatalf("DeleteAccessToken: %v", err)
	}

	// Revoking the access token takes the refresh token with it.
	if _, err := s.GetRefreshToken(ctx, "rt-1"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected refresh token cascade, got %v", err)
	}
}

func TestDeleteUser_CascadesToTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "fred")

	now := time.Now().UTC()
	at := &domain.AccessToken{Token: "at-1", UserID: "user-1", Scopes: "acme regular",
		ExpiresAt: now.Add(15 * time.Minute), CreatedAt: now}
	if err := s.CreateAccessToken(ctx, at); err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	if _, err := s.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if _, err := s.GetAccessToken(ctx, "at-1"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected token cascade on user delete, got %v", err)
	}
}

func TestDeleteUserAccessTokens(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1", "fred")
	insertTestUser(t, s, "user-2", "daphne")

	now := time.Now().UTC()
	for i, userID := range []string{"user-1", "user-1", "user-2"} {
		tok := &domain.AccessToken{Token: string(rune('a' + i)), UserID: userID,
			ExpiresAt: now.Add(time.Hour), CreatedAt: now}
		if err := s.CreateAccessToken(ctx, tok); err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
	}

	if err := s.DeleteUserAccessTokens(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteUserAccessTokens: %v", err)
	}
	if _, err := s.GetAccessToken(ctx, "a"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("user-1 token a should be gone")
	}
	if _, err := s.GetAccessToken(ctx, "c"); err != nil {
		t.Errorf("user-2 token should survive: %v", err)
	}
}
