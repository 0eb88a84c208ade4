package sqlite

import (
	"context"

	"github.com/longbox/longbox-server/internal/domain"
)

// CreateAccessToken persists an issued access token.
func (s *Store) CreateAccessToken(ctx context.Context, t *domain.AccessToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO access_tokens (token, user_id, scopes, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.Token, t.UserID, t.Scopes, formatTime(t.ExpiresAt), formatTime(t.CreatedAt))
	if err != nil {
		return translateErr(err).WithContext("access_token.create")
	}
	return nil
}

// GetAccessToken looks up an access token by its wire value.
func (s *Store) GetAccessToken(ctx context.Context, token string) (*domain.AccessToken, error) {
	const op = "access_token.get"
	var (
		t                    domain.AccessToken
		expiresAt, createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, user_id, scopes, expires_at, created_at
		FROM access_tokens WHERE token = ?`, token).
		Scan(&t.Token, &t.UserID, &t.Scopes, &expiresAt, &createdAt)
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	if t.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	return &t, nil
}

// DeleteAccessToken revokes an access token. The refresh token issued
// alongside it goes with it via the foreign key cascade.
func (s *Store) DeleteAccessToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE token = ?`, token)
	if err != nil {
		return translateErr(err).WithContext("access_token.delete")
	}
	return nil
}

// DeleteUserAccessTokens revokes every access token issued to a user.
func (s *Store) DeleteUserAccessTokens(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM access_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return translateErr(err).WithContext("access_token.delete")
	}
	return nil
}

// CreateRefreshToken persists a refresh token tied to an access token.
func (s *Store) CreateRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (token, access_token, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.Token, t.AccessToken, t.UserID, formatTime(t.ExpiresAt), formatTime(t.CreatedAt))
	if err != nil {
		return translateErr(err).WithContext("refresh_token.create")
	}
	return nil
}

// GetRefreshToken looks up a refresh token by its stored value.
func (s *Store) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	const op = "refresh_token.get"
	var (
		t                    domain.RefreshToken
		expiresAt, createdAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT token, access_token, user_id, expires_at, created_at
		FROM refresh_tokens WHERE token = ?`, token).
		Scan(&t.Token, &t.AccessToken, &t.UserID, &expiresAt, &createdAt)
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	if t.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	return &t, nil
}

// DeleteRefreshToken removes a refresh token on rotation or logout.
func (s *Store) DeleteRefreshToken(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token)
	if err != nil {
		return translateErr(err).WithContext("refresh_token.delete")
	}
	return nil
}
