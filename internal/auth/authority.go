package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
)

// TokenStore is the slice of the store the authority needs for credential
// lookups and revocation.
type TokenStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CreateAccessToken(ctx context.Context, t *domain.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*domain.AccessToken, error)
	DeleteAccessToken(ctx context.Context, token string) error
	CreateRefreshToken(ctx context.Context, t *domain.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// TokenPair is an issued access/refresh token pair as handed to the client.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// Authority answers the two questions the HTTP gate asks: who holds this
// token, and may they do this. Failures keep the two cases distinct —
// Unauthorized for a bad credential, InvalidScope for a good credential
// lacking the required grant.
type Authority interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Authorize(user *domain.User, required string) error
	Issue(ctx context.Context, user *domain.User) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)
	Revoke(ctx context.Context, accessToken string) error
}

// StoreAuthority is the store-backed Authority. Access tokens are verified
// cryptographically and then checked against the database, so revocation
// takes effect immediately rather than at expiry.
type StoreAuthority struct {
	store  TokenStore
	tokens *TokenService
	logger *slog.Logger
}

// NewStoreAuthority builds an authority over the given store and token
// service.
func NewStoreAuthority(store TokenStore, tokens *TokenService, logger *slog.Logger) *StoreAuthority {
	return &StoreAuthority{store: store, tokens: tokens, logger: logger}
}

// Authenticate resolves a bearer token to its user. Every failure mode is
// Unauthorized; callers learn nothing about which check rejected the token.
func (a *StoreAuthority) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if _, err := a.tokens.VerifyAccessToken(token); err != nil {
		return nil, errors.Unauthorized("invalid or expired token").WithCause(err)
	}

	stored, err := a.store.GetAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized("invalid or expired token")
		}
		return nil, err
	}
	if stored.Expired(time.Now()) {
		return nil, errors.Unauthorized("invalid or expired token")
	}

	user, err := a.store.GetUser(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized("invalid or expired token")
		}
		return nil, err
	}
	if !user.Active {
		return nil, errors.Unauthorized("account is disabled")
	}
	return user, nil
}

// Authorize checks the user's grants against a required permission string.
func (a *StoreAuthority) Authorize(user *domain.User, required string) error {
	if user.HasGrant(required) {
		return nil
	}
	return errors.InvalidScope("missing required scope %q", required)
}

// Issue creates and persists an access/refresh token pair for the user.
// The refresh token is stored hashed; only the client sees the wire value.
func (a *StoreAuthority) Issue(ctx context.Context, user *domain.User) (*TokenPair, error) {
	now := time.Now().UTC()

	access, err := a.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Internal(err)
	}
	accessExpiry := now.Add(a.tokens.AccessTokenDuration())
	if err := a.store.CreateAccessToken(ctx, &domain.AccessToken{
		Token:     access,
		UserID:    user.ID,
		Scopes:    user.Scopes,
		ExpiresAt: accessExpiry,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}

	refresh, err := a.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, errors.Internal(err)
	}
	refreshExpiry := now.Add(a.tokens.RefreshTokenDuration())
	if err := a.store.CreateRefreshToken(ctx, &domain.RefreshToken{
		Token:       HashRefreshToken(refresh),
		AccessToken: access,
		UserID:      user.ID,
		ExpiresAt:   refreshExpiry,
		CreatedAt:   now,
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Refresh rotates a refresh token: the old pair is revoked and a fresh pair
// issued. A spent or expired refresh token is Unauthorized.
func (a *StoreAuthority) Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error) {
	stored, err := a.store.GetRefreshToken(ctx, HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, errors.Unauthorized("invalid refresh token")
		}
		return nil, nil, err
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, nil, errors.Unauthorized("refresh token expired")
	}

	user, err := a.store.GetUser(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil, errors.Unauthorized("invalid refresh token")
		}
		return nil, nil, err
	}
	if !user.Active {
		return nil, nil, errors.Unauthorized("account is disabled")
	}

	// Dropping the old access token takes the spent refresh token with it.
	if err := a.store.DeleteAccessToken(ctx, stored.AccessToken); err != nil {
		a.logger.Warn("failed to revoke rotated access token", "error", err)
	}

	pair, err := a.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Revoke invalidates an access token and, via cascade, its refresh token.
func (a *StoreAuthority) Revoke(ctx context.Context, accessToken string) error {
	return a.store.DeleteAccessToken(ctx, accessToken)
}
