package service

import (
	"context"
	"log/slog"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

// AuthService handles login, token refresh, logout, and first-run setup.
type AuthService struct {
	store     *sqlite.Store
	authority auth.Authority
	users     *UserService
	validate  *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(s *sqlite.Store, authority auth.Authority, users *UserService, validate *validation.Validator, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, authority: authority, users: users, validate: validate, logger: logger}
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest contains the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SetupRequest contains the initial superuser creation data.
type SetupRequest struct {
	Username string `json:"username" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// AuthResponse contains authentication tokens and the authenticated user.
type AuthResponse struct {
	User *domain.User `json:"user"`
	auth.TokenPair
}

// Login verifies credentials and issues a token pair. Every failure mode is
// the same Unauthorized, so usernames can't be probed.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.Unauthorized("invalid username or password")
		}
		return nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.Unauthorized("invalid username or password")
	}
	if !user.Active {
		return nil, errors.Unauthorized("invalid username or password")
	}

	pair, err := s.authority.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return &AuthResponse{User: user, TokenPair: *pair}, nil
}

// Refresh rotates a refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	user, pair, err := s.authority.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, TokenPair: *pair}, nil
}

// Logout revokes the presented access token and its refresh token.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	return s.authority.Revoke(ctx, accessToken)
}

// SetupRequired reports whether first-run setup has yet to happen.
func (s *AuthService) SetupRequired(ctx context.Context) (bool, error) {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Setup creates the first account, a superuser, and logs it in. Usable
// exactly once: any existing user makes it Conflict.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResponse, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	required, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !required {
		return nil, errors.Conflict("setup has already been completed")
	}

	user, err := s.users.Create(ctx, CreateUserRequest{
		Username: req.Username,
		Password: req.Password,
		Scopes:   domain.ScopeSuperuser,
	})
	if err != nil {
		return nil, err
	}

	pair, err := s.authority.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("initial setup completed", "user_id", user.ID, "username", user.Username)
	return &AuthResponse{User: user, TokenPair: *pair}, nil
}
