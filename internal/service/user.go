package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/errors"
	"github.com/longbox/longbox-server/internal/id"
	"github.com/longbox/longbox-server/internal/store"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

// UserService manages user accounts and their granted scopes.
type UserService struct {
	store    *sqlite.Store
	validate *validation.Validator
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(s *sqlite.Store, validate *validation.Validator, logger *slog.Logger) *UserService {
	return &UserService{store: s, validate: validate, logger: logger}
}

// CreateUserRequest holds the fields for creating a user.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=1024"`
	Scopes    string `json:"scopes"`
	Active    *bool  `json:"active"`
	Verbosity int    `json:"verbosity" validate:"gte=0,lte=3"`
}

// UpdateUserRequest holds the fields for a partial user update.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=2,max=100"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=1024"`
	Scopes    *string `json:"scopes"`
	Active    *bool   `json:"active"`
	Verbosity *int    `json:"verbosity" validate:"omitempty,gte=0,lte=3"`
}

// validGrantString rejects scope strings that can never match a permission
// requirement: every non-superuser token must pair with a role token.
func validGrantString(scopes string) error {
	fields := strings.Fields(scopes)
	for i := 0; i < len(fields); i++ {
		if fields[i] == domain.ScopeSuperuser {
			continue
		}
		if i+1 >= len(fields) {
			return errors.Validation("granted scope %q is missing its role", fields[i])
		}
		role := fields[i+1]
		if role != domain.RoleRegular && role != domain.RoleAdmin {
			return errors.Validation("unknown role %q for scope %q", role, fields[i])
		}
		i++
	}
	return nil
}

// Create creates a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}
	if err := validGrantString(req.Scopes); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:           id.MustGenerate("user"),
		Username:     req.Username,
		PasswordHash: hash,
		Scopes:       req.Scopes,
		Active:       true,
		Verbosity:    req.Verbosity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "scopes", u.Scopes)
	return u, nil
}

// Update applies a partial update. Changing scopes revokes the user's
// outstanding access tokens so stale grants can't be replayed.
func (s *UserService) Update(ctx context.Context, userID string, req UpdateUserRequest) (*domain.User, error) {
	if err := s.validate.Validate(req); err != nil {
		return nil, err
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	scopesChanged := false
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if req.Scopes != nil {
		if err := validGrantString(*req.Scopes); err != nil {
			return nil, err
		}
		scopesChanged = u.Scopes != *req.Scopes
		u.Scopes = *req.Scopes
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if req.Verbosity != nil {
		u.Verbosity = *req.Verbosity
	}

	if err := s.store.UpdateUser(ctx, userID, u); err != nil {
		return nil, err
	}

	if scopesChanged {
		if err := s.store.DeleteUserAccessTokens(ctx, userID); err != nil {
			s.logger.Warn("failed to revoke tokens after scope change", "user_id", userID, "error", err)
		}
	}

	s.logger.Info("user updated", "user_id", userID)
	return u, nil
}

// Delete removes a user; their tokens cascade away with them.
func (s *UserService) Delete(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.store.DeleteUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user deleted", "user_id", userID, "username", u.Username)
	return u, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// List returns users matching the given options.
func (s *UserService) List(ctx context.Context, opts store.ListOptions) ([]*domain.User, error) {
	return s.store.ListUsers(ctx, opts)
}
