package sqlite

import (
	"context"
	"time"

	"github.com/longbox/longbox-server/internal/domain"
	"github.com/longbox/longbox-server/internal/store"
)

var userDef = entityDef[domain.User]{
	table:    "users",
	name:     "user",
	columns:  []string{"id", "username", "password_hash", "scopes", "active", "verbosity", "created_at", "updated_at"},
	sortBy:   "username COLLATE NOCASE, id",
	nameKeys: []string{"username"},
	scan:     scanUser,
	bind: func(u *domain.User) []any {
		return []any{u.ID, u.Username, u.PasswordHash, u.Scopes, u.Active, u.Verbosity, formatTime(u.CreatedAt), formatTime(u.UpdatedAt)}
	},
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u                    domain.User
		createdAt, updatedAt string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Scopes, &u.Active, &u.Verbosity, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns users matching the given options.
func (s *Store) ListUsers(ctx context.Context, opts store.ListOptions) ([]*domain.User, error) {
	return listEntities(ctx, s, &userDef, "", opts)
}

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return getEntity(ctx, s, &userDef, "", id, store.ListOptions{})
}

// GetUserByUsername returns a user by their unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	const op = "user.get"
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"SELECT "+userDef.selectColumns()+" FROM users WHERE username = ?", username))
	if err != nil {
		return nil, translateErr(err).WithContext(op)
	}
	return u, nil
}

// CountUsers returns the number of user accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, translateErr(err).WithContext("user.count")
	}
	return n, nil
}

// CreateUser inserts a new user.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return insertEntity(ctx, s, &userDef, "", u)
}

// UpdateUser updates a user in place.
func (s *Store) UpdateUser(ctx context.Context, id string, u *domain.User) error {
	u.ID = id
	u.UpdatedAt = time.Now()
	return updateEntity(ctx, s, &userDef, "", id, u)
}

// DeleteUser removes a user; foreign keys cascade to their credentials.
// Returns the removed user.
func (s *Store) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	return deleteEntity(ctx, s, &userDef, "", id)
}
