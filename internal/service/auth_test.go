package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/errors"
)

func TestSetup_CreatesSuperuserOnce(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	required, err := svc.auth.SetupRequired(ctx)
	require.NoError(t, err)
	assert.True(t, required)

	resp, err := svc.auth.Setup(ctx, SetupRequest{Username: "root", Password: "rootpassword"})
	require.NoError(t, err)
	assert.Equal(t, "superuser", resp.User.Scopes)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	required, err = svc.auth.SetupRequired(ctx)
	require.NoError(t, err)
	assert.False(t, required)

	_, err = svc.auth.Setup(ctx, SetupRequest{Username: "other", Password: "otherpassword"})
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestLogin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.users.Create(ctx, CreateUserRequest{
		Username: "barney", Password: "barneypassword", Scopes: "test regular",
	})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{Username: "barney", Password: "barneypassword"})
	require.NoError(t, err)
	assert.Equal(t, "barney", resp.User.Username)
	assert.NotEmpty(t, resp.AccessToken)

	// The issued token authenticates.
	user, err := svc.authority.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
}

func TestLogin_Failures(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.users.Create(ctx, CreateUserRequest{
		Username: "barney", Password: "barneypassword", Scopes: "test regular",
	})
	require.NoError(t, err)

	// Wrong password, unknown user, and disabled account all read the same.
	_, err = svc.auth.Login(ctx, LoginRequest{Username: "barney", Password: "wrong"})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	_, err = svc.auth.Login(ctx, LoginRequest{Username: "nobody", Password: "barneypassword"})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	inactive := false
	_, err = svc.users.Create(ctx, CreateUserRequest{
		Username: "ghost", Password: "ghostpassword", Scopes: "test regular", Active: &inactive,
	})
	require.NoError(t, err)
	_, err = svc.auth.Login(ctx, LoginRequest{Username: "ghost", Password: "ghostpassword"})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestRefreshAndLogout(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.users.Create(ctx, CreateUserRequest{
		Username: "barney", Password: "barneypassword", Scopes: "test regular",
	})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{Username: "barney", Password: "barneypassword"})
	require.NoError(t, err)

	rotated, err := svc.auth.Refresh(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.AccessToken, rotated.AccessToken)

	// The rotated-out access token no longer authenticates.
	_, err = svc.authority.Authenticate(ctx, resp.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	require.NoError(t, svc.auth.Logout(ctx, rotated.AccessToken))
	_, err = svc.authority.Authenticate(ctx, rotated.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))

	// Logout killed the refresh token too.
	_, err = svc.auth.Refresh(ctx, RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.True(t, errors.Is(err, errors.ErrUnauthorized))
}

func TestCreateUser_GrantValidation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	// Trailing unpaired scope token.
	_, err := svc.users.Create(ctx, CreateUserRequest{
		Username: "bad", Password: "password123", Scopes: "test",
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// Unknown role.
	_, err = svc.users.Create(ctx, CreateUserRequest{
		Username: "bad2", Password: "password123", Scopes: "test owner",
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// Superuser mixed with paired grants is fine.
	_, err = svc.users.Create(ctx, CreateUserRequest{
		Username: "good", Password: "password123", Scopes: "superuser test admin",
	})
	assert.NoError(t, err)
}

func TestUpdateUser_ScopeChangeRevokesTokens(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	u, err := svc.users.Create(ctx, CreateUserRequest{
		Username: "barney", Password: "barneypassword", Scopes: "test regular",
	})
	require.NoError(t, err)

	resp, err := svc.auth.Login(ctx, LoginRequest{Username: "barney", Password: "barneypassword"})
	require.NoError(t, err)

	newScopes := "test admin"
	_, err = svc.users.Update(ctx, u.ID, UpdateUserRequest{Scopes: &newScopes})
	require.NoError(t, err)

	_, err = svc.authority.Authenticate(ctx, resp.AccessToken)
	assert.True(t, errors.Is(err, errors.ErrUnauthorized),
		"tokens issued before a scope change must not survive it")
}
