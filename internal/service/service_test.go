package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

const testTokenKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

type testServices struct {
	store        *sqlite.Store
	scopes       *scope.Resolver
	libraries    *LibraryService
	users        *UserService
	catalog      *CatalogService
	associations *AssociationService
	auth         *AuthService
	authority    *auth.StoreAuthority
	seeder       *Seeder
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	validate := validation.New()
	scopes := scope.NewResolver(s, 64, time.Minute)

	tokens, err := auth.NewTokenService(testTokenKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	authority := auth.NewStoreAuthority(s, tokens, logger)

	libraries := NewLibraryService(s, scopes, validate, logger)
	users := NewUserService(s, validate, logger)
	catalog := NewCatalogService(s, validate, logger)
	associations := NewAssociationService(s, logger)
	authService := NewAuthService(s, authority, users, validate, logger)
	seeder := NewSeeder(s, libraries, users, catalog, associations, logger)

	return &testServices{
		store:        s,
		scopes:       scopes,
		libraries:    libraries,
		users:        users,
		catalog:      catalog,
		associations: associations,
		auth:         authService,
		authority:    authority,
		seeder:       seeder,
	}
}
