package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/store/sqlite"
	"github.com/longbox/longbox-server/internal/validation"
)

const testTokenKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

type testServer struct {
	*Server
	svc *Services
}

// newTestServer wires a server over a throwaway database. Mutators run on
// the config before the server is constructed.
func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	cfg := &config.Config{
		App: config.AppConfig{Environment: "development"},
		Auth: config.AuthConfig{
			Enabled:              true,
			TokenKey:             testTokenKey,
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
			LoginRPS:             100,
			LoginBurst:           100,
		},
		Scope: config.ScopeConfig{CacheTTL: time.Minute, CacheSize: 64},
	}
	for _, m := range mutate {
		m(cfg)
	}

	validate := validation.New()
	scopes := scope.NewResolver(s, cfg.Scope.CacheSize, cfg.Scope.CacheTTL)

	tokens, err := auth.NewTokenService(cfg.Auth.TokenKey, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
	require.NoError(t, err)
	authority := auth.NewStoreAuthority(s, tokens, logger)

	libraries := service.NewLibraryService(s, scopes, validate, logger)
	users := service.NewUserService(s, validate, logger)
	catalog := service.NewCatalogService(s, validate, logger)
	associations := service.NewAssociationService(s, logger)
	authService := service.NewAuthService(s, authority, users, validate, logger)
	seeder := service.NewSeeder(s, libraries, users, catalog, associations, logger)

	svc := &Services{
		Auth:         authService,
		Libraries:    libraries,
		Users:        users,
		Catalog:      catalog,
		Associations: associations,
		Seeder:       seeder,
	}

	server := NewServer(cfg, s, authority, scopes, svc, logger)
	t.Cleanup(server.Close)

	return &testServer{Server: server, svc: svc}
}

// do performs a request against the server. A nil body sends no payload;
// an empty token sends no authorization header.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	return rec
}

// seedUser creates a user with the given grants and returns an access token
// for it. The password is always "<username>password".
func (ts *testServer) seedUser(t *testing.T, username, scopes string) string {
	t.Helper()
	ctx := context.Background()

	_, err := ts.svc.Users.Create(ctx, service.CreateUserRequest{
		Username: username,
		Password: username + "password",
		Scopes:   scopes,
	})
	require.NoError(t, err)

	resp, err := ts.svc.Auth.Login(ctx, service.LoginRequest{
		Username: username,
		Password: username + "password",
	})
	require.NoError(t, err)
	return resp.AccessToken
}

// decodeData unmarshals the data field of a response envelope.
func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data    T      `json:"data"`
		Error   string `json:"error"`
		Success bool   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decodeData[map[string]string](t, rec)
	require.Equal(t, "ok", status["status"])
}
