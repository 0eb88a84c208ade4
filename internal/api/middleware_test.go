package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/service"
)

func TestGate_MissingOrMalformedHeader(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong schema", "Token abc"},
		{"bare bearer", "Bearer"},
		{"garbage token", "Bearer not-a-real-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			ts.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestGate_ScopedAccess(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	lib, err := ts.svc.Libraries.Create(ctx, service.CreateLibraryRequest{Name: "Acme", Scope: "acme"})
	require.NoError(t, err)

	regular := ts.seedUser(t, "regular", "acme regular")
	admin := ts.seedUser(t, "admin", "acme admin")
	outsider := ts.seedUser(t, "outsider", "zen regular")
	root := ts.seedUser(t, "root", "superuser")

	authorsPath := "/api/v1/libraries/" + lib.ID + "/authors"

	tests := []struct {
		name  string
		token string
		path  string
		want  int
	}{
		{"regular grant reads catalog", regular, authorsPath, http.StatusOK},
		{"admin grant implies regular", admin, authorsPath, http.StatusOK},
		{"wrong scope is forbidden", outsider, authorsPath, http.StatusForbidden},
		{"superuser reads any catalog", root, authorsPath, http.StatusOK},
		{"regular cannot list libraries", regular, "/api/v1/libraries", http.StatusForbidden},
		{"any valid token reads the library", outsider, "/api/v1/libraries/" + lib.ID, http.StatusOK},
		{"regular cannot list users", regular, "/api/v1/users", http.StatusForbidden},
		{"superuser lists users", root, "/api/v1/users", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestGate_UnknownLibraryIsNotFound(t *testing.T) {
	ts := newTestServer(t)
	regular := ts.seedUser(t, "regular", "acme regular")

	rec := ts.do(t, http.MethodGet, "/api/v1/libraries/lib_missing/authors", regular, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGate_AuthDisabled(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Auth.Enabled = false
	})

	// No token anywhere, everything passes the gate.
	rec := ts.do(t, http.MethodGet, "/api/v1/libraries", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/v1/libraries", "", service.CreateLibraryRequest{
		Name: "Acme", Scope: "acme",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReseed_EnvironmentGate(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"development allows reseed", "development", http.StatusOK},
		{"staging allows reseed", "staging", http.StatusOK},
		{"production refuses", "production", http.StatusForbidden},
		{"unknown environment refuses", "mystery", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(cfg *config.Config) {
				cfg.App.Environment = tt.env
			})
			rec := ts.do(t, http.MethodPost, "/api/v1/admin/reseed", "", nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestReseed_IgnoresAuthToggle(t *testing.T) {
	// Disabling auth must not open the environment gate.
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Auth.Enabled = false
		cfg.App.Environment = "production"
	})

	rec := ts.do(t, http.MethodPost, "/api/v1/admin/reseed", "", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Auth.LoginRPS = 0.001
		cfg.Auth.LoginBurst = 2
	})

	body := service.LoginRequest{Username: "nobody", Password: "irrelevant"}
	for i := 0; i < 2; i++ {
		rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
