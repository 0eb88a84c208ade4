package providers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/api"
	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/service"
)

const shutdownTimeout = 10 * time.Second

// ProvideAPIServer provides the routed API server.
func ProvideAPIServer(i do.Injector) (*api.Server, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*StoreHandle](i)
	authority := do.MustInvoke[auth.Authority](i)
	scopes := do.MustInvoke[*scope.Resolver](i)
	log := do.MustInvoke[*slog.Logger](i)

	services := &api.Services{
		Auth:         do.MustInvoke[*service.AuthService](i),
		Libraries:    do.MustInvoke[*service.LibraryService](i),
		Users:        do.MustInvoke[*service.UserService](i),
		Catalog:      do.MustInvoke[*service.CatalogService](i),
		Associations: do.MustInvoke[*service.AssociationService](i),
		Seeder:       do.MustInvoke[*service.Seeder](i),
	}

	return api.NewServer(cfg, store.Store, authority, scopes, services, log), nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
	log *slog.Logger
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the listening HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	apiServer := do.MustInvoke[*api.Server](i)
	log := do.MustInvoke[*slog.Logger](i)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, api: apiServer, log: log}, nil
}
