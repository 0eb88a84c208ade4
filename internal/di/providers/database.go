package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	db, err := sqlite.Open(cfg.Store.Path, log)
	if err != nil {
		return nil, err
	}

	log.Info("database initialized", "path", cfg.Store.Path)
	return &StoreHandle{Store: db}, nil
}

// ProvideScopeResolver provides the cached library-scope resolver.
func ProvideScopeResolver(i do.Injector) (*scope.Resolver, error) {
	cfg := do.MustInvoke[*config.Config](i)
	store := do.MustInvoke[*StoreHandle](i)

	return scope.NewResolver(store.Store, cfg.Scope.CacheSize, cfg.Scope.CacheTTL), nil
}
