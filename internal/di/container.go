// Package di provides dependency injection configuration for the server.
package di

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/api"
	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/di/providers"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideScopeResolver)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenKey)
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideAuthority)

	// Business services
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideAssociationService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideSeeder)

	// Server
	do.Provide(injector, providers.ProvideAPIServer)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services, triggering lazy construction in
// dependency order and starting the HTTP listener.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*slog.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*scope.Resolver](injector)
	_ = do.MustInvoke[providers.TokenKey](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[auth.Authority](injector)

	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.AssociationService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.Seeder](injector)

	_ = do.MustInvoke[*api.Server](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
