// Package main wipes the configured database and loads the development
// seed scenario. Refuses to run against a production environment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/di/providers"
	"github.com/longbox/longbox-server/internal/service"
)

func main() {
	injector := do.New()

	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideScopeResolver)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideAssociationService)
	do.Provide(injector, providers.ProvideSeeder)

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.App.IsProduction() {
		fmt.Fprintln(os.Stderr, "refusing to reseed a production database")
		os.Exit(1)
	}

	log := do.MustInvoke[*slog.Logger](injector)
	seeder := do.MustInvoke[*service.Seeder](injector)

	if err := seeder.Reseed(context.Background()); err != nil {
		log.Error("reseed failed", "error", err)
		os.Exit(1)
	}
	log.Info("reseed complete", "db_path", cfg.Store.Path)

	if err := injector.Shutdown(); err != nil {
		log.Error("shutdown error", "error", err)
	}
}
