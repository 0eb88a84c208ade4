package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/scope"
	"github.com/longbox/longbox-server/internal/service"
	"github.com/longbox/longbox-server/internal/validation"
)

// ProvideLibraryService provides the library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	scopes := do.MustInvoke[*scope.Resolver](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewLibraryService(store.Store, scopes, validate, log), nil
}

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewUserService(store.Store, validate, log), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewCatalogService(store.Store, validate, log), nil
}

// ProvideAssociationService provides the association service.
func ProvideAssociationService(i do.Injector) (*service.AssociationService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAssociationService(store.Store, log), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	store := do.MustInvoke[*StoreHandle](i)
	authority := do.MustInvoke[auth.Authority](i)
	users := do.MustInvoke[*service.UserService](i)
	validate := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewAuthService(store.Store, authority, users, validate, log), nil
}

// ProvideSeeder provides the development database seeder.
func ProvideSeeder(i do.Injector) (*service.Seeder, error) {
	store := do.MustInvoke[*StoreHandle](i)
	libraries := do.MustInvoke[*service.LibraryService](i)
	users := do.MustInvoke[*service.UserService](i)
	catalog := do.MustInvoke[*service.CatalogService](i)
	associations := do.MustInvoke[*service.AssociationService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return service.NewSeeder(store.Store, libraries, users, catalog, associations, log), nil
}
