// Package providers contains dependency injection providers for the server.
package providers

import (
	"log/slog"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/longbox/longbox-server/internal/auth"
	"github.com/longbox/longbox-server/internal/config"
	"github.com/longbox/longbox-server/internal/logger"
	"github.com/longbox/longbox-server/internal/validation"
)

// TokenKey is the hex-encoded PASETO symmetric key.
type TokenKey string

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.Load()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*slog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("starting longbox server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"db_path", cfg.Store.Path,
	)

	return log, nil
}

// ProvideTokenKey provides the token key from config, falling back to a
// key file next to the database.
func ProvideTokenKey(i do.Injector) (TokenKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	if cfg.Auth.TokenKey != "" {
		return TokenKey(cfg.Auth.TokenKey), nil
	}

	key, err := auth.LoadOrGenerateKey(filepath.Dir(cfg.Store.Path))
	if err != nil {
		return "", err
	}
	log.Info("token key loaded from key file")
	return TokenKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	key := do.MustInvoke[TokenKey](i)

	return auth.NewTokenService(string(key), cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
}

// ProvideAuthority provides the store-backed authorization authority.
func ProvideAuthority(i do.Injector) (auth.Authority, error) {
	store := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*slog.Logger](i)

	return auth.NewStoreAuthority(store.Store, tokens, log), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}
