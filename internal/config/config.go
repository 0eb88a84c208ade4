// Package config loads application configuration from command-line flags,
// environment variables, and an optional .env file, in that precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	Scope  ScopeConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// IsProduction reports whether the server runs in the production environment.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig holds database configuration.
type StoreConfig struct {
	Path string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Enabled disables every scope check when false. The not-production
	// gate is independent of token state and stays active regardless.
	Enabled bool
	// TokenKey is the PASETO v4 symmetric key as a 64-character hex string.
	TokenKey             string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	// LoginRPS and LoginBurst bound login attempts per remote address.
	LoginRPS   float64
	LoginBurst int
}

// ScopeConfig holds scope-resolver cache configuration.
type ScopeConfig struct {
	CacheTTL  time.Duration
	CacheSize int
}

// Load builds the configuration with precedence: flags, environment
// variables, .env file, defaults.
func Load() (*Config, error) {
	p := newFlagParser()
	if err := p.fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	return build(p)
}

// flagValues collects raw flag strings before precedence is applied.
type flagValues struct {
	env, logLevel, port, dbPath      string
	authEnabled, tokenKey            string
	accessDuration, refreshDuration  string
	readTimeout, writeTimeout        string
	idleTimeout                      string
	loginRPS, loginBurst             string
	scopeCacheTTL, scopeCacheEntries string
	envFile                          string
}

type flagParser struct {
	fs *flag.FlagSet
	v  flagValues
}

func newFlagParser() *flagParser {
	p := &flagParser{fs: flag.NewFlagSet("longbox", flag.ContinueOnError)}
	p.fs.StringVar(&p.v.env, "env", "", "Environment (development, staging, production)")
	p.fs.StringVar(&p.v.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	p.fs.StringVar(&p.v.port, "port", "", "Server port (default: 8080)")
	p.fs.StringVar(&p.v.dbPath, "db-path", "", "Path to the sqlite database file")
	p.fs.StringVar(&p.v.authEnabled, "auth-enabled", "", "Enable authorization checks (default: true)")
	p.fs.StringVar(&p.v.tokenKey, "token-key", "", "PASETO v4 symmetric key (64 hex characters)")
	p.fs.StringVar(&p.v.accessDuration, "access-token-duration", "", "Access token lifetime (default: 15m)")
	p.fs.StringVar(&p.v.refreshDuration, "refresh-token-duration", "", "Refresh token lifetime (default: 720h)")
	p.fs.StringVar(&p.v.readTimeout, "read-timeout", "", "HTTP read timeout (default: 15s)")
	p.fs.StringVar(&p.v.writeTimeout, "write-timeout", "", "HTTP write timeout (default: 15s)")
	p.fs.StringVar(&p.v.idleTimeout, "idle-timeout", "", "HTTP idle timeout (default: 60s)")
	p.fs.StringVar(&p.v.loginRPS, "login-rps", "", "Login attempts per second per address (default: 1)")
	p.fs.StringVar(&p.v.loginBurst, "login-burst", "", "Login attempt burst per address (default: 5)")
	p.fs.StringVar(&p.v.scopeCacheTTL, "scope-cache-ttl", "", "Scope cache entry TTL (default: 5m)")
	p.fs.StringVar(&p.v.scopeCacheEntries, "scope-cache-size", "", "Scope cache max entries (default: 1024)")
	p.fs.StringVar(&p.v.envFile, "env-file", ".env", "Path to .env file")
	return p
}

func build(p *flagParser) (*Config, error) {
	v := &p.v

	// Load .env if present; missing file is fine.
	_ = loadEnvFile(v.envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: value(v.env, "LONGBOX_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: value(v.logLevel, "LONGBOX_LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: value(v.port, "LONGBOX_PORT", "8080"),
		},
		Store: StoreConfig{
			Path: value(v.dbPath, "LONGBOX_DB_PATH", "longbox.db"),
		},
		Auth: AuthConfig{
			Enabled:  boolValue(v.authEnabled, "LONGBOX_AUTH_ENABLED", true),
			TokenKey: value(v.tokenKey, "LONGBOX_TOKEN_KEY", ""),
		},
	}

	var err error
	if cfg.Auth.AccessTokenDuration, err = durationValue(v.accessDuration, "LONGBOX_ACCESS_TOKEN_DURATION", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Auth.RefreshTokenDuration, err = durationValue(v.refreshDuration, "LONGBOX_REFRESH_TOKEN_DURATION", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Server.ReadTimeout, err = durationValue(v.readTimeout, "LONGBOX_READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = durationValue(v.writeTimeout, "LONGBOX_WRITE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = durationValue(v.idleTimeout, "LONGBOX_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}
	if cfg.Scope.CacheTTL, err = durationValue(v.scopeCacheTTL, "LONGBOX_SCOPE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.Scope.CacheSize, err = intValue(v.scopeCacheEntries, "LONGBOX_SCOPE_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginRPS, err = floatValue(v.loginRPS, "LONGBOX_LOGIN_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.Auth.LoginBurst, err = intValue(v.loginBurst, "LONGBOX_LOGIN_BURST", 5); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required values are present and well-formed.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("environment is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Store.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.TokenKey != "" && len(c.Auth.TokenKey) != 64 {
		return fmt.Errorf("token key must be 64 hex characters, got %d", len(c.Auth.TokenKey))
	}
	if c.App.IsProduction() && c.Auth.TokenKey == "" {
		return errors.New("token key is required in production")
	}
	return nil
}

// value returns the first non-empty of flag, env var, default.
func value(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

func boolValue(flagValue, envKey string, defaultValue bool) bool {
	s := value(flagValue, envKey, "")
	if s == "" {
		return defaultValue
	}
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func durationValue(flagValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	s := value(flagValue, envKey, "")
	if s == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", envKey, s)
	}
	return d, nil
}

func intValue(flagValue, envKey string, defaultValue int) (int, error) {
	s := value(flagValue, envKey, "")
	if s == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", envKey, s)
	}
	return n, nil
}

func floatValue(flagValue, envKey string, defaultValue float64) (float64, error) {
	s := value(flagValue, envKey, "")
	if s == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %q", envKey, s)
	}
	return f, nil
}

// loadEnvFile reads KEY=VALUE lines into the process environment. Existing
// environment variables win over file values.
func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
	return scanner.Err()
}
