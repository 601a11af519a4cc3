// Package config loads and finalizes the service configuration from
// config.toml, an optional environment overlay, and VERIDOC_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mherrada/veridoc/internal/auth"
	"github.com/mherrada/veridoc/internal/sweep"
	"github.com/mherrada/veridoc/pkg/database"
	"github.com/mherrada/veridoc/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVeridocEnv             = "VERIDOC_ENV"
	EnvVeridocShutdownTimeout = "VERIDOC_SHUTDOWN_TIMEOUT"
	EnvVeridocVersion         = "VERIDOC_VERSION"
)

var databaseEnv = &database.Env{
	Driver:          "VERIDOC_DB_DRIVER",
	Host:            "VERIDOC_DB_HOST",
	Port:            "VERIDOC_DB_PORT",
	Name:            "VERIDOC_DB_NAME",
	User:            "VERIDOC_DB_USER",
	Password:        "VERIDOC_DB_PASSWORD",
	SSLMode:         "VERIDOC_DB_SSL_MODE",
	Path:            "VERIDOC_DB_PATH",
	MaxOpenConns:    "VERIDOC_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VERIDOC_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VERIDOC_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VERIDOC_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "VERIDOC_STORAGE_PROVIDER",
	ContainerName:    "VERIDOC_STORAGE_CONTAINER_NAME",
	ConnectionString: "VERIDOC_STORAGE_CONNECTION_STRING",
	Endpoint:         "VERIDOC_STORAGE_ENDPOINT",
	AccessKey:        "VERIDOC_STORAGE_ACCESS_KEY",
	SecretKey:        "VERIDOC_STORAGE_SECRET_KEY",
	UseSSL:           "VERIDOC_STORAGE_USE_SSL",
	SignedURLTTL:     "VERIDOC_STORAGE_SIGNED_URL_TTL",
}

var authEnv = &auth.Env{
	Enabled:       "VERIDOC_AUTH_ENABLED",
	Issuer:        "VERIDOC_AUTH_ISSUER",
	ClientID:      "VERIDOC_AUTH_CLIENT_ID",
	ClientSecret:  "VERIDOC_AUTH_CLIENT_SECRET",
	RedirectURL:   "VERIDOC_AUTH_REDIRECT_URL",
	SessionName:   "VERIDOC_AUTH_SESSION_NAME",
	SessionSecret: "VERIDOC_AUTH_SESSION_SECRET",
}

var sweepEnv = &sweep.Env{
	Enabled:      "VERIDOC_SWEEP_ENABLED",
	Hour:         "VERIDOC_SWEEP_HOUR",
	Minute:       "VERIDOC_SWEEP_MINUTE",
	RunOnStartup: "VERIDOC_SWEEP_RUN_ON_STARTUP",
}

// Config is the root configuration for the verification service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Auth            auth.Config     `toml:"auth"`
	Sweep           sweep.Config    `toml:"sweep"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VERIDOC_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVeridocEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Sweep.Merge(&overlay.Sweep)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Sweep.Finalize(sweepEnv); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVeridocShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVeridocVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVeridocEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
