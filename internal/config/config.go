// Package config loads the service configuration from config.toml, an optional
// config.<env>.toml overlay, and VERUM_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/verum/pkg/database"
	"github.com/JaimeStill/verum/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVerumEnv             = "VERUM_ENV"
	EnvVerumShutdownTimeout = "VERUM_SHUTDOWN_TIMEOUT"
	EnvVerumVersion         = "VERUM_VERSION"
	EnvDatabaseDSN          = "VERUM_DB_DSN"
)

var databaseEnv = &database.Env{
	URL:             EnvDatabaseDSN,
	Host:            "VERUM_DB_HOST",
	Port:            "VERUM_DB_PORT",
	Name:            "VERUM_DB_NAME",
	User:            "VERUM_DB_USER",
	Password:        "VERUM_DB_PASSWORD",
	SSLMode:         "VERUM_DB_SSL_MODE",
	MaxOpenConns:    "VERUM_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VERUM_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VERUM_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VERUM_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "VERUM_STORAGE_PROVIDER",
	ContainerName:    "VERUM_STORAGE_CONTAINER_NAME",
	ConnectionString: "VERUM_STORAGE_CONNECTION_STRING",
	AccountURL:       "VERUM_STORAGE_ACCOUNT_URL",
}

// Config is the root configuration for the Verum service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Seal            SealConfig      `toml:"seal"`
	Auth            AuthConfig      `toml:"auth"`
	Leveler         LevelerConfig   `toml:"leveler"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the VERUM_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVerumEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
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

	if err := cfg.Finalize(); err != nil {
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
	c.Seal.Merge(&overlay.Seal)
	c.Auth.Merge(&overlay.Auth)
	c.Leveler.Merge(&overlay.Leveler)
}

// Finalize applies defaults, environment overrides, and validation to every sub-config.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	for _, sub := range []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"seal", c.Seal.Finalize},
		{"auth", c.Auth.Finalize},
		{"leveler", c.Leveler.Finalize},
	} {
		if err := sub.finalize(); err != nil {
			return fmt.Errorf("%s: %w", sub.name, err)
		}
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
	if v := os.Getenv(EnvVerumShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVerumVersion); v != "" {
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
	if env := os.Getenv(EnvVerumEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
