package storage

import (
	"fmt"
	"os"
)

// Storage providers.
const (
	ProviderAzure  = "azure"
	ProviderMemory = "memory"
)

// Config selects and configures the blob storage provider.
// The azure provider authenticates with ConnectionString when set,
// otherwise with the default Azure credential chain against AccountURL.
type Config struct {
	Provider         string `toml:"provider"`
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider         string
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "evidence"
	}
}

func (c *Config) loadEnv(env *Env) {
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{env.Provider, &c.Provider},
		{env.ContainerName, &c.ContainerName},
		{env.ConnectionString, &c.ConnectionString},
		{env.AccountURL, &c.AccountURL},
	} {
		if f.name == "" {
			continue
		}
		if v := os.Getenv(f.name); v != "" {
			*f.dst = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderMemory:
		return nil
	case ProviderAzure:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	return nil
}
