package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config holds the metadata of the generated API document.
// ServerURL, when set, is the public origin the document advertises in
// front of the base path, for deployments behind a proxy.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	ServerURL   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Verum API"
	}
	if c.Description == "" {
		c.Description = "Evidence custody, sealing, verification, and deterministic integrity analysis."
	}

	if env != nil {
		for _, o := range []struct {
			name string
			dst  *string
		}{
			{env.Title, &c.Title},
			{env.Description, &c.Description},
			{env.ServerURL, &c.ServerURL},
		} {
			if o.name == "" {
				continue
			}
			if v := os.Getenv(o.name); v != "" {
				*o.dst = v
			}
		}
	}

	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server_url must be an absolute URL: %q", c.ServerURL)
		}
		c.ServerURL = strings.TrimSuffix(c.ServerURL, "/")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.ServerURL != "" {
		c.ServerURL = overlay.ServerURL
	}
}

// Server returns the server URL the document advertises for basePath.
func (c *Config) Server(basePath string) string {
	return c.ServerURL + basePath
}
