package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvAuthEnabled  = "VERUM_AUTH_ENABLED"
	EnvAuthIssuer   = "VERUM_AUTH_ISSUER"
	EnvAuthClientID = "VERUM_AUTH_CLIENT_ID"
)

// AuthConfig configures OIDC bearer token verification for the API.
// When disabled, requests are not authenticated and custody is unattributed.
type AuthConfig struct {
	Enabled  bool   `toml:"enabled"`
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

// Finalize applies environment variable overrides and validation.
func (c *AuthConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvAuthIssuer); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv(EnvAuthClientID); v != "" {
		c.ClientID = v
	}
}

func (c *AuthConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when enabled")
	}
	return nil
}
