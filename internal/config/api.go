package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/verum/pkg/formatting"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/openapi"
	"github.com/JaimeStill/verum/pkg/pagination"
)

const (
	EnvAPIBasePath      = "VERUM_API_BASE_PATH"
	EnvAPIMaxUploadSize = "VERUM_API_MAX_UPLOAD_SIZE"
	EnvAPIMaxBodySize   = "VERUM_API_MAX_BODY_SIZE"

	defaultMaxUploadSize = 50 << 20
	defaultMaxBodySize   = 1 << 20
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "VERUM_CORS_ENABLED",
	Origins:          "VERUM_CORS_ORIGINS",
	AllowedMethods:   "VERUM_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "VERUM_CORS_ALLOWED_HEADERS",
	AllowCredentials: "VERUM_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "VERUM_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "VERUM_OPENAPI_TITLE",
	Description: "VERUM_OPENAPI_DESCRIPTION",
	ServerURL:   "VERUM_OPENAPI_SERVER_URL",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "VERUM_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "VERUM_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request size limits, CORS, pagination, and API document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize formatting.Size       `toml:"max_upload_size"`
	MaxBodySize   formatting.Size       `toml:"max_body_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	if err := c.validate(); err != nil {
		return err
	}

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != 0 {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.MaxBodySize != 0 {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = defaultMaxUploadSize
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
}

func (c *APIConfig) loadEnv() error {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	for name, dst := range map[string]*formatting.Size{
		EnvAPIMaxUploadSize: &c.MaxUploadSize,
		EnvAPIMaxBodySize:   &c.MaxBodySize,
	} {
		if v := os.Getenv(name); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	return nil
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %q", c.BasePath)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size must be positive")
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max_body_size must be positive")
	}
	return nil
}
