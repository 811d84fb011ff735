// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/internal/infrastructure"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Metrics sits innermost so the matched route pattern is visible to it.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Auth(runtime.Verifier, runtime.Logger))
	m.Use(middleware.Metrics(runtime.Metrics.HTTP))

	return m, nil
}
