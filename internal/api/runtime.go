package api

import (
	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/internal/infrastructure"
	"github.com/JaimeStill/verum/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	BatchLimit int
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		BatchLimit:     cfg.Leveler.BatchLimit,
	}
}
