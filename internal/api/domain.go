package api

import (
	"github.com/JaimeStill/verum/internal/analyses"
	"github.com/JaimeStill/verum/internal/cases"
	"github.com/JaimeStill/verum/internal/exhibits"
	"github.com/JaimeStill/verum/internal/infrastructure"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases    cases.System
	Exhibits exhibits.System
	Analyses analyses.System
}

// NewDomain creates all domain systems from the API runtime and registers
// their collectors on the service registry.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()
	reg := runtime.Metrics.Registry

	casesSystem := cases.New(
		db,
		runtime.Logger,
		runtime.Pagination,
	)

	exhibitsSystem := exhibits.New(
		db,
		runtime.Storage,
		runtime.Sealer,
		exhibits.NewMetrics(reg, infrastructure.Namespace),
		runtime.Logger,
		runtime.Pagination,
		runtime.BatchLimit,
	)

	analysesSystem := analyses.New(
		db,
		exhibitsSystem,
		runtime.Leveler,
		analyses.NewMetrics(reg, infrastructure.Namespace),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Cases:    casesSystem,
		Exhibits: exhibitsSystem,
		Analyses: analysesSystem,
	}
}
