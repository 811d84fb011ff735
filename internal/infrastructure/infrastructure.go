// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, sealing, analysis,
// metrics, authentication) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/leveler"
	"github.com/JaimeStill/verum/pkg/database"
	"github.com/JaimeStill/verum/pkg/lifecycle"
	"github.com/JaimeStill/verum/pkg/middleware"
	"github.com/JaimeStill/verum/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, evidence storage, sealing, and analysis.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Sealer    *evidence.Sealer
	Leveler   *leveler.Leveler
	Metrics   *Metrics
	// Verifier is nil when authentication is disabled.
	Verifier middleware.TokenVerifier

	auth *oidcVerifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with an explicit logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	sealer, err := evidence.NewSealer(cfg.Seal.Keys())
	if err != nil {
		return nil, fmt.Errorf("sealer init failed: %w", err)
	}
	logger.Info("seal key configured", "source", cfg.Seal.Source())

	rules, err := cfg.Leveler.Rules()
	if err != nil {
		return nil, fmt.Errorf("leveler init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Sealer:    sealer,
		Leveler:   leveler.New(rules, leveler.WithLogger(logger.With("system", "leveler"))),
		Metrics:   NewMetrics(cfg.Version),
	}

	if cfg.Auth.Enabled {
		infra.auth = newOIDCVerifier(&cfg.Auth, logger)
		infra.Verifier = infra.auth
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.auth != nil {
		i.auth.Start(i.Lifecycle)
	}
	return nil
}

// Checks returns the readiness checks for subsystems that report readiness.
func (i *Infrastructure) Checks() map[string]lifecycle.ReadinessChecker {
	checks := map[string]lifecycle.ReadinessChecker{
		"database": i.Database,
	}
	if i.auth != nil {
		checks["auth"] = i.auth
	}
	return checks
}
