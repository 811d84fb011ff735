package main

import (
	"time"

	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

// NewServer initializes infrastructure and modules without starting them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start runs startup hooks and begins serving. Readiness is reported once
// every startup hook has succeeded.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.http.Start(s.infra.Lifecycle)

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("subsystem startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops every subsystem within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
