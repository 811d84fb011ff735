package main

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JaimeStill/verum/internal/api"
	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/internal/infrastructure"
	"github.com/JaimeStill/verum/pkg/module"
)

// Modules holds the prefixed modules mounted on the root router.
type Modules struct {
	API *module.Module
}

// NewModules creates every HTTP module from the shared infrastructure.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

// Mount registers each module on router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]any{"status": "ok"})
	}))

	router.HandleNative("GET /readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := readiness(infra)
		writeStatus(w, status, body)
	}))

	router.HandleNative("GET /metrics", promhttp.HandlerFor(infra.Metrics.Registry, promhttp.HandlerOpts{}))

	return router
}

// readiness requires completed startup and every subsystem check to pass.
// Failing subsystems are listed by name.
func readiness(infra *infrastructure.Infrastructure) (int, map[string]any) {
	if !infra.Lifecycle.Ready() {
		return http.StatusServiceUnavailable, map[string]any{"status": "not ready"}
	}

	var failing []string
	for name, check := range infra.Checks() {
		if !check.Ready() {
			failing = append(failing, name)
		}
	}
	if len(failing) > 0 {
		sort.Strings(failing)
		return http.StatusServiceUnavailable, map[string]any{"status": "not ready", "failing": failing}
	}

	return http.StatusOK, map[string]any{"status": "ready"}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
