package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/verum/internal/config"
	"github.com/JaimeStill/verum/pkg/openapi"
	"github.com/JaimeStill/verum/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	maxUpload := int64(cfg.API.MaxUploadSize)
	maxBody := int64(cfg.API.MaxBodySize)

	groups := []routes.Group{
		domain.Cases.Handler(maxBody).Routes(),
		domain.Exhibits.Handler(maxUpload, maxBody).Routes(),
		domain.Analyses.Handler(maxBody).Routes(),
	}

	spec, err := document(cfg, groups)
	if err != nil {
		return err
	}

	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	runtime.Logger.Debug("routes registered", "base_path", cfg.API.BasePath, "patterns", routes.Patterns(groups...))
	return nil
}

func document(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))
	routes.Document(spec, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("openapi document: %w", err)
	}
	return data, nil
}
