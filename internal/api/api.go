// Package api assembles the verification API module with the document
// system and route registration.
package api

import (
	"net/http"

	"github.com/mherrada/veridoc/internal/config"
	"github.com/mherrada/veridoc/pkg/middleware"
	"github.com/mherrada/veridoc/pkg/module"
	"github.com/mherrada/veridoc/pkg/routes"
)

// NewModule creates the verification API module with its handlers and middleware.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain) (*module.Module, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}

// NewDownloadModule creates the module that redirects stored file keys to
// short-lived signed URLs.
func NewDownloadModule(cfg *config.Config, runtime *Runtime, domain *Domain) *module.Module {
	mux := http.NewServeMux()
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).DownloadRoutes(),
	)

	m := module.New("/descargar", mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))

	return m
}
