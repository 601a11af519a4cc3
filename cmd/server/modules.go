package main

import (
	"encoding/json"
	"net/http"

	"github.com/mherrada/veridoc/internal/admin"
	"github.com/mherrada/veridoc/internal/api"
	"github.com/mherrada/veridoc/internal/config"
	"github.com/mherrada/veridoc/internal/infrastructure"
	"github.com/mherrada/veridoc/internal/sweep"
	"github.com/mherrada/veridoc/pkg/middleware"
	"github.com/mherrada/veridoc/pkg/module"
	"github.com/mherrada/veridoc/pkg/routes"
)

type Modules struct {
	API       *module.Module
	Download  *module.Module
	Auth      *module.Module
	Admin     *module.Module
	Dashboard *module.Module
	Sweep     *sweep.Scheduler
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	runtime := api.NewRuntime(cfg, infra)

	domain, err := api.NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	adminHandler, err := admin.New(
		domain.Documents,
		domain.Deletions,
		infra.Auth,
		cfg.API.Pagination,
		cfg.API.MaxUploadSizeBytes(),
		infra.Logger,
	)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API:       apiModule,
		Download:  api.NewDownloadModule(cfg, runtime, domain),
		Auth:      newAuthModule(infra),
		Admin:     admin.NewModule(adminHandler, infra.Logger),
		Dashboard: admin.NewDashboardModule(adminHandler, infra.Logger),
		Sweep:     sweep.New(domain.Documents, cfg.Sweep, infra.Logger),
	}, nil
}

func newAuthModule(infra *infrastructure.Infrastructure) *module.Module {
	mux := http.NewServeMux()
	routes.Register(mux, infra.Auth.Routes())

	m := module.New("/auth", mux)
	m.Use(middleware.Logger(infra.Logger))

	return m
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Download)
	router.Mount(m.Auth)
	router.Mount(m.Admin)
	router.Mount(m.Dashboard)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
