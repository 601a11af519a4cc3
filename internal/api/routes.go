package api

import (
	"net/http"

	"github.com/mherrada/veridoc/internal/config"
	"github.com/mherrada/veridoc/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
