// Package admin serves the server-rendered administration panel: record
// listing, manual uploads, deletion history, and QR generation.
package admin

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/mherrada/veridoc/internal/auth"
	"github.com/mherrada/veridoc/internal/deletions"
	"github.com/mherrada/veridoc/internal/documents"
	"github.com/mherrada/veridoc/pkg/middleware"
	"github.com/mherrada/veridoc/pkg/module"
	"github.com/mherrada/veridoc/pkg/pagination"
	"github.com/mherrada/veridoc/pkg/routes"
	"github.com/mherrada/veridoc/pkg/web"
)

//go:embed templates/layout.html
var layoutFS embed.FS

//go:embed templates/views
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutName = "layout"

var dashboardView = web.ViewDef{Route: "/dashboard", Template: "dashboard.html", Title: "Dashboard"}

var views = []web.ViewDef{
	{Route: "/registros", Template: "registros.html", Title: "Registros"},
	{Route: "/subir", Template: "subir_pdf.html", Title: "Subir PDF"},
	{Route: "/borrados", Template: "borrados.html", Title: "Borrados"},
	{Route: "/generar-qr", Template: "generar_qr.html", Title: "Generar QR"},
	dashboardView,
}

// Handler renders the admin pages and executes their form actions.
type Handler struct {
	docs          documents.System
	deletions     deletions.System
	auth          *auth.System
	views         *web.TemplateSet
	pagination    pagination.Config
	maxUploadSize int64
	logger        *slog.Logger
}

// New creates the admin handler with pre-parsed templates.
func New(
	docs documents.System,
	dels deletions.System,
	authSys *auth.System,
	pagination pagination.Config,
	maxUploadSize int64,
	logger *slog.Logger,
) (*Handler, error) {
	ts, err := web.NewTemplateSet(layoutFS, viewFS, "templates/layout.html", "templates/views", "/admin", views)
	if err != nil {
		return nil, err
	}

	return &Handler{
		docs:          docs,
		deletions:     dels,
		auth:          authSys,
		views:         ts,
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("handler", "admin"),
	}, nil
}

// Routes returns the admin panel route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/registros", Handler: h.Registros},
			{Method: "POST", Pattern: "/eliminar/{id}/{archivo...}", Handler: h.Eliminar},
			{Method: "GET", Pattern: "/subir", Handler: h.SubirForm},
			{Method: "POST", Pattern: "/subir_pdf", Handler: h.SubirPDF},
			{Method: "GET", Pattern: "/borrados", Handler: h.Borrados},
			{Method: "GET", Pattern: "/generar-qr", Handler: h.GenerarQR},
			{Method: "GET", Pattern: "/qr.png", Handler: h.QRImage},
			{Method: "GET", Pattern: "/static/", Handler: web.DistServer(staticFS, "static", "/static/")},
		},
	}
}

// DashboardRoutes returns the dashboard landing page route group.
func (h *Handler) DashboardRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{$}", Handler: h.views.PageHandler(layoutName, dashboardView)},
		},
	}
}

// NewModule creates the admin module behind the auth gate.
func NewModule(h *Handler, logger *slog.Logger) *module.Module {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	m := module.New("/admin", mux)
	m.Use(h.auth.RequireAdmin)
	m.Use(middleware.Logger(logger))

	return m
}

// NewDashboardModule creates the dashboard module behind the auth gate.
func NewDashboardModule(h *Handler, logger *slog.Logger) *module.Module {
	mux := http.NewServeMux()
	routes.Register(mux, h.DashboardRoutes())

	m := module.New("/dashboard", mux)
	m.Use(h.auth.RequireAdmin)
	m.Use(middleware.Logger(logger))

	return m
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, template, title string, data any) {
	vd := web.ViewData{
		Title:   title,
		Flashes: h.auth.Flashes(w, r),
		Data:    data,
	}
	if err := h.views.Render(w, layoutName, template, vd); err != nil {
		h.logger.Error("render failed", "template", template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
