package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mannuking/Project-Radius/internal/auth"
	"github.com/mannuking/Project-Radius/internal/dashboard"
	"github.com/mannuking/Project-Radius/internal/importer"
	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/observability"
	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/shared"
	"github.com/mannuking/Project-Radius/internal/users"
)

// RouterParams collects everything the router assembles.
type RouterParams struct {
	Config      Config
	Sessions    *shared.SessionManager
	CSRF        *shared.CSRFManager
	AuthService *auth.Service
	Auth        *auth.Handler
	Invoices    *invoice.Handler
	Dashboards  *dashboard.Handler
	Imports     *importer.Handler
	Users       *users.Handler
	Logger      *slog.Logger
}

// NewRouter assembles the HTTP surface.
func NewRouter(p RouterParams) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(observability.Middleware)
	r.Use(SecureHeaders(p.Config))
	r.Use(RateLimit(p.Config))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", observability.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(p.Sessions, p.Logger))
		r.Use(auth.PrincipalMiddleware(p.AuthService))
		r.Use(CSRFProtect(p.CSRF))

		p.Auth.MountRoutes(r)
		p.Invoices.MountRoutes(r)
		p.Dashboards.MountRoutes(r)
		p.Imports.MountRoutes(r)
		p.Users.MountRoutes(r)
	})

	return r
}
