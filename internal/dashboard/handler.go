package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

// Handler serves the role dashboards over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the dashboard HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers dashboard routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/api/dashboard", h.summary)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	p, ok := policy.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	req := Request{
		View:    View(r.URL.Query().Get("view")),
		Subject: r.URL.Query().Get("user"),
	}
	summary, err := h.service.Summary(r.Context(), p, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
