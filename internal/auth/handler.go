package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
	"github.com/mannuking/Project-Radius/internal/shared"
)

// Handler exposes login, logout and identity endpoints.
type Handler struct {
	service  *Service
	sessions *shared.SessionManager
	csrf     *shared.CSRFManager
}

// NewHandler builds the auth HTTP handler.
func NewHandler(service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{service: service, sessions: sessions, csrf: csrf}
}

// MountRoutes registers auth routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CSRFToken string `json:"csrf_token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if in.Username == "" || in.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "username and password are required")
		return
	}

	u, err := h.service.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	sess.SetUser(u.ID.String())
	token, err := h.csrf.EnsureToken(r.Context(), sess)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.service.NoteLogin(r.Context(), u.ID, sess.ID)

	httpx.JSON(w, http.StatusOK, loginResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CSRFToken: token,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.service.NoteLogout(r.Context(), sess.ID)
		h.sessions.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := policy.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"id":        p.ID.String(),
		"full_name": p.Name,
		"email":     p.Email,
		"role":      string(p.Role),
	})
}
