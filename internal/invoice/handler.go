package invoice

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
	"github.com/mannuking/Project-Radius/internal/shared"
)

// Handler exposes invoice workflows over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds the invoice HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers invoice routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/api/invoices", func(r chi.Router) {
		r.Get("/", h.list)
		r.Route("/{invoiceID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/status", h.updateStatus)
			r.Put("/dispute", h.recordDispute)
			r.With(policy.RequireAnyRole(policy.RoleOperations, policy.RoleDirector)).
				Put("/assign", h.assign)
			r.Get("/comments", h.listComments)
			r.Post("/comments", h.addComment)
			r.Post("/contact-attempts", h.addContactAttempt)
			r.Post("/promises", h.addPromise)
		})
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	p, ok := policy.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	page := shared.ParsePagination(r)
	f := Filter{
		CustomerID:    r.URL.Query().Get("customer_id"),
		OperatingUnit: r.URL.Query().Get("operating_unit"),
		OverdueOnly:   r.URL.Query().Get("overdue") == "true",
		Offset:        page.Offset,
		Limit:         page.Limit,
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		f.PaymentStatus = ParsePaymentStatus(raw)
	}
	records, err := h.service.List(r.Context(), p, f)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if records == nil {
		records = []Record{}
	}
	httpx.JSON(w, http.StatusOK, records)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in StatusInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), p, id, in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

func (h *Handler) recordDispute(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in DisputeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.service.RecordDispute(r.Context(), p, id, in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "dispute recorded"})
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	if err := h.service.Assign(r.Context(), p, id, in.UserID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "invoice assigned"})
}

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	comments, err := h.service.Comments(r.Context(), p, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if comments == nil {
		comments = []Comment{}
	}
	httpx.JSON(w, http.StatusOK, comments)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in CommentInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	comment, err := h.service.AddComment(r.Context(), p, id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, comment)
}

func (h *Handler) addContactAttempt(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in ContactAttemptInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	attempt, err := h.service.RecordContactAttempt(r.Context(), p, id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, attempt)
}

func (h *Handler) addPromise(w http.ResponseWriter, r *http.Request) {
	p, id, ok := h.principalAndID(w, r)
	if !ok {
		return
	}
	var in PromiseInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "malformed JSON body")
		return
	}
	promise, err := h.service.RecordPromise(r.Context(), p, id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, promise)
}

func (h *Handler) principalAndID(w http.ResponseWriter, r *http.Request) (policy.Principal, uuid.UUID, bool) {
	p, ok := policy.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return policy.Principal{}, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "invoiceID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "invoice id must be a UUID")
		return policy.Principal{}, uuid.Nil, false
	}
	return p, id, true
}
