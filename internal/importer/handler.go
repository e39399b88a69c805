package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

const maxUploadBytes = 32 << 20

// CacheInvalidator drops stale dashboard caches after an import lands.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// WarmEnqueuer schedules a dashboard rebuild in the background worker.
type WarmEnqueuer interface {
	EnqueueDashboardWarm(ctx context.Context) error
}

// Handler accepts ledger uploads over HTTP.
type Handler struct {
	service  *Service
	caches   CacheInvalidator
	enqueuer WarmEnqueuer
	logger   *slog.Logger
}

// NewHandler builds the import HTTP handler. Enqueuer may be nil when no
// background worker is deployed.
func NewHandler(service *Service, caches CacheInvalidator, enqueuer WarmEnqueuer, logger *slog.Logger) *Handler {
	return &Handler{service: service, caches: caches, enqueuer: enqueuer, logger: logger}
}

// MountRoutes registers the import route. Uploading is an operations task.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(policy.RequireAnyRole(policy.RoleOperations, policy.RoleDirector)).
		Post("/api/import", h.upload)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "expected a multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "missing file field")
		return
	}
	defer file.Close()

	var batch Batch
	switch ext := strings.ToLower(filepath.Ext(header.Filename)); ext {
	case ".csv":
		batch, err = ReadCSV(file)
	case ".xlsx":
		batch, err = ReadXLSX(file)
	default:
		httpx.Problem(w, http.StatusBadRequest, "Unsupported File Type",
			fmt.Sprintf("unsupported file extension %q, expected .csv or .xlsx", ext))
		return
	}
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Unreadable File", err.Error())
		return
	}

	errs, warnings := Validate(batch)
	if len(errs) > 0 {
		httpx.ValidationProblem(w, "Invalid Upload", errs)
		return
	}
	for _, warning := range warnings {
		h.logger.Warn("import validation warning", "warning", warning)
	}

	result, err := h.service.Process(r.Context(), batch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.caches.Invalidate(r.Context()); err != nil {
		h.logger.Warn("dashboard cache invalidation failed", "error", err)
	}
	if h.enqueuer != nil {
		if err := h.enqueuer.EnqueueDashboardWarm(r.Context()); err != nil {
			h.logger.Warn("dashboard warm enqueue failed", "error", err)
		}
	}

	if result.Errors == nil {
		result.Errors = []RowError{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":         "import completed",
		"processed_count": result.ProcessedCount,
		"error_count":     result.ErrorCount,
		"errors":          result.Errors,
		"warnings":        warnings,
	})
}
