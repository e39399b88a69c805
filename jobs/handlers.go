package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// AgingStore recomputes stored aging columns.
type AgingStore interface {
	RefreshAging(ctx context.Context, asOf time.Time) (int64, error)
}

// DashboardWarmer rebuilds dashboard caches.
type DashboardWarmer interface {
	Invalidate(ctx context.Context) error
	Warm(ctx context.Context) error
}

// Handlers executes the background tasks.
type Handlers struct {
	invoices   AgingStore
	dashboards DashboardWarmer
	logger     *slog.Logger
}

// NewHandlers builds the task handlers.
func NewHandlers(invoices AgingStore, dashboards DashboardWarmer, logger *slog.Logger) *Handlers {
	return &Handlers{invoices: invoices, dashboards: dashboards, logger: logger}
}

// HandleAgingRefresh recomputes stored aging for every invoice, then drops
// dashboard caches so the next read reflects the new buckets.
func (h *Handlers) HandleAgingRefresh(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()
	updated, err := h.invoices.RefreshAging(ctx, start)
	if err != nil {
		return err
	}
	if err := h.dashboards.Invalidate(ctx); err != nil {
		return err
	}
	h.logger.Info("aging refresh complete", "updated", updated, "took", time.Since(start))
	return nil
}

// HandleDashboardWarm pre-renders every dashboard view.
func (h *Handlers) HandleDashboardWarm(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()
	if err := h.dashboards.Warm(ctx); err != nil {
		return err
	}
	h.logger.Info("dashboard warmup complete", "took", time.Since(start))
	return nil
}
