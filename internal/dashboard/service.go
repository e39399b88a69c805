package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/observability"
	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

// InvoiceSource supplies the records a dashboard aggregates.
type InvoiceSource interface {
	List(ctx context.Context, f invoice.Filter) ([]invoice.Record, error)
}

// UserDirectory resolves user display names for grouping and scoping.
type UserDirectory interface {
	DisplayNames(ctx context.Context) (map[uuid.UUID]string, error)
	IDByName(ctx context.Context, name string) (uuid.UUID, error)
}

// Service renders role dashboards with a Redis cache in front.
type Service struct {
	invoices InvoiceSource
	users    UserDirectory
	cache    *Cache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds a dashboard Service.
func NewService(invoices InvoiceSource, users UserDirectory, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		invoices: invoices,
		users:    users,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Request selects which dashboard to render. An empty View means the
// principal's default. Subject names another user's book and is only honored
// for full visibility principals.
type Request struct {
	View    View
	Subject string
}

// Summary renders the requested dashboard for the principal. Billers and
// collectors are pinned to their own scoped view; requesting anything else
// is an explicit denial.
func (s *Service) Summary(ctx context.Context, p policy.Principal, req Request) (any, error) {
	view := req.View
	if view == "" {
		view = DefaultView(p.Role)
	}
	agg, ok := ForView(view)
	if !ok {
		return nil, fmt.Errorf("%w: unknown dashboard view %q", httpx.ErrValidation, req.View)
	}
	if !p.FullVisibility() && view != DefaultView(p.Role) {
		return nil, httpx.ErrForbidden
	}

	subject := uuid.Nil
	if view.Scoped() {
		subject = p.ID
		if p.FullVisibility() {
			if req.Subject == "" {
				return nil, fmt.Errorf("%w: scoped view requires a subject user", httpx.ErrValidation)
			}
			id, err := s.users.IDByName(ctx, req.Subject)
			if err != nil {
				return nil, err
			}
			subject = id
		}
	} else if req.Subject != "" {
		return nil, fmt.Errorf("%w: view %q does not take a subject", httpx.ErrValidation, view)
	}

	asOf := s.now()
	key, err := s.cache.BuildKey(ctx, string(view), subject.String(), asOf.Format("2006-01-02"))
	if err != nil {
		s.logger.Warn("dashboard cache unavailable", "error", err)
	} else {
		var cached json.RawMessage
		hit, err := s.cache.FetchJSON(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", "error", err)
		} else if hit {
			observability.DashboardCache.WithLabelValues("hit").Inc()
			return cached, nil
		}
		observability.DashboardCache.WithLabelValues("miss").Inc()
	}

	summary, err := s.build(ctx, view, agg, subject, asOf)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := s.cache.StoreJSON(ctx, key, summary); err != nil {
			s.logger.Warn("dashboard cache write failed", "error", err)
		}
	}
	return summary, nil
}

// Warm pre-renders the unscoped views plus every user's scoped view. Used
// after imports so the first dashboard request of the day is a cache hit.
func (s *Service) Warm(ctx context.Context) error {
	asOf := s.now()
	names, err := s.users.DisplayNames(ctx)
	if err != nil {
		return err
	}

	for _, view := range []View{ViewAdmin, ViewManager} {
		agg, _ := ForView(view)
		if err := s.buildAndStore(ctx, view, agg, uuid.Nil, asOf); err != nil {
			return err
		}
	}
	for id := range names {
		for _, view := range []View{ViewCollector, ViewBiller} {
			agg, _ := ForView(view)
			if err := s.buildAndStore(ctx, view, agg, id, asOf); err != nil {
				return err
			}
		}
	}
	return nil
}

// Invalidate drops every cached dashboard.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) build(ctx context.Context, view View, agg Aggregator, subject uuid.UUID, asOf time.Time) (any, error) {
	f := invoice.Filter{}
	if view.Scoped() {
		f.AssignedUserID = subject
	}
	records, err := s.invoices.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("dashboard load invoices: %w", err)
	}

	in := Input{Records: records, AsOf: asOf}
	if view == ViewAdmin {
		names, err := s.users.DisplayNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard load users: %w", err)
		}
		in.UserNames = names
	}
	return agg(in), nil
}

func (s *Service) buildAndStore(ctx context.Context, view View, agg Aggregator, subject uuid.UUID, asOf time.Time) error {
	summary, err := s.build(ctx, view, agg, subject, asOf)
	if err != nil {
		return err
	}
	key, err := s.cache.BuildKey(ctx, string(view), subject.String(), asOf.Format("2006-01-02"))
	if err != nil {
		return err
	}
	return s.cache.StoreJSON(ctx, key, summary)
}
