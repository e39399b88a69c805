package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

// RepositoryPort is the persistence contract the service depends on.
type RepositoryPort interface {
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	List(ctx context.Context, f Filter) ([]Record, error)
	InsertBatch(ctx context.Context, records []Record) (int, []string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error
	UpdateDispute(ctx context.Context, id uuid.UUID, codeL1, codeL2, rootCause, outcome string) error
	Assign(ctx context.Context, id, userID uuid.UUID) error
	AddComment(ctx context.Context, c Comment) (Comment, error)
	ListComments(ctx context.Context, invoiceID uuid.UUID) ([]Comment, error)
	AddContactAttempt(ctx context.Context, a ContactAttempt) (ContactAttempt, error)
	AddPromise(ctx context.Context, p PromiseToPay) (PromiseToPay, error)
}

// Service implements invoice workflows on top of a repository.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds an invoice Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns one invoice if the principal may see it.
func (s *Service) Get(ctx context.Context, p policy.Principal, id uuid.UUID) (Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if !policy.CanAccess(p, rec.AssignedUserID) {
		return Record{}, httpx.ErrForbidden
	}
	rec.Refresh(s.now())
	return rec, nil
}

// List returns invoices visible to the principal. Billers and collectors are
// scoped to their own book regardless of the filter they send.
func (s *Service) List(ctx context.Context, p policy.Principal, f Filter) ([]Record, error) {
	if !p.FullVisibility() {
		f.AssignedUserID = p.ID
	}
	records, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	records = policy.VisibleRows(p, records, func(r Record) uuid.UUID { return r.AssignedUserID })
	RefreshAll(records, s.now())
	return records, nil
}

// StatusInput updates an invoice's payment status.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus sets the payment status after an access check. Unknown status
// text is accepted and normalized to Other so upstream feeds never wedge.
func (s *Service) UpdateStatus(ctx context.Context, p policy.Principal, id uuid.UUID, in StatusInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	status := ParsePaymentStatus(in.Status)
	if status == StatusOther {
		s.logger.Warn("unrecognized payment status", "invoice_id", id, "status", in.Status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// DisputeInput classifies a disputed invoice.
type DisputeInput struct {
	DisputeCodeL1 string `json:"dispute_code_l1" validate:"required"`
	DisputeCodeL2 string `json:"dispute_code_l2,omitempty"`
	RootCause     string `json:"root_cause,omitempty"`
	OutcomeStatus string `json:"outcome_status,omitempty"`
}

// RecordDispute marks an invoice disputed with its classification codes.
func (s *Service) RecordDispute(ctx context.Context, p policy.Principal, id uuid.UUID, in DisputeInput) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return err
	}
	return s.repo.UpdateDispute(ctx, id, in.DisputeCodeL1, in.DisputeCodeL2, in.RootCause, in.OutcomeStatus)
}

// Assign moves an invoice to a new owner. Only the full visibility tiers may
// reassign work.
func (s *Service) Assign(ctx context.Context, p policy.Principal, id, userID uuid.UUID) error {
	if !p.FullVisibility() {
		return httpx.ErrForbidden
	}
	return s.repo.Assign(ctx, id, userID)
}

// CommentInput adds a note to an invoice.
type CommentInput struct {
	Body string `json:"body" validate:"required,max=4000"`
}

// AddComment attaches a note authored by the principal.
func (s *Service) AddComment(ctx context.Context, p policy.Principal, id uuid.UUID, in CommentInput) (Comment, error) {
	if err := s.validate.Struct(in); err != nil {
		return Comment{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return Comment{}, err
	}
	return s.repo.AddComment(ctx, Comment{InvoiceID: id, AuthorID: p.ID, Body: in.Body})
}

// Comments lists notes on an invoice the principal may see.
func (s *Service) Comments(ctx context.Context, p policy.Principal, id uuid.UUID) ([]Comment, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, id)
}

// ContactAttemptInput records an outreach touchpoint.
type ContactAttemptInput struct {
	Channel string `json:"channel" validate:"required,oneof=call email sms letter visit"`
	Outcome string `json:"outcome,omitempty"`
	Notes   string `json:"notes,omitempty" validate:"max=4000"`
}

// RecordContactAttempt logs outreach against an invoice.
func (s *Service) RecordContactAttempt(ctx context.Context, p policy.Principal, id uuid.UUID, in ContactAttemptInput) (ContactAttempt, error) {
	if err := s.validate.Struct(in); err != nil {
		return ContactAttempt{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return ContactAttempt{}, err
	}
	return s.repo.AddContactAttempt(ctx, ContactAttempt{
		InvoiceID: id,
		UserID:    p.ID,
		Channel:   in.Channel,
		Outcome:   in.Outcome,
		Notes:     in.Notes,
	})
}

// PromiseInput records a promise-to-pay.
type PromiseInput struct {
	PromisedAt time.Time `json:"promised_at" validate:"required"`
	Amount     float64   `json:"amount" validate:"required,gt=0"`
	Notes      string    `json:"notes,omitempty" validate:"max=4000"`
}

// RecordPromise logs a customer payment commitment against an invoice.
func (s *Service) RecordPromise(ctx context.Context, p policy.Principal, id uuid.UUID, in PromiseInput) (PromiseToPay, error) {
	if err := s.validate.Struct(in); err != nil {
		return PromiseToPay{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.Get(ctx, p, id); err != nil {
		return PromiseToPay{}, err
	}
	return s.repo.AddPromise(ctx, PromiseToPay{
		InvoiceID:  id,
		UserID:     p.ID,
		PromisedAt: in.PromisedAt,
		Amount:     in.Amount,
		Notes:      in.Notes,
	})
}
