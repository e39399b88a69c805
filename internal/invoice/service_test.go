package invoice

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

type memoryRepo struct {
	records  map[uuid.UUID]Record
	comments map[uuid.UUID][]Comment
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		records:  make(map[uuid.UUID]Record),
		comments: make(map[uuid.UUID][]Comment),
	}
}

func (m *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (Record, error) {
	rec, ok := m.records[id]
	if !ok {
		return Record{}, httpx.ErrNotFound
	}
	return rec, nil
}

func (m *memoryRepo) List(_ context.Context, f Filter) ([]Record, error) {
	var out []Record
	for _, rec := range m.records {
		if f.AssignedUserID != uuid.Nil && rec.AssignedUserID != f.AssignedUserID {
			continue
		}
		if f.PaymentStatus != "" && rec.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *memoryRepo) InsertBatch(_ context.Context, records []Record) (int, []string, error) {
	var dupes []string
	inserted := 0
	for _, rec := range records {
		exists := false
		for _, have := range m.records {
			if have.InvoiceNumber == rec.InvoiceNumber {
				exists = true
				break
			}
		}
		if exists {
			dupes = append(dupes, rec.InvoiceNumber)
			continue
		}
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
		m.records[rec.ID] = rec
		inserted++
	}
	return inserted, dupes, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id uuid.UUID, status PaymentStatus) error {
	rec, ok := m.records[id]
	if !ok {
		return httpx.ErrNotFound
	}
	rec.PaymentStatus = status
	m.records[id] = rec
	return nil
}

func (m *memoryRepo) UpdateDispute(_ context.Context, id uuid.UUID, codeL1, codeL2, rootCause, outcome string) error {
	rec, ok := m.records[id]
	if !ok {
		return httpx.ErrNotFound
	}
	rec.DisputeCodeL1 = codeL1
	rec.DisputeCodeL2 = codeL2
	rec.RootCause = rootCause
	rec.OutcomeStatus = outcome
	rec.PaymentStatus = StatusDisputed
	m.records[id] = rec
	return nil
}

func (m *memoryRepo) Assign(_ context.Context, id, userID uuid.UUID) error {
	rec, ok := m.records[id]
	if !ok {
		return httpx.ErrNotFound
	}
	rec.AssignedUserID = userID
	m.records[id] = rec
	return nil
}

func (m *memoryRepo) AddComment(_ context.Context, c Comment) (Comment, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	m.comments[c.InvoiceID] = append(m.comments[c.InvoiceID], c)
	return c, nil
}

func (m *memoryRepo) ListComments(_ context.Context, invoiceID uuid.UUID) ([]Comment, error) {
	return m.comments[invoiceID], nil
}

func (m *memoryRepo) AddContactAttempt(_ context.Context, a ContactAttempt) (ContactAttempt, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	return a, nil
}

func (m *memoryRepo) AddPromise(_ context.Context, p PromiseToPay) (PromiseToPay, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	return p, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func seedInvoice(repo *memoryRepo, owner uuid.UUID, number string, status PaymentStatus, dueDaysAgo int) uuid.UUID {
	id := uuid.New()
	repo.records[id] = Record{
		ID:             id,
		OperatingUnit:  "US-East",
		CustomerName:   "Acme Corp",
		CustomerID:     "C-100",
		InvoiceNumber:  number,
		InvoiceDate:    time.Now().AddDate(0, 0, -dueDaysAgo-30),
		DueDate:        time.Now().AddDate(0, 0, -dueDaysAgo),
		InvoiceAmount:  1500,
		Currency:       "USD",
		PaymentStatus:  status,
		AssignedUserID: owner,
	}
	return id
}

func TestGetEnforcesRowAccess(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	owner := uuid.New()
	stranger := uuid.New()
	id := seedInvoice(repo, owner, "INV-1", StatusOverdue, 45)

	rec, err := svc.Get(context.Background(), policy.Principal{ID: owner, Role: policy.RoleCollector}, id)
	require.NoError(t, err)
	require.Equal(t, Bucket31To60, rec.AgingBucket)

	_, err = svc.Get(context.Background(), policy.Principal{ID: stranger, Role: policy.RoleCollector}, id)
	require.ErrorIs(t, err, httpx.ErrForbidden)

	_, err = svc.Get(context.Background(), policy.Principal{ID: stranger, Role: policy.RoleDirector}, id)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), policy.Principal{ID: stranger, Role: policy.RoleOperations}, id)
	require.NoError(t, err)
}

func TestListScopesToOwnBook(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	collector := uuid.New()
	other := uuid.New()
	seedInvoice(repo, collector, "INV-1", StatusOverdue, 10)
	seedInvoice(repo, collector, "INV-2", StatusPaid, 0)
	seedInvoice(repo, other, "INV-3", StatusOverdue, 90)

	mine, err := svc.List(context.Background(), policy.Principal{ID: collector, Role: policy.RoleCollector}, Filter{})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	// A collector cannot widen scope by filtering for another book.
	stolen, err := svc.List(context.Background(), policy.Principal{ID: collector, Role: policy.RoleCollector}, Filter{AssignedUserID: other})
	require.NoError(t, err)
	require.Len(t, stolen, 2)

	all, err := svc.List(context.Background(), policy.Principal{ID: uuid.New(), Role: policy.RoleDirector}, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdateStatusNormalizesText(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	owner := uuid.New()
	id := seedInvoice(repo, owner, "INV-1", StatusOverdue, 45)
	p := policy.Principal{ID: owner, Role: policy.RoleCollector}

	require.NoError(t, svc.UpdateStatus(context.Background(), p, id, StatusInput{Status: "Current"}))
	require.Equal(t, StatusPaid, repo.records[id].PaymentStatus)

	require.NoError(t, svc.UpdateStatus(context.Background(), p, id, StatusInput{Status: "Something Odd"}))
	require.Equal(t, StatusOther, repo.records[id].PaymentStatus)

	err := svc.UpdateStatus(context.Background(), p, id, StatusInput{})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAssignRequiresFullVisibility(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	owner := uuid.New()
	target := uuid.New()
	id := seedInvoice(repo, owner, "INV-1", StatusOverdue, 10)

	err := svc.Assign(context.Background(), policy.Principal{ID: owner, Role: policy.RoleCollector}, id, target)
	require.ErrorIs(t, err, httpx.ErrForbidden)

	err = svc.Assign(context.Background(), policy.Principal{ID: uuid.New(), Role: policy.RoleOperations}, id, target)
	require.NoError(t, err)
	require.Equal(t, target, repo.records[id].AssignedUserID)
}

func TestRecordDispute(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	owner := uuid.New()
	id := seedInvoice(repo, owner, "INV-1", StatusOverdue, 30)
	p := policy.Principal{ID: owner, Role: policy.RoleBiller}

	err := svc.RecordDispute(context.Background(), p, id, DisputeInput{})
	require.ErrorIs(t, err, httpx.ErrValidation)

	err = svc.RecordDispute(context.Background(), p, id, DisputeInput{
		DisputeCodeL1: "Pricing",
		RootCause:     "Rate mismatch",
	})
	require.NoError(t, err)
	require.Equal(t, StatusDisputed, repo.records[id].PaymentStatus)
	require.Equal(t, "Pricing", repo.records[id].DisputeCodeL1)
}

func TestCommentsRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testLogger())

	owner := uuid.New()
	id := seedInvoice(repo, owner, "INV-1", StatusOverdue, 10)
	p := policy.Principal{ID: owner, Role: policy.RoleCollector}

	_, err := svc.AddComment(context.Background(), p, id, CommentInput{Body: "left voicemail"})
	require.NoError(t, err)

	comments, err := svc.Comments(context.Background(), p, id)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Equal(t, "left voicemail", comments[0].Body)
	require.Equal(t, owner, comments[0].AuthorID)
}
