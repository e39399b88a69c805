package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the normalized settlement state of an invoice.
type PaymentStatus string

const (
	StatusPaid     PaymentStatus = "Paid"
	StatusPartial  PaymentStatus = "Partial"
	StatusOverdue  PaymentStatus = "Overdue"
	StatusDisputed PaymentStatus = "Disputed"
	StatusOther    PaymentStatus = "Other"
)

// ParsePaymentStatus normalizes free-form status text from upstream systems.
// Unknown values map to StatusOther rather than failing the record.
func ParsePaymentStatus(raw string) PaymentStatus {
	switch s := strings.TrimSpace(raw); {
	case strings.EqualFold(s, "Paid"), strings.EqualFold(s, "Current"):
		return StatusPaid
	case strings.EqualFold(s, "Partial"), strings.EqualFold(s, "Partially Paid"):
		return StatusPartial
	case strings.EqualFold(s, "Disputed"):
		return StatusDisputed
	case hasPrefixFold(s, "Overdue"):
		return StatusOverdue
	default:
		return StatusOther
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// AgingBucket is the day-range classification of an unpaid invoice.
type AgingBucket string

const (
	BucketCurrent AgingBucket = "Current"
	Bucket1To30   AgingBucket = "1-30 days"
	Bucket31To60  AgingBucket = "31-60 days"
	Bucket61To90  AgingBucket = "61-90 days"
	Bucket91To120 AgingBucket = "91-120 days"
	BucketOver120 AgingBucket = "Over 120 days"
)

// Buckets lists every aging bucket in ascending severity order.
func Buckets() []AgingBucket {
	return []AgingBucket{BucketCurrent, Bucket1To30, Bucket31To60, Bucket61To90, Bucket91To120, BucketOver120}
}

// Record is a single receivable invoice line.
type Record struct {
	ID             uuid.UUID     `json:"id"`
	OperatingUnit  string        `json:"operating_unit"`
	CustomerName   string        `json:"customer_name"`
	CustomerID     string        `json:"customer_id"`
	CustomerType   string        `json:"customer_type,omitempty"`
	CustomerTerms  string        `json:"customer_terms,omitempty"`
	InvoiceNumber  string        `json:"invoice_number"`
	InvoiceDate    time.Time     `json:"invoice_date"`
	DueDate        time.Time     `json:"due_date"`
	InvoiceAmount  float64       `json:"invoice_amount"`
	Currency       string        `json:"currency"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	RawStatus      string        `json:"raw_status,omitempty"`
	DaysOverdue    int           `json:"days_overdue"`
	AgingBucket    AgingBucket   `json:"aging_bucket"`
	DisputeCodeL1  string        `json:"dispute_code_l1,omitempty"`
	DisputeCodeL2  string        `json:"dispute_code_l2,omitempty"`
	RootCause      string        `json:"root_cause,omitempty"`
	OutcomeStatus  string        `json:"outcome_status,omitempty"`
	AssignedUserID uuid.UUID     `json:"assigned_user_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Open reports whether the invoice still carries a balance to collect.
func (r Record) Open() bool {
	return r.PaymentStatus != StatusPaid
}

// Comment is a freeform note attached to an invoice by a user.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactAttempt records an outreach touchpoint for an invoice.
type ContactAttempt struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	UserID    uuid.UUID `json:"user_id"`
	Channel   string    `json:"channel"`
	Outcome   string    `json:"outcome,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PromiseToPay records a customer commitment against an invoice.
type PromiseToPay struct {
	ID          uuid.UUID `json:"id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	UserID      uuid.UUID `json:"user_id"`
	PromisedAt  time.Time `json:"promised_at"`
	Amount      float64   `json:"amount"`
	Kept        *bool     `json:"kept,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filter narrows invoice listings.
type Filter struct {
	AssignedUserID uuid.UUID
	CustomerID     string
	PaymentStatus  PaymentStatus
	OperatingUnit  string
	OverdueOnly    bool
	Offset         int
	Limit          int
}
