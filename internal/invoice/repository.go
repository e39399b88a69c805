package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mannuking/Project-Radius/internal/platform/db"
	"github.com/mannuking/Project-Radius/internal/platform/httpx"
)

// Repository persists invoices and their child records in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a Repository to the connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `id, operating_unit, customer_name, customer_id, customer_type, customer_terms,
	invoice_number, invoice_date, due_date, invoice_amount, currency, payment_status, raw_status,
	dispute_code_l1, dispute_code_l2, root_cause, outcome_status, assigned_user_id, created_at, updated_at`

// GetByID fetches a single invoice.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Record, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	rec, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, httpx.ErrNotFound
		}
		return Record{}, fmt.Errorf("get invoice: %w", err)
	}
	return rec, nil
}

// List returns invoices matching the filter, newest due date first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.AssignedUserID != uuid.Nil {
		add("assigned_user_id = $%d", f.AssignedUserID)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	if f.PaymentStatus != "" {
		add("payment_status = $%d", string(f.PaymentStatus))
	}
	if f.OperatingUnit != "" {
		add("operating_unit = $%d", f.OperatingUnit)
	}
	if f.OverdueOnly {
		where = append(where, "payment_status <> 'Paid' AND due_date < now()")
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY due_date DESC, invoice_number"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	return collectInvoices(rows)
}

// InsertBatch writes records in a single transaction. Rows whose invoice
// number already exists are skipped and reported back by number so the
// caller can surface them as row errors without aborting the batch.
func (r *Repository) InsertBatch(ctx context.Context, records []Record) (inserted int, duplicates []string, err error) {
	err = db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for i := range records {
			rec := &records[i]
			if rec.ID == uuid.Nil {
				rec.ID = uuid.New()
			}
			tag, execErr := tx.Exec(ctx, `
				INSERT INTO invoices (id, operating_unit, customer_name, customer_id, customer_type, customer_terms,
					invoice_number, invoice_date, due_date, invoice_amount, currency, payment_status, raw_status,
					dispute_code_l1, dispute_code_l2, root_cause, outcome_status, assigned_user_id, created_at, updated_at)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,now(),now())
				ON CONFLICT (invoice_number) DO NOTHING`,
				rec.ID, rec.OperatingUnit, rec.CustomerName, rec.CustomerID, nullable(rec.CustomerType), nullable(rec.CustomerTerms),
				rec.InvoiceNumber, rec.InvoiceDate, rec.DueDate, rec.InvoiceAmount, rec.Currency, string(rec.PaymentStatus), nullable(rec.RawStatus),
				nullable(rec.DisputeCodeL1), nullable(rec.DisputeCodeL2), nullable(rec.RootCause), nullable(rec.OutcomeStatus), nullableUUID(rec.AssignedUserID))
			if execErr != nil {
				return fmt.Errorf("insert invoice %s: %w", rec.InvoiceNumber, execErr)
			}
			if tag.RowsAffected() == 0 {
				duplicates = append(duplicates, rec.InvoiceNumber)
				continue
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return inserted, duplicates, nil
}

// UpdateStatus sets the payment status of an invoice.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status PaymentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET payment_status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// UpdateDispute sets dispute classification fields on an invoice.
func (r *Repository) UpdateDispute(ctx context.Context, id uuid.UUID, codeL1, codeL2, rootCause, outcome string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices
		SET dispute_code_l1 = $2, dispute_code_l2 = $3, root_cause = $4, outcome_status = $5,
			payment_status = 'Disputed', updated_at = now()
		WHERE id = $1`,
		id, nullable(codeL1), nullable(codeL2), nullable(rootCause), nullable(outcome))
	if err != nil {
		return fmt.Errorf("update invoice dispute: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// Assign moves an invoice to a different owner.
func (r *Repository) Assign(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET assigned_user_id = $2, updated_at = now() WHERE id = $1`,
		id, nullableUUID(userID))
	if err != nil {
		return fmt.Errorf("assign invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AddComment attaches a note to an invoice.
func (r *Repository) AddComment(ctx context.Context, c Comment) (Comment, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoice_comments (id, invoice_id, author_id, body, created_at)
		VALUES ($1,$2,$3,$4,now())
		RETURNING created_at`,
		c.ID, c.InvoiceID, c.AuthorID, c.Body)
	if err := row.Scan(&c.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return Comment{}, httpx.ErrNotFound
		}
		return Comment{}, fmt.Errorf("add comment: %w", err)
	}
	return c, nil
}

// ListComments returns notes for an invoice, newest first.
func (r *Repository) ListComments(ctx context.Context, invoiceID uuid.UUID) ([]Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, author_id, body, created_at
		FROM invoice_comments WHERE invoice_id = $1
		ORDER BY created_at DESC`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.InvoiceID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddContactAttempt records an outreach touchpoint.
func (r *Repository) AddContactAttempt(ctx context.Context, a ContactAttempt) (ContactAttempt, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoice_contact_attempts (id, invoice_id, user_id, channel, outcome, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		RETURNING created_at`,
		a.ID, a.InvoiceID, a.UserID, a.Channel, nullable(a.Outcome), nullable(a.Notes))
	if err := row.Scan(&a.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ContactAttempt{}, httpx.ErrNotFound
		}
		return ContactAttempt{}, fmt.Errorf("add contact attempt: %w", err)
	}
	return a, nil
}

// AddPromise records a promise-to-pay for an invoice.
func (r *Repository) AddPromise(ctx context.Context, p PromiseToPay) (PromiseToPay, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO invoice_promises (id, invoice_id, user_id, promised_at, amount, kept, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,now())
		RETURNING created_at`,
		p.ID, p.InvoiceID, p.UserID, p.PromisedAt, p.Amount, p.Kept, nullable(p.Notes))
	if err := row.Scan(&p.CreatedAt); err != nil {
		if db.IsForeignKeyViolation(err) {
			return PromiseToPay{}, httpx.ErrNotFound
		}
		return PromiseToPay{}, fmt.Errorf("add promise: %w", err)
	}
	return p, nil
}

// RefreshAging rewrites the stored days_overdue and aging_bucket columns for
// every invoice as of the given date. Reads recompute aging on the fly; the
// stored columns exist for SQL-side reporting and are refreshed daily.
func (r *Repository) RefreshAging(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET
			days_overdue = CASE
				WHEN payment_status = 'Paid' THEN 0
				ELSE GREATEST(0, $1::date - due_date::date)
			END,
			aging_bucket = CASE
				WHEN payment_status = 'Paid' OR $1::date <= due_date::date THEN 'Current'
				WHEN $1::date - due_date::date <= 30 THEN '1-30 days'
				WHEN $1::date - due_date::date <= 60 THEN '31-60 days'
				WHEN $1::date - due_date::date <= 90 THEN '61-90 days'
				WHEN $1::date - due_date::date <= 120 THEN '91-120 days'
				ELSE 'Over 120 days'
			END,
			updated_at = now()`,
		asOf.UTC())
	if err != nil {
		return 0, fmt.Errorf("refresh aging: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvoice(row pgx.Row) (Record, error) {
	var (
		rec         Record
		custType    *string
		custTerms   *string
		rawStatus   *string
		codeL1      *string
		codeL2      *string
		rootCause   *string
		outcome     *string
		assignedTo  *uuid.UUID
		status      string
	)
	err := row.Scan(&rec.ID, &rec.OperatingUnit, &rec.CustomerName, &rec.CustomerID, &custType, &custTerms,
		&rec.InvoiceNumber, &rec.InvoiceDate, &rec.DueDate, &rec.InvoiceAmount, &rec.Currency, &status, &rawStatus,
		&codeL1, &codeL2, &rootCause, &outcome, &assignedTo, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	rec.PaymentStatus = PaymentStatus(status)
	rec.CustomerType = deref(custType)
	rec.CustomerTerms = deref(custTerms)
	rec.RawStatus = deref(rawStatus)
	rec.DisputeCodeL1 = deref(codeL1)
	rec.DisputeCodeL2 = deref(codeL2)
	rec.RootCause = deref(rootCause)
	rec.OutcomeStatus = deref(outcome)
	if assignedTo != nil {
		rec.AssignedUserID = *assignedTo
	}
	rec.Refresh(time.Now())
	return rec, nil
}

func collectInvoices(rows pgx.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		rec, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableUUID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
