package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/observability"
)

// RowError reports one rejected row. The invoice number falls back to
// "Unknown" when the row did not carry one.
type RowError struct {
	InvoiceNumber string `json:"invoice_number"`
	Error         string `json:"error"`
}

// Result summarizes a processed batch.
type Result struct {
	ProcessedCount int        `json:"processed_count"`
	ErrorCount     int        `json:"error_count"`
	Errors         []RowError `json:"errors"`
}

// BatchWriter persists converted rows in one transaction.
type BatchWriter interface {
	InsertBatch(ctx context.Context, records []invoice.Record) (int, []string, error)
}

// Service converts uploaded batches into invoice records.
type Service struct {
	writer BatchWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds an import Service.
func NewService(writer BatchWriter, logger *slog.Logger) *Service {
	return &Service{writer: writer, logger: logger, now: time.Now}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02-01-2006",
	time.RFC3339,
}

// Process converts every row it can and persists the good ones in a single
// transaction. A bad row never aborts the batch: it is reported and skipped.
// Duplicate invoice numbers already on file are demoted to row errors too.
func (s *Service) Process(ctx context.Context, batch Batch) (Result, error) {
	asOf := s.now()

	var (
		records []invoice.Record
		errs    []RowError
	)
	for i, row := range batch.Rows {
		rec, err := convertRow(row, asOf)
		if err != nil {
			errs = append(errs, RowError{
				InvoiceNumber: rowInvoiceNumber(row),
				Error:         fmt.Sprintf("row %d: %s", i+2, err),
			})
			continue
		}
		records = append(records, rec)
	}

	inserted, duplicates, err := s.writer.InsertBatch(ctx, records)
	if err != nil {
		return Result{}, fmt.Errorf("persist batch: %w", err)
	}
	for _, number := range duplicates {
		errs = append(errs, RowError{
			InvoiceNumber: number,
			Error:         "invoice number already exists",
		})
	}

	s.logger.Info("import batch processed",
		"rows", len(batch.Rows), "inserted", inserted, "errors", len(errs))
	observability.ImportRows.WithLabelValues("inserted").Add(float64(inserted))
	observability.ImportRows.WithLabelValues("rejected").Add(float64(len(errs)))

	return Result{
		ProcessedCount: inserted,
		ErrorCount:     len(errs),
		Errors:         errs,
	}, nil
}

func convertRow(row Row, asOf time.Time) (invoice.Record, error) {
	for _, name := range requiredColumns {
		if row[name] == "" {
			return invoice.Record{}, fmt.Errorf("missing value for %s", name)
		}
	}

	amount, err := parseAmount(row["invoice_amount"])
	if err != nil {
		return invoice.Record{}, fmt.Errorf("invalid invoice_amount %q", row["invoice_amount"])
	}
	if amount < 0 {
		return invoice.Record{}, fmt.Errorf("negative invoice_amount %q", row["invoice_amount"])
	}

	invoiceDate, err := parseDate(row["invoice_date"])
	if err != nil {
		return invoice.Record{}, fmt.Errorf("invalid invoice_date %q", row["invoice_date"])
	}
	dueDate, err := parseDate(row["due_date"])
	if err != nil {
		return invoice.Record{}, fmt.Errorf("invalid due_date %q", row["due_date"])
	}
	if dueDate.Before(invoiceDate) {
		return invoice.Record{}, fmt.Errorf("due_date precedes invoice_date")
	}

	rec := invoice.Record{
		OperatingUnit: row["operating_unit"],
		CustomerName:  row["customer_name"],
		CustomerID:    row["customer_id"],
		CustomerType:  row["customer_type"],
		CustomerTerms: row["customer_terms"],
		InvoiceNumber: row["invoice_number"],
		InvoiceDate:   invoiceDate,
		DueDate:       dueDate,
		InvoiceAmount: amount,
		Currency:      row["currency"],
		PaymentStatus: invoice.ParsePaymentStatus(row["payment_status"]),
		RawStatus:     row["payment_status"],
		DisputeCodeL1: row["dispute_code_l1"],
		DisputeCodeL2: row["dispute_code_l2"],
		RootCause:     row["root_cause"],
		OutcomeStatus: row["outcome_status"],
	}
	rec.Refresh(asOf)
	return rec, nil
}

// parseAmount accepts thousands separators, "1,234.50" reads as 1234.50.
func parseAmount(raw string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func rowInvoiceNumber(row Row) string {
	if number := row["invoice_number"]; number != "" {
		return number
	}
	return "Unknown"
}
