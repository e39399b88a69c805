package importer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mannuking/Project-Radius/internal/invoice"
)

type captureWriter struct {
	records    []invoice.Record
	duplicates []string
}

func (c *captureWriter) InsertBatch(_ context.Context, records []invoice.Record) (int, []string, error) {
	inserted := 0
	for _, rec := range records {
		dup := false
		for _, number := range c.duplicates {
			if rec.InvoiceNumber == number {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		c.records = append(c.records, rec)
		inserted++
	}
	return inserted, c.duplicates, nil
}

func goodRow(number string) Row {
	return Row{
		"operating_unit": "US-East",
		"customer_name":  "Acme Corp",
		"customer_id":    "C-100",
		"invoice_number": number,
		"invoice_date":   "2026-01-10",
		"due_date":       "2026-02-10",
		"invoice_amount": "1500.50",
		"currency":       "USD",
		"payment_status": "Overdue",
	}
}

func newProcessService(writer BatchWriter) *Service {
	svc := NewService(writer, slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestProcessSkipsBadRowsAndKeepsGoodOnes(t *testing.T) {
	writer := &captureWriter{}
	svc := newProcessService(writer)

	bad := goodRow("INV-3")
	bad["invoice_amount"] = "not-a-number"

	result, err := svc.Process(context.Background(), Batch{
		Header: requiredColumns,
		Rows:   []Row{goodRow("INV-1"), goodRow("INV-2"), bad},
	})
	require.NoError(t, err)

	require.Equal(t, 2, result.ProcessedCount)
	require.Equal(t, 1, result.ErrorCount)
	require.Equal(t, "INV-3", result.Errors[0].InvoiceNumber)
	require.Contains(t, result.Errors[0].Error, "invalid invoice_amount")
	require.Len(t, writer.records, 2)
}

func TestProcessComputesAging(t *testing.T) {
	writer := &captureWriter{}
	svc := newProcessService(writer)

	result, err := svc.Process(context.Background(), Batch{
		Header: requiredColumns,
		Rows:   []Row{goodRow("INV-1")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.ProcessedCount)

	rec := writer.records[0]
	require.Equal(t, 33, rec.DaysOverdue, "due 2026-02-10, as of 2026-03-15")
	require.Equal(t, invoice.Bucket31To60, rec.AgingBucket)
	require.Equal(t, invoice.StatusOverdue, rec.PaymentStatus)
	require.Equal(t, 1500.50, rec.InvoiceAmount)
}

func TestProcessRowErrorDetails(t *testing.T) {
	writer := &captureWriter{}
	svc := newProcessService(writer)

	missingNumber := goodRow("")
	badDate := goodRow("INV-2")
	badDate["due_date"] = "sometime soon"
	inverted := goodRow("INV-3")
	inverted["due_date"] = "2025-12-01"

	result, err := svc.Process(context.Background(), Batch{
		Header: requiredColumns,
		Rows:   []Row{missingNumber, badDate, inverted},
	})
	require.NoError(t, err)

	require.Equal(t, 0, result.ProcessedCount)
	require.Equal(t, 3, result.ErrorCount)
	require.Equal(t, "Unknown", result.Errors[0].InvoiceNumber)
	require.Contains(t, result.Errors[1].Error, "invalid due_date")
	require.Contains(t, result.Errors[2].Error, "due_date precedes invoice_date")
}

func TestProcessDemotesDuplicatesToRowErrors(t *testing.T) {
	writer := &captureWriter{duplicates: []string{"INV-2"}}
	svc := newProcessService(writer)

	result, err := svc.Process(context.Background(), Batch{
		Header: requiredColumns,
		Rows:   []Row{goodRow("INV-1"), goodRow("INV-2")},
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.ProcessedCount)
	require.Equal(t, 1, result.ErrorCount)
	require.Equal(t, "INV-2", result.Errors[0].InvoiceNumber)
	require.Equal(t, "invoice number already exists", result.Errors[0].Error)
}

func TestProcessNormalizesUnknownStatus(t *testing.T) {
	writer := &captureWriter{}
	svc := newProcessService(writer)

	odd := goodRow("INV-1")
	odd["payment_status"] = "Written Off"

	result, err := svc.Process(context.Background(), Batch{
		Header: requiredColumns,
		Rows:   []Row{odd},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.ProcessedCount)
	require.Equal(t, invoice.StatusOther, writer.records[0].PaymentStatus)
	require.Equal(t, "Written Off", writer.records[0].RawStatus)
}
