package importer

import (
	"fmt"
	"strings"

	"github.com/mannuking/Project-Radius/internal/invoice"
)

var requiredColumns = []string{
	"operating_unit",
	"customer_name",
	"customer_id",
	"invoice_number",
	"invoice_date",
	"due_date",
	"invoice_amount",
	"currency",
	"payment_status",
}

// Validate checks the batch and returns every violation at once so the
// uploader can fix the whole file in one pass. Errors reject the batch:
// missing columns, no data rows, non-numeric invoice amounts. Unknown
// payment statuses come back as warnings; they import as Other. Row checks
// only run when the column is present, missing columns are already errors.
func Validate(batch Batch) (errs, warnings []string) {
	have := make(map[string]struct{}, len(batch.Header))
	for _, name := range batch.Header {
		have[name] = struct{}{}
	}
	for _, name := range requiredColumns {
		if _, ok := have[name]; !ok {
			errs = append(errs, fmt.Sprintf("missing required column: %s", name))
		}
	}

	if len(batch.Rows) == 0 {
		errs = append(errs, "file contains no data rows")
	}

	_, hasAmount := have["invoice_amount"]
	_, hasStatus := have["payment_status"]
	warned := make(map[string]struct{})

	for i, row := range batch.Rows {
		if hasAmount {
			if _, err := parseAmount(row["invoice_amount"]); err != nil {
				errs = append(errs, fmt.Sprintf("row %d: invalid invoice_amount %q", i+2, row["invoice_amount"]))
			}
		}
		if hasStatus {
			raw := row["payment_status"]
			if raw == "" || !unknownStatus(raw) {
				continue
			}
			if _, ok := warned[raw]; ok {
				continue
			}
			warned[raw] = struct{}{}
			warnings = append(warnings, fmt.Sprintf("unknown payment_status %q will be recorded as %s", raw, invoice.StatusOther))
		}
	}
	return errs, warnings
}

func unknownStatus(raw string) bool {
	return invoice.ParsePaymentStatus(raw) == invoice.StatusOther &&
		!strings.EqualFold(strings.TrimSpace(raw), string(invoice.StatusOther))
}
