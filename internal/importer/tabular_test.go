package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCSVNormalizesHeader(t *testing.T) {
	input := "Operating Unit,Customer Name,customer_id\nUS-East,Acme Corp,C-100\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"operating_unit", "customer_name", "customer_id"}, batch.Header)
	require.Len(t, batch.Rows, 1)
	require.Equal(t, "Acme Corp", batch.Rows[0]["customer_name"])
}

func TestReadCSVShortRow(t *testing.T) {
	input := "a,b,c\n1,2\n"
	batch, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, "", batch.Rows[0]["c"], "missing cells read as empty")
}

func TestReadCSVEmptyFile(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.EqualError(t, err, "file is empty")
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	batch := Batch{Header: []string{"customer_name", "invoice_number"}}
	errs, warnings := Validate(batch)

	require.Len(t, errs, 8, "seven missing columns plus empty data")
	require.Contains(t, errs, "missing required column: operating_unit")
	require.Contains(t, errs, "missing required column: payment_status")
	require.Contains(t, errs, "file contains no data rows")
	require.Empty(t, warnings)
}

func TestValidateCompleteBatch(t *testing.T) {
	batch := Batch{
		Header: requiredColumns,
		Rows:   []Row{{"invoice_number": "INV-1", "invoice_amount": "100", "payment_status": "Paid"}},
	}
	errs, warnings := Validate(batch)
	require.Empty(t, errs)
	require.Empty(t, warnings)
}

func TestValidateRejectsNonNumericAmounts(t *testing.T) {
	batch := Batch{
		Header: requiredColumns,
		Rows: []Row{
			{"invoice_amount": "1,250.75", "payment_status": "Paid"},
			{"invoice_amount": "abc", "payment_status": "Paid"},
			{"invoice_amount": "", "payment_status": "Paid"},
		},
	}
	errs, _ := Validate(batch)
	require.Len(t, errs, 2, "thousands separators parse, text and blanks do not")
	require.Contains(t, errs, `row 3: invalid invoice_amount "abc"`)
	require.Contains(t, errs, `row 4: invalid invoice_amount ""`)
}

func TestValidateWarnsOnUnknownStatuses(t *testing.T) {
	batch := Batch{
		Header: requiredColumns,
		Rows: []Row{
			{"invoice_amount": "10", "payment_status": "Current"},
			{"invoice_amount": "20", "payment_status": "Written Off"},
			{"invoice_amount": "30", "payment_status": "Written Off"},
			{"invoice_amount": "40", "payment_status": "Overdue 61-90 days"},
		},
	}
	errs, warnings := Validate(batch)
	require.Empty(t, errs, "unknown statuses never reject the batch")
	require.Equal(t, []string{`unknown payment_status "Written Off" will be recorded as Other`}, warnings,
		"one warning per distinct unknown value")
}
