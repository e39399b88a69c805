// Package importer loads receivables ledgers from CSV and XLSX uploads.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data line keyed by normalized header name.
type Row map[string]string

// Batch is a parsed upload: normalized header plus data rows in file order.
type Batch struct {
	Header []string
	Rows   []Row
}

// ReadCSV parses a CSV upload. The first line is the header. Column names
// are trimmed and lowercased so "Invoice Number" and "invoice_number" match.
func ReadCSV(r io.Reader) (Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Batch{}, errors.New("file is empty")
		}
		return Batch{}, fmt.Errorf("read header: %w", err)
	}

	batch := Batch{Header: normalizeHeader(header)}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Batch{}, fmt.Errorf("read row %d: %w", len(batch.Rows)+2, err)
		}
		batch.Rows = append(batch.Rows, buildRow(batch.Header, record))
	}
	return batch, nil
}

// ReadXLSX parses the first sheet of an Excel upload.
func ReadXLSX(r io.Reader) (Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Batch{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Batch{}, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Batch{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return Batch{}, errors.New("file is empty")
	}

	batch := Batch{Header: normalizeHeader(rows[0])}
	for _, record := range rows[1:] {
		batch.Rows = append(batch.Rows, buildRow(batch.Header, record))
	}
	return batch, nil
}

func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	for i, name := range raw {
		name = strings.ToLower(strings.TrimSpace(name))
		out[i] = strings.ReplaceAll(name, " ", "_")
	}
	return out
}

func buildRow(header, record []string) Row {
	row := make(Row, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(record) {
			row[name] = strings.TrimSpace(record[i])
		} else {
			row[name] = ""
		}
	}
	return row
}
