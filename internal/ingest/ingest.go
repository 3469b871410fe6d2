// Package ingest decodes uploaded CSV/XLSX order exports into a raw table
// and maps the table onto the typed order-line schema. All schema knowledge
// lives here; once lines leave this package, columns are fixed typed fields.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular dataset: trimmed header names plus string cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Decode picks the decoder from the filename extension. headerRow is the
// zero-based index of the header line; anything above it (export banners,
// titles) is skipped.
func Decode(filename string, r io.Reader, headerRow int) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return DecodeCSV(r, headerRow)
	case ".xlsx":
		return DecodeXLSX(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}

// DecodeCSV reads a CSV stream. Records may be ragged; short rows are padded
// with empty cells during column lookup rather than rejected.
func DecodeCSV(r io.Reader, headerRow int) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return tableFromRecords(records, headerRow)
}

// DecodeXLSX reads the first sheet of an XLSX workbook.
func DecodeXLSX(r io.Reader, headerRow int) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return tableFromRecords(records, headerRow)
}

func tableFromRecords(records [][]string, headerRow int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(records) {
		return nil, fmt.Errorf("header row %d is outside the file (%d rows)", headerRow, len(records))
	}

	headers := make([]string, len(records[headerRow]))
	for i, h := range records[headerRow] {
		// Exports regularly ship headers like " Order ID ". Trim before matching.
		headers[i] = strings.TrimSpace(h)
	}

	return &Table{Headers: headers, Rows: records[headerRow+1:]}, nil
}

// cell returns the trimmed value at column idx, tolerating short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
