// Package decode turns uploaded CSV and Excel payloads into a uniform
// in-memory table. The first non-empty row is the header; short rows are
// padded and fully empty rows dropped, so every surviving row lines up
// with the header.
package decode

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when an uploaded file is neither
	// CSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	byteOrderMark = []byte{0xEF, 0xBB, 0xBF}
)

// Table is a decoded upload: trimmed header labels plus data rows padded
// to the header width, in file order.
type Table struct {
	Source  string
	Headers []string
	rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th data row. Row numbers reported to callers are
// 1-based positions among the data rows, header excluded.
func (t *Table) Row(i int) RawRow {
	return RawRow{Number: i + 1, headers: t.Headers, values: t.rows[i]}
}

// RawRow is one undecoded input row.
type RawRow struct {
	Number  int
	headers []string
	values  []string
}

// Get returns the trimmed value under the named column, or "" when the
// column is absent. With duplicate headers the first column wins.
func (r RawRow) Get(name string) string {
	for i, h := range r.headers {
		if h == name {
			return strings.TrimSpace(r.values[i])
		}
	}
	return ""
}

// Payload returns the row keyed by the file's own headers, values
// verbatim. It is what lands in the staging audit record.
func (r RawRow) Payload() map[string]string {
	m := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		m[h] = r.values[i]
	}
	return m
}

// Decode parses an uploaded file into a Table, dispatching on the file
// extension.
func Decode(fileName string, payload []byte) (*Table, error) {
	if len(payload) == 0 {
		return nil, errors.New("file is empty")
	}

	var (
		records [][]string
		err     error
	)
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".csv":
		records, err = parseCSV(payload)
	case ".xlsx":
		records, err = parseExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	table, err := normalizeTable(records)
	if err != nil {
		return nil, err
	}
	table.Source = fileName
	return table, nil
}

func parseCSV(payload []byte) ([][]string, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return records, nil
}

func parseExcel(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows from xlsx: %w", err)
	}
	return rows, nil
}

func normalizeTable(records [][]string) (*Table, error) {
	var headerRow []string
	var dataRows [][]string

	for _, row := range records {
		if isEmptyRow(row) {
			continue
		}
		if headerRow == nil {
			headerRow = row
			continue
		}
		dataRows = append(dataRows, row)
	}
	if headerRow == nil {
		return nil, errors.New("no header row detected")
	}

	headers := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = strings.TrimSpace(h)
	}

	for i := range dataRows {
		dataRows[i] = padRow(dataRows[i], len(headers))
	}

	return &Table{Headers: headers, rows: dataRows}, nil
}

func padRow(row []string, length int) []string {
	if len(row) >= length {
		return row[:length]
	}
	padded := make([]string, length)
	copy(padded, row)
	return padded
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
