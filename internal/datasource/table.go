package datasource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is a parsed CSV feed. Cells are kept as strings; typing happens at the
// ingestion boundary of each consumer.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// ParseCSV reads a CSV document with a header row. Short rows are padded and
// surplus cells are ignored so one ragged line cannot fail the whole feed.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFeed
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidData, err)
	}

	t := NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidData, err)
		}
		t.AddRow(record...)
	}
	return t, nil
}

// NewTable creates an empty table with the given header.
func NewTable(header []string) *Table {
	t := &Table{
		Header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		key := strings.ToLower(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

// AddRow appends a row, padding or truncating it to the header width.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.Header))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// Has reports whether the header contains column (case-insensitive).
func (t *Table) Has(column string) bool {
	_, ok := t.index[strings.ToLower(column)]
	return ok
}

// Missing returns the required columns absent from the header.
func (t *Table) Missing(required ...string) []string {
	var missing []string
	for _, c := range required {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Get returns the trimmed cell of row i in column, or "" if the column is absent.
func (t *Table) Get(i int, column string) string {
	idx, ok := t.index[strings.ToLower(column)]
	if !ok || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][idx])
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
