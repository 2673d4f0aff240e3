package decode

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// RawTable is an in-memory table of string cells as decoded from one
// source file. Column names are canonicalized (upper, underscores).
// Ephemeral: discarded after schema normalization.
type RawTable struct {
	Columns []string
	Rows    [][]string

	// Encoding and Delimiter record the combination that decoded the
	// source, for diagnostics.
	Encoding  string
	Delimiter rune
}

// ColumnIndex returns the index of a canonical column name, or -1.
func (t *RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the source row was
// shorter than the header.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// MarshalCSV writes the table as canonical comma-separated UTF-8, the
// format of the per-period cache files.
func (t *RawTable) MarshalCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		padded := row
		if len(row) != len(t.Columns) {
			padded = make([]string, len(t.Columns))
			copy(padded, row)
		}
		if err := w.Write(padded); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalCSV parses a canonical cache file back into a RawTable.
func UnmarshalCSV(data []byte) (*RawTable, error) {
	t, err := parse(string(data), ',')
	if err != nil {
		return nil, fmt.Errorf("parse cached table: %w", err)
	}
	t.Encoding = "utf-8"
	return t, nil
}
