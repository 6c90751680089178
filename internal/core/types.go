package core

import (
	"fmt"
	"strings"
)

// Label column names as written on export.
const (
	ColumnDanger1  = "danger_1"
	ColumnDanger2  = "danger_2"
	ColumnSeverity = "Severity_Score"
)

// Metadata columns displayed alongside a record. They are never edited.
const (
	ColumnDescription = "Description"
	ColumnDate        = "Date"
	ColumnLocation    = "Location"
)

// severityAliases are the lowercase header names recognised as the severity column.
var severityAliases = []string{"severity_score", "severity"}

// HeaderIndex maps column names (lowercase) to their position in a row.
type HeaderIndex map[string]int

// NewHeaderIndex builds a HeaderIndex from a header row. The first occurrence
// of a name wins.
func NewHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	return idx
}

// Lookup returns the position of the first name present in the index.
func (h HeaderIndex) Lookup(names ...string) (int, bool) {
	for _, name := range names {
		if pos, ok := h[strings.ToLower(name)]; ok {
			return pos, true
		}
	}
	return 0, false
}

// Record is a read-only view of one table row.
type Record struct {
	Index  int
	Header []string
	Values []string

	Danger1  string
	Danger2  string
	Severity string // raw cell text

	idx HeaderIndex
}

// Field returns the value of a column by name (case-insensitive).
func (r Record) Field(name string) (string, bool) {
	pos, ok := r.idx[strings.ToLower(name)]
	if !ok || pos >= len(r.Values) {
		return "", false
	}
	return r.Values[pos], true
}

// FieldOr returns the value of a column, or fallback when the column is
// missing or the cell is blank.
func (r Record) FieldOr(name, fallback string) string {
	v, ok := r.Field(name)
	if !ok || isBlank(v) {
		return fallback
	}
	return v
}

// Labeled reports whether the record has a primary label.
func (r Record) Labeled() bool {
	return !isBlank(r.Danger1)
}

// IndexError is returned when a record index falls outside the table.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("record index %d out of range [0, %d)", e.Index, e.Len)
}

// isBlank treats empty cells and the textual "not a number" marker as missing.
func isBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "nan")
}
