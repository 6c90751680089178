package core

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Table is the loaded dataset. Rows keep their original order and every
// original column is carried through to export untouched; only the three
// label columns are ever written.
type Table struct {
	header []string
	rows   [][]string
	idx    HeaderIndex

	danger1  int
	danger2  int
	severity int

	// source holds the original cells of each row when the table was read
	// from a workbook; nil otherwise.
	source [][]sourceCell
}

// NewTable builds a Table from a header row and data rows. Missing label
// columns are appended as all-empty; their names are returned in added.
// Existing label columns are renamed to the canonical export names.
func NewTable(header []string, rows [][]string) (t *Table, added []string) {
	width := len(header)
	for _, row := range rows {
		width = max(width, len(row))
	}
	header = normalizeHeader(append(slices.Clone(header), make([]string, width-len(header))...))
	idx := NewHeaderIndex(header)

	t = &Table{}
	ensure := func(canonical string, aliases ...string) int {
		if pos, ok := idx.Lookup(aliases...); ok {
			header[pos] = canonical
			return pos
		}
		header = append(header, canonical)
		added = append(added, canonical)
		return len(header) - 1
	}
	t.danger1 = ensure(ColumnDanger1, ColumnDanger1)
	t.danger2 = ensure(ColumnDanger2, ColumnDanger2)
	t.severity = ensure(ColumnSeverity, severityAliases...)

	t.header = header
	t.idx = NewHeaderIndex(header)
	t.rows = make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, len(header))
		copy(padded, row)
		t.rows[i] = padded
	}
	return t, added
}

// normalizeHeader trims names, fills blanks and de-duplicates repeated names
// so every column stays addressable by name.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		key := strings.ToLower(name)
		if n, dup := seen[key]; dup {
			seen[key] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[key] = 1
		}
		out[i] = name
	}
	return out
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.rows)
}

// Header returns a copy of the column names, label columns included.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Record returns the record at index.
func (t *Table) Record(index int) (Record, error) {
	if index < 0 || index >= len(t.rows) {
		return Record{}, &IndexError{Index: index, Len: len(t.rows)}
	}
	row := t.rows[index]
	return Record{
		Index:    index,
		Header:   t.header,
		Values:   slices.Clone(row),
		Danger1:  row[t.danger1],
		Danger2:  row[t.danger2],
		Severity: row[t.severity],
		idx:      t.idx,
	}, nil
}

// SetLabels overwrites the three label cells of one record. It performs no
// validation; callers validate the buffer first.
func (t *Table) SetLabels(index int, tag1, tag2 string, severity int) error {
	if index < 0 || index >= len(t.rows) {
		return &IndexError{Index: index, Len: len(t.rows)}
	}
	row := t.rows[index]
	row[t.danger1] = tag1
	row[t.danger2] = tag2
	row[t.severity] = strconv.Itoa(severity)
	return nil
}

// ResumeIndex returns the first record without a primary label, or 0 when
// every record is labeled.
func (t *Table) ResumeIndex() int {
	for i, row := range t.rows {
		if isBlank(row[t.danger1]) {
			return i
		}
	}
	return 0
}

// LabeledCount returns the number of records with a primary label.
func (t *Table) LabeledCount() int {
	n := 0
	for _, row := range t.rows {
		if !isBlank(row[t.danger1]) {
			n++
		}
	}
	return n
}

// TagCounts returns how often each known tag appears in either label column.
func (t *Table) TagCounts() map[string]int {
	counts := make(map[string]int)
	for _, row := range t.rows {
		for _, pos := range []int{t.danger1, t.danger2} {
			if tag := row[pos]; IsKnownTag(tag) {
				counts[tag]++
			}
		}
	}
	return counts
}

// Rows calls fn for every row in order with a read-only slice of cells.
// Iteration stops at the first error.
func (t *Table) Rows(fn func(i int, cells []string) error) error {
	for i, row := range t.rows {
		if err := fn(i, row); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) isLabelColumn(c int) bool {
	return c == t.danger1 || c == t.danger2 || c == t.severity
}
