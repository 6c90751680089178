package core

import (
	"errors"
	"slices"
	"testing"
)

func TestNewTable_AddsMissingLabelColumns(t *testing.T) {
	table, added := NewTable([]string{"Description", "Date"}, [][]string{{"a", "b"}})

	wantAdded := []string{ColumnDanger1, ColumnDanger2, ColumnSeverity}
	if !slices.Equal(added, wantAdded) {
		t.Errorf("added = %v, want %v", added, wantAdded)
	}
	wantHeader := []string{"Description", "Date", ColumnDanger1, ColumnDanger2, ColumnSeverity}
	if got := table.Header(); !slices.Equal(got, wantHeader) {
		t.Errorf("Header() = %v, want %v", got, wantHeader)
	}
	rec := mustRecord(t, table, 0)
	if rec.Danger1 != "" || rec.Danger2 != "" || rec.Severity != "" {
		t.Errorf("new label cells not empty: %+v", rec)
	}
}

func TestNewTable_RecognisesExistingColumns(t *testing.T) {
	table, added := NewTable(
		[]string{"DANGER_1", "Description", "severity", "danger_2"},
		[][]string{{"Bruit", "x", "4", "Stress"}},
	)
	if len(added) != 0 {
		t.Errorf("added = %v, want none", added)
	}
	want := []string{ColumnDanger1, "Description", ColumnSeverity, ColumnDanger2}
	if got := table.Header(); !slices.Equal(got, want) {
		t.Errorf("Header() = %v, want %v", got, want)
	}
	rec := mustRecord(t, table, 0)
	if rec.Danger1 != "Bruit" || rec.Danger2 != "Stress" || rec.Severity != "4" {
		t.Errorf("record labels = %q %q %q", rec.Danger1, rec.Danger2, rec.Severity)
	}
}

func TestNewTable_HeaderNormalization(t *testing.T) {
	table, _ := NewTable([]string{"Notes", "", "Notes"}, [][]string{{"a", "b", "c", "overflow"}})
	want := []string{"Notes", "Unnamed: 1", "Notes.1", "Unnamed: 3", ColumnDanger1, ColumnDanger2, ColumnSeverity}
	if got := table.Header(); !slices.Equal(got, want) {
		t.Errorf("Header() = %v, want %v", got, want)
	}
	rec := mustRecord(t, table, 0)
	if v, _ := rec.Field("Unnamed: 3"); v != "overflow" {
		t.Errorf("overflow cell = %q, want %q", v, "overflow")
	}
	if rec.Danger1 != "" {
		t.Errorf("overflow cell leaked into danger_1: %q", rec.Danger1)
	}
}

func TestTable_RecordOutOfRange(t *testing.T) {
	table := newTestTable(t, 2)
	for _, idx := range []int{-1, 2, 10} {
		_, err := table.Record(idx)
		var ie *IndexError
		if !errors.As(err, &ie) {
			t.Errorf("Record(%d) error = %v, want *IndexError", idx, err)
		}
	}
}

func TestTable_SetLabelsTouchesOnlyOneRecord(t *testing.T) {
	table := newTestTable(t, 3)
	before0 := mustRecord(t, table, 0)
	before2 := mustRecord(t, table, 2)

	if err := table.SetLabels(1, "Bruit", "", 3); err != nil {
		t.Fatalf("SetLabels() error = %v", err)
	}

	rec := mustRecord(t, table, 1)
	if rec.Danger1 != "Bruit" || rec.Danger2 != "" || rec.Severity != "3" {
		t.Errorf("record 1 = %q %q %q, want Bruit, empty, 3", rec.Danger1, rec.Danger2, rec.Severity)
	}
	if got := mustRecord(t, table, 0); !slices.Equal(got.Values, before0.Values) {
		t.Errorf("record 0 changed: %v -> %v", before0.Values, got.Values)
	}
	if got := mustRecord(t, table, 2); !slices.Equal(got.Values, before2.Values) {
		t.Errorf("record 2 changed: %v -> %v", before2.Values, got.Values)
	}
	if err := table.SetLabels(3, "Bruit", "", 1); err == nil {
		t.Error("SetLabels(3) on 3 rows expected error")
	}
}

func TestTable_ResumeIndex(t *testing.T) {
	tests := []struct {
		name    string
		danger1 []string
		want    int
	}{
		{"first unlabeled", []string{"", "Bruit"}, 0},
		{"middle unlabeled", []string{"Bruit", "Stress", "", ""}, 2},
		{"nan is missing", []string{"Bruit", "NaN"}, 1},
		{"lowercase nan is missing", []string{"Bruit", "nan", ""}, 1},
		{"whitespace is missing", []string{"Bruit", "   "}, 1},
		{"all labeled", []string{"Bruit", "Stress"}, 0},
		{"unknown tag still counts as labeled", []string{"Other", ""}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]string, len(tt.danger1))
			for i, d := range tt.danger1 {
				rows[i] = []string{"desc", d}
			}
			table, _ := NewTable([]string{"Description", "danger_1"}, rows)
			got := table.ResumeIndex()
			if got != tt.want {
				t.Errorf("ResumeIndex() = %d, want %d", got, tt.want)
			}
			if got < 0 || got >= table.Len() {
				t.Errorf("ResumeIndex() = %d outside [0, %d)", got, table.Len())
			}
		})
	}
}

func TestTable_CountsAndFields(t *testing.T) {
	table, _ := NewTable(
		[]string{"Description", "Location", "danger_1", "danger_2"},
		[][]string{
			{"a", "", "Bruit", "Stress"},
			{"b", "Dock", "Bruit", "not-a-tag"},
			{"c", "Dock", "", ""},
		},
	)
	if got := table.LabeledCount(); got != 2 {
		t.Errorf("LabeledCount() = %d, want 2", got)
	}
	counts := table.TagCounts()
	if counts["Bruit"] != 2 || counts["Stress"] != 1 || len(counts) != 2 {
		t.Errorf("TagCounts() = %v", counts)
	}

	rec := mustRecord(t, table, 0)
	if got := rec.FieldOr("location", "N/A"); got != "N/A" {
		t.Errorf("FieldOr(blank) = %q, want N/A", got)
	}
	if got := rec.FieldOr("Date", "N/A"); got != "N/A" {
		t.Errorf("FieldOr(missing column) = %q, want N/A", got)
	}
	if got := rec.FieldOr("DESCRIPTION", ""); got != "a" {
		t.Errorf("FieldOr(case-insensitive) = %q, want a", got)
	}
}
