package core

import (
	"bytes"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestImport_AddsMissingColumnsAndResumes(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Description", "Date", "Location", "danger_1"},
		{"Fell off ladder", "2024-03-01", "Warehouse", "Chutes de hauteur"},
		{"Loud press", "2024-03-02", "Plant", ""},
		{"Forklift", "2024-03-03", "Dock", ""},
	})

	imp, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if imp.Table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", imp.Table.Len())
	}
	if imp.ResumeIndex != 1 {
		t.Errorf("ResumeIndex = %d, want 1", imp.ResumeIndex)
	}
	if imp.Sheet != "Sheet1" {
		t.Errorf("Sheet = %q, want Sheet1", imp.Sheet)
	}
	if want := []string{ColumnDanger2, ColumnSeverity}; !slices.Equal(imp.Added, want) {
		t.Errorf("Added = %v, want %v", imp.Added, want)
	}
	rec := mustRecord(t, imp.Table, 0)
	if rec.FieldOr(ColumnLocation, "N/A") != "Warehouse" {
		t.Errorf("Location = %q", rec.FieldOr(ColumnLocation, "N/A"))
	}
}

func TestImport_Failures(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr func(error) bool
	}{
		{
			name: "not a workbook",
			data: []byte("Description,Date\nfoo,bar\n"),
			wantErr: func(err error) bool {
				var ie *ImportError
				return errors.As(err, &ie)
			},
		},
		{
			name:    "empty input",
			data:    nil,
			wantErr: func(err error) bool { var ie *ImportError; return errors.As(err, &ie) },
		},
		{
			name:    "header only",
			data:    buildWorkbook(t, [][]any{{"Description", "danger_1"}}),
			wantErr: func(err error) bool { return errors.Is(err, ErrEmptyTable) },
		},
		{
			name:    "blank sheet",
			data:    buildWorkbook(t, nil),
			wantErr: func(err error) bool { return errors.Is(err, ErrEmptyTable) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(tt.data)
			if err == nil || !tt.wantErr(err) {
				t.Errorf("Import() error = %v", err)
			}
		})
	}
}

func TestExport_RoundTrip(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Description", "Date", "Location", "Reporter"},
		{"Fell off ladder", "2024-03-01", "Warehouse", "A. Martin"},
		{"Loud press", "", "Plant", "B. Durand"},
		{"Forklift", "2024-03-03", "", ""},
	})
	table, start, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	e := NewRecordEditor(table, start)
	if _, err := e.Apply(ActionSaveNext, EditBuffer{Tags: []string{"Chutes de hauteur", "Equipement de travail"}, Severity: 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Apply(ActionSaveNext, EditBuffer{Tags: []string{"Bruit"}, Severity: 2}); err != nil {
		t.Fatal(err)
	}

	out, err := Export(table, "Sheet1")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	again, err := Import(out)
	if err != nil {
		t.Fatalf("re-Import() error = %v", err)
	}

	if len(again.Added) != 0 {
		t.Errorf("exported workbook missing label columns: %v", again.Added)
	}
	if got, want := again.Table.Header(), table.Header(); !slices.Equal(got, want) {
		t.Errorf("header = %v, want %v", got, want)
	}
	if again.Table.Len() != table.Len() {
		t.Fatalf("Len() = %d, want %d", again.Table.Len(), table.Len())
	}
	for i := range table.Len() {
		want := mustRecord(t, table, i)
		got := mustRecord(t, again.Table, i)
		if !slices.Equal(got.Values, want.Values) {
			t.Errorf("row %d = %v, want %v", i, got.Values, want.Values)
		}
	}
	if again.ResumeIndex != 2 {
		t.Errorf("ResumeIndex = %d, want 2", again.ResumeIndex)
	}
	if again.Table.LabeledCount() != 2 {
		t.Errorf("LabeledCount() = %d, want 2", again.Table.LabeledCount())
	}
}

func TestExport_PreservesStoredCells(t *testing.T) {
	src := excelize.NewFile()
	defer src.Close()

	rows := [][]any{
		{"Description", "Ratio", "Count", "Date", "Closed"},
		{"Loud press", 3.14159, 42, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"Forklift", 1234567.891, 7, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), false},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := src.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow(%d): %v", i, err)
		}
	}
	twoDecimals, err := src.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		t.Fatal(err)
	}
	monthYear, err := src.NewStyle(&excelize.Style{NumFmt: 17})
	if err != nil {
		t.Fatal(err)
	}
	if err := src.SetCellStyle("Sheet1", "B2", "B3", twoDecimals); err != nil {
		t.Fatal(err)
	}
	if err := src.SetCellStyle("Sheet1", "D2", "D3", monthYear); err != nil {
		t.Fatal(err)
	}
	buf, err := src.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	table, start, err := Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := mustRecord(t, table, 0).FieldOr("Ratio", ""); got != "3.14" {
		t.Errorf("displayed Ratio = %q, want 3.14", got)
	}
	e := NewRecordEditor(table, start)
	if _, err := e.Apply(ActionSaveNext, EditBuffer{Tags: []string{"Bruit"}, Severity: 3}); err != nil {
		t.Fatal(err)
	}

	data, err := Export(table, "Sheet1")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer out.Close()

	raw := excelize.Options{RawCellValue: true}
	for _, cell := range []string{"B2", "C2", "D2", "E2", "B3", "C3", "D3", "E3"} {
		wantRaw, _ := src.GetCellValue("Sheet1", cell, raw)
		gotRaw, err := out.GetCellValue("Sheet1", cell, raw)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", cell, err)
		}
		if gotRaw != wantRaw {
			t.Errorf("%s raw = %q, want %q", cell, gotRaw, wantRaw)
		}

		wantShown, _ := src.GetCellValue("Sheet1", cell)
		gotShown, _ := out.GetCellValue("Sheet1", cell)
		if gotShown != wantShown {
			t.Errorf("%s formatted = %q, want %q", cell, gotShown, wantShown)
		}

		wantType, _ := src.GetCellType("Sheet1", cell)
		gotType, _ := out.GetCellType("Sheet1", cell)
		if gotType != wantType {
			t.Errorf("%s type = %v, want %v", cell, gotType, wantType)
		}
		if gotType == excelize.CellTypeInlineString || gotType == excelize.CellTypeSharedString {
			t.Errorf("%s exported as text", cell)
		}
	}

	if got, _ := out.GetCellValue("Sheet1", "B2", raw); got != "3.14159" {
		t.Errorf("B2 raw = %q, want 3.14159", got)
	}
	if got, _ := out.GetCellValue("Sheet1", "F2"); got != "Bruit" {
		t.Errorf("danger_1 = %q, want Bruit", got)
	}
	if got, _ := out.GetCellValue("Sheet1", "H2", raw); got != "3" {
		t.Errorf("Severity_Score = %q, want 3", got)
	}
}

func TestExport_SheetName(t *testing.T) {
	table := newTestTable(t, 1)
	out, err := Export(table, "Labels")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	imp, err := Import(out)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if imp.Sheet != "Labels" {
		t.Errorf("Sheet = %q, want Labels", imp.Sheet)
	}
}
