package core

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows (header first) to the first sheet of a new workbook.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow(%d): %v", i, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

// newTestTable returns n unlabeled records with the standard metadata columns.
func newTestTable(t *testing.T, n int) *Table {
	t.Helper()
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{"incident " + string(rune('A'+i)), "2024-01-0" + string(rune('1'+i%9)), "Site"}
	}
	table, _ := NewTable([]string{"Description", "Date", "Location"}, rows)
	return table
}

func mustRecord(t *testing.T, table *Table, i int) Record {
	t.Helper()
	rec, err := table.Record(i)
	if err != nil {
		t.Fatalf("Record(%d) error = %v", i, err)
	}
	return rec
}
