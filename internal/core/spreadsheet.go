package core

// spreadsheet.go is the import/export boundary. Workbooks are read from the
// first sheet: row 1 is the header, every following row is a record. Export
// writes the full table back as a single-sheet workbook in the same order.
// Table rows hold each cell's formatted text for display; the stored value,
// formula and style of every original cell are kept alongside and written
// back unchanged.

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportError wraps any failure to read the uploaded bytes as a workbook.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return "invalid spreadsheet: " + e.Err.Error()
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// ErrEmptyTable is returned when a workbook has no data rows.
var ErrEmptyTable = errors.New("empty file: spreadsheet has no data rows")

// Imported is the result of reading a workbook.
type Imported struct {
	Table       *Table
	ResumeIndex int
	Sheet       string
	Added       []string // label columns that were missing and created empty
}

// Import parses a workbook and positions the resume index on the first record
// without a primary label.
func Import(data []byte) (*Imported, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ImportError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ImportError{Err: errors.New("workbook has no sheets")}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ImportError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) < 2 {
		return nil, ErrEmptyTable
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &ImportError{Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	source, err := readSource(f, sheet, raw)
	if err != nil {
		return nil, &ImportError{Err: err}
	}

	table, added := NewTable(rows[0], rows[1:])
	table.source = source
	return &Imported{
		Table:       table,
		ResumeIndex: table.ResumeIndex(),
		Sheet:       sheet,
		Added:       added,
	}, nil
}

// Load is Import reduced to the table and its resume index.
func Load(data []byte) (*Table, int, error) {
	imp, err := Import(data)
	if err != nil {
		return nil, 0, err
	}
	return imp.Table, imp.ResumeIndex, nil
}

// sourceCell is an original data cell as stored in the uploaded workbook.
type sourceCell struct {
	value   any // float64, bool or string
	formula string
	style   *excelize.Style
}

// readSource collects the stored value, formula and style of every non-empty
// data cell. raw is the sheet read with RawCellValue, header first.
func readSource(f *excelize.File, sheet string, raw [][]string) ([][]sourceCell, error) {
	if len(raw) < 2 {
		return nil, nil
	}
	styles := make(map[int]*excelize.Style)
	out := make([][]sourceCell, len(raw)-1)
	for r, row := range raw[1:] {
		cells := make([]sourceCell, len(row))
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if cells[c], err = readCell(f, sheet, name, v, styles); err != nil {
				return nil, fmt.Errorf("read cell %s: %w", name, err)
			}
		}
		out[r] = cells
	}
	return out, nil
}

func readCell(f *excelize.File, sheet, name, raw string, styles map[int]*excelize.Style) (sourceCell, error) {
	formula, err := f.GetCellFormula(sheet, name)
	if err != nil {
		return sourceCell{}, err
	}
	if raw == "" && formula == "" {
		return sourceCell{}, nil
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return sourceCell{}, err
	}
	id, err := f.GetCellStyle(sheet, name)
	if err != nil {
		return sourceCell{}, err
	}

	src := sourceCell{value: typedValue(raw, typ), formula: formula}
	if id > 0 {
		style, ok := styles[id]
		if !ok {
			if style, err = f.GetStyle(id); err != nil {
				return sourceCell{}, err
			}
			styles[id] = style
		}
		src.style = style
	}
	return src, nil
}

// typedValue converts a raw cell value to the Go type the stream writer
// stores with the same cell type.
func typedValue(raw string, typ excelize.CellType) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}

// Export serializes the whole table as a workbook with one sheet named sheet.
// Original cells are written back with their stored value, formula and style.
// Label cells are written as text except integer severity scores, which are
// written as numbers; blank cells stay empty.
func Export(t *Table, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if def := f.GetSheetName(0); def != sheet {
		if err := f.SetSheetName(def, sheet); err != nil {
			return nil, fmt.Errorf("rename sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	header := t.Header()
	if err := writeRow(sw, 1, toCells(header, -1)); err != nil {
		return nil, err
	}

	styles := make(map[*excelize.Style]int)
	err = t.Rows(func(i int, cells []string) error {
		values, err := t.exportCells(f, i, cells, styles)
		if err != nil {
			return err
		}
		return writeRow(sw, i+2, values)
	})
	if err != nil {
		return nil, err
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(sw *excelize.StreamWriter, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// exportCells builds the row values for record i. styles maps source styles
// to the ids registered in the output workbook.
func (t *Table) exportCells(f *excelize.File, i int, cells []string, styles map[*excelize.Style]int) ([]any, error) {
	out := toCells(cells, t.severity)
	if i >= len(t.source) {
		return out, nil
	}
	for c, src := range t.source[i] {
		if c >= len(out) {
			break
		}
		if src.value == nil || t.isLabelColumn(c) {
			continue
		}
		cell := excelize.Cell{Value: src.value, Formula: src.formula}
		if src.style != nil {
			id, ok := styles[src.style]
			if !ok {
				var err error
				if id, err = registerStyle(f, src.style); err != nil {
					return nil, err
				}
				styles[src.style] = id
			}
			cell.StyleID = id
		}
		out[c] = cell
	}
	return out, nil
}

// registerStyle adds a source style to the output workbook. Styles the
// writer rejects fall back to their number format alone.
func registerStyle(f *excelize.File, style *excelize.Style) (int, error) {
	if id, err := f.NewStyle(style); err == nil {
		return id, nil
	}
	id, err := f.NewStyle(&excelize.Style{
		NumFmt:        style.NumFmt,
		DecimalPlaces: style.DecimalPlaces,
		CustomNumFmt:  style.CustomNumFmt,
	})
	if err != nil {
		return 0, fmt.Errorf("register cell style: %w", err)
	}
	return id, nil
}

func toCells(cells []string, intCol int) []any {
	out := make([]any, len(cells))
	for i, v := range cells {
		switch {
		case v == "":
			out[i] = nil
		case i == intCol:
			if n, err := strconv.Atoi(v); err == nil {
				out[i] = n
				continue
			}
			out[i] = v
		default:
			out[i] = v
		}
	}
	return out
}
