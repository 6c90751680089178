// Package core provides the record labeling model for incident workbooks.
//
// This package holds all domain logic independent of any UI: the web server
// and the terminal labeler drive the same types.
//
// # Model
//
//   - [Table]: the imported rows. Original columns are carried through
//     untouched; only danger_1, danger_2 and Severity_Score are written.
//   - [Cursor]: the current record, bounded to [0, N-1] with no wraparound.
//   - [EditBuffer]: the draft tags and severity for the current record,
//     reseeded from the table whenever the cursor moves.
//   - [RecordEditor]: the transitions Save, SaveNext, Skip, Prev and Jump.
//   - [Service]: owns the single session and serializes access to it.
//
// # Import and Export
//
// [Import] reads the first sheet of an .xlsx workbook, creates missing label
// columns and finds the first record without a primary label. [Export]
// writes the whole table back in the same order.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]:
//
//   - LBL001-LBL003: label validation
//   - FILE001-FILE005: upload and workbook problems
//   - SES001-SES002: missing or out-of-date session
//   - NAV001: jump out of range
package core
