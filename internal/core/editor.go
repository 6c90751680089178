package core

import (
	"errors"
	"fmt"
)

// Action is a user-triggered transition on the record being viewed.
type Action string

const (
	ActionSave     Action = "save"
	ActionSaveNext Action = "save_next"
	ActionSkip     Action = "skip"
	ActionPrev     Action = "prev"
)

// ParseAction validates a submitted action name.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionSave, ActionSaveNext, ActionSkip, ActionPrev:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// ErrPositionOutOfRange is returned by Jump for positions outside [1, N].
var ErrPositionOutOfRange = errors.New("jump position out of range")

// NoticeSaved is shown after a plain Save.
const NoticeSaved = "Record saved locally (don't forget to download eventually!)"

// Outcome describes what a transition did.
type Outcome struct {
	Action    Action `json:"action"`
	From      int    `json:"from"`
	To        int    `json:"to"`
	Committed bool   `json:"committed"`
	Notice    string `json:"notice,omitempty"`
}

// RecordEditor is the labeling state machine: one table, a cursor over it and
// the buffer for the record under the cursor. Every transition either fully
// applies or, when validation fails, changes nothing.
type RecordEditor struct {
	table  *Table
	cursor Cursor
	buffer EditBuffer
}

// NewRecordEditor opens an editor positioned at start. The table must have
// at least one record.
func NewRecordEditor(t *Table, start int) *RecordEditor {
	e := &RecordEditor{table: t, cursor: NewCursor(t.Len(), start)}
	e.reseed()
	return e
}

// Index returns the zero-based cursor position.
func (e *RecordEditor) Index() int { return e.cursor.Index() }

// Position returns the one-based cursor position.
func (e *RecordEditor) Position() int { return e.cursor.Position() }

// Len returns the number of records.
func (e *RecordEditor) Len() int { return e.table.Len() }

// Table returns the table being edited.
func (e *RecordEditor) Table() *Table { return e.table }

// Current returns the record under the cursor.
func (e *RecordEditor) Current() Record {
	rec, _ := e.table.Record(e.cursor.Index())
	return rec
}

// Buffer returns a copy of the draft for the current record.
func (e *RecordEditor) Buffer() EditBuffer {
	return e.buffer.Clone()
}

// ToggleTag flips a tag in the draft. Unknown tags are ignored.
func (e *RecordEditor) ToggleTag(tag string) {
	if IsKnownTag(tag) {
		e.buffer.Toggle(tag)
	}
}

// SetSeverity sets the draft severity; out-of-range scores are ignored.
func (e *RecordEditor) SetSeverity(score int) {
	if score >= MinSeverity && score <= MaxSeverity {
		e.buffer.Severity = score
	}
}

// Apply runs a transition with buf as the draft for the current record.
//
// Save and SaveNext validate and return a *ValidationError without touching
// the table or the cursor. Skip never commits. Prev commits only when the
// draft has one or two tags and always moves back.
func (e *RecordEditor) Apply(action Action, buf EditBuffer) (Outcome, error) {
	out := Outcome{Action: action, From: e.cursor.Index()}

	switch action {
	case ActionSave, ActionSaveNext:
		if err := Validate(buf.Tags); err != nil {
			e.buffer = buf.Clone()
			out.To = out.From
			return out, err
		}
		if err := e.commit(buf); err != nil {
			return out, err
		}
		out.Committed = true
		if action == ActionSaveNext {
			e.cursor.Next()
		} else {
			out.Notice = NoticeSaved
		}

	case ActionSkip:
		e.cursor.Next()

	case ActionPrev:
		if withinBounds(buf.Tags) {
			if err := e.commit(buf); err != nil {
				return out, err
			}
			out.Committed = true
		}
		e.cursor.Prev()

	default:
		return out, fmt.Errorf("unknown action %q", action)
	}

	e.reseed()
	out.To = e.cursor.Index()
	return out, nil
}

// Jump moves the cursor to a one-based position without committing the
// current draft. Unsaved edits are discarded.
func (e *RecordEditor) Jump(position int) (Outcome, error) {
	out := Outcome{From: e.cursor.Index(), To: e.cursor.Index()}
	if position < 1 || position > e.table.Len() {
		return out, fmt.Errorf("%w: %d not in [1, %d]", ErrPositionOutOfRange, position, e.table.Len())
	}
	e.cursor.JumpTo(position)
	e.reseed()
	out.To = e.cursor.Index()
	return out, nil
}

func (e *RecordEditor) commit(buf EditBuffer) error {
	tag1, tag2, sev := buf.labels()
	return e.table.SetLabels(e.cursor.Index(), tag1, tag2, sev)
}

// reseed re-clamps the cursor and rebuilds the draft from stored values.
func (e *RecordEditor) reseed() {
	e.cursor.Clamp(e.table.Len())
	e.buffer = Seed(e.Current())
}
