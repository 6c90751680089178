package core

// Cursor tracks the current record index over a table of n records.
// The index stays within [0, n-1]; there is no wraparound.
type Cursor struct {
	index int
	n     int
}

// NewCursor returns a cursor over n records positioned at start, clamped
// into range.
func NewCursor(n, start int) Cursor {
	c := Cursor{index: start, n: n}
	c.Clamp(n)
	return c
}

// Index returns the zero-based position.
func (c Cursor) Index() int { return c.index }

// Position returns the one-based position shown to users.
func (c Cursor) Position() int { return c.index + 1 }

// Len returns the number of records the cursor spans.
func (c Cursor) Len() int { return c.n }

// AtEnd reports whether the cursor is on the last record.
func (c Cursor) AtEnd() bool { return c.index >= c.n-1 }

// Next advances one record; it is a no-op on the last record.
func (c *Cursor) Next() {
	if c.index < c.n-1 {
		c.index++
	}
}

// Prev steps back one record; it is a no-op on the first record.
func (c *Cursor) Prev() {
	if c.index > 0 {
		c.index--
	}
}

// JumpTo moves to a one-based position. The caller guarantees
// 1 <= position <= Len(); see RecordEditor.Jump.
func (c *Cursor) JumpTo(position int) {
	c.index = position - 1
}

// Clamp re-bounds the cursor after the table size changes.
func (c *Cursor) Clamp(n int) {
	c.n = n
	if c.index > n-1 {
		c.index = n - 1
	}
	if c.index < 0 {
		c.index = 0
	}
}
