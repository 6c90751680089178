package core

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// EditBuffer is the draft label state for the record being viewed. It is
// reseeded from the table whenever the cursor moves.
type EditBuffer struct {
	Tags     []string `json:"tags"`
	Severity int      `json:"severity"`
}

// Seed builds a buffer from a stored record. Stored tags that are empty or
// outside DangerOptions are dropped; the severity falls back to
// DefaultSeverity when the stored value is unusable.
func Seed(rec Record) EditBuffer {
	buf := EditBuffer{Tags: make([]string, 0, MaxTags), Severity: DefaultSeverity}
	for _, tag := range []string{rec.Danger1, rec.Danger2} {
		if tag != "" && IsKnownTag(tag) && len(buf.Tags) < MaxTags {
			buf.Tags = append(buf.Tags, tag)
		}
	}
	if sev, ok := ParseSeverity(rec.Severity); ok {
		buf.Severity = sev
	}
	return buf
}

// ParseSeverity converts a raw cell to a score in [MinSeverity, MaxSeverity].
// Numeric text is rounded to the nearest integer, halves to even ("3.0" and
// "2.6" both give 3, "2.5" gives 2).
// It returns false for blank, non-numeric, NaN or out-of-range input.
func ParseSeverity(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	n := int(math.RoundToEven(f))
	if n < MinSeverity || n > MaxSeverity {
		return 0, false
	}
	return n, true
}

// SeverityOrDefault is ParseSeverity with the DefaultSeverity fallback.
func SeverityOrDefault(raw string) int {
	if n, ok := ParseSeverity(raw); ok {
		return n
	}
	return DefaultSeverity
}

// Has reports whether tag is selected.
func (b EditBuffer) Has(tag string) bool {
	return slices.Contains(b.Tags, tag)
}

// Toggle selects tag, or deselects it if already selected. Selection order is
// kept: the first selected tag becomes danger_1.
func (b *EditBuffer) Toggle(tag string) {
	if i := slices.Index(b.Tags, tag); i >= 0 {
		b.Tags = slices.Delete(b.Tags, i, i+1)
		return
	}
	b.Tags = append(b.Tags, tag)
}

// Clone returns a deep copy.
func (b EditBuffer) Clone() EditBuffer {
	return EditBuffer{Tags: slices.Clone(b.Tags), Severity: b.Severity}
}

// labels splits the buffer into the values written to the three label columns.
func (b EditBuffer) labels() (tag1, tag2 string, severity int) {
	if len(b.Tags) > 0 {
		tag1 = b.Tags[0]
	}
	if len(b.Tags) > 1 {
		tag2 = b.Tags[1]
	}
	return tag1, tag2, b.Severity
}

// MergeSelection orders a submitted selection so previously selected tags
// keep their positions and newly checked tags follow in submission order.
// Forms post checked boxes in page order, which would otherwise reshuffle
// danger_1 and danger_2.
func MergeSelection(prev, checked []string) []string {
	out := make([]string, 0, len(checked))
	for _, tag := range prev {
		if slices.Contains(checked, tag) && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	for _, tag := range checked {
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}
