package core

// validation.go checks an edit buffer before it is committed to the table.
//
// Only the tag cardinality rule is enforced here: a record needs one or two
// category tags. Tag membership is checked where untrusted input enters the
// system (see ParseTags), so a buffer seeded from the table never fails it.

import (
	"fmt"
)

// ValidationError reports a buffer rejected before commit. Message is safe to
// show to users as-is.
type ValidationError struct {
	Code    string // LBL001, LBL002, LBL003
	Count   int    // observed number of tags, when relevant
	Value   string // offending value, when relevant
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches on Code so callers can compare against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrTooFewTags  = &ValidationError{Code: "LBL001", Message: "Select at least one tag."}
	ErrTooManyTags = &ValidationError{Code: "LBL002", Message: fmt.Sprintf("Too many tags selected. Maximum is %d.", MaxTags)}
	ErrUnknownTag  = &ValidationError{Code: "LBL003", Message: "Unknown category tag."}
)

// Validate enforces 1 <= len(tags) <= MaxTags.
func Validate(tags []string) error {
	switch n := len(tags); {
	case n == 0:
		return ErrTooFewTags
	case n > MaxTags:
		return &ValidationError{
			Code:    ErrTooManyTags.Code,
			Count:   n,
			Message: fmt.Sprintf("Too many selected (%d). Maximum is %d.", n, MaxTags),
		}
	}
	return nil
}

// withinBounds is the inline cardinality check used by Prev, which commits
// opportunistically and never reports an error.
func withinBounds(tags []string) bool {
	return len(tags) >= 1 && len(tags) <= MaxTags
}

// ParseTags turns submitted tag values into a selection, keeping submission
// order and dropping blanks and repeats. Values outside DangerOptions are
// rejected with ErrUnknownTag.
func ParseTags(values []string) ([]string, error) {
	tags := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		if !IsKnownTag(v) {
			return nil, &ValidationError{
				Code:    ErrUnknownTag.Code,
				Value:   v,
				Message: fmt.Sprintf("Unknown category tag %q.", v),
			}
		}
		seen[v] = true
		tags = append(tags, v)
	}
	return tags, nil
}
