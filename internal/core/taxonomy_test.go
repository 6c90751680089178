package core

import (
	"slices"
	"testing"
)

func TestDangerOptions(t *testing.T) {
	if len(DangerOptions) != 29 {
		t.Errorf("len(DangerOptions) = %d, want 29", len(DangerOptions))
	}
	if !slices.IsSorted(DangerOptions) {
		t.Error("DangerOptions not sorted")
	}
	for _, tag := range DangerOptions {
		if !IsKnownTag(tag) {
			t.Errorf("IsKnownTag(%q) = false", tag)
		}
	}
	for _, tag := range []string{"", "bruit", "Other", "nan"} {
		if IsKnownTag(tag) {
			t.Errorf("IsKnownTag(%q) = true, want false", tag)
		}
	}
}

func TestSeverityOptions(t *testing.T) {
	opts := SeverityOptions()
	if len(opts) != 5 {
		t.Fatalf("len(SeverityOptions()) = %d, want 5", len(opts))
	}
	for i, opt := range opts {
		if opt.Score != i+1 {
			t.Errorf("opts[%d].Score = %d, want %d", i, opt.Score, i+1)
		}
		if opt.Label == "" {
			t.Errorf("opts[%d].Label empty", i)
		}
	}
	if got := SeverityLabel(9); got != "9" {
		t.Errorf("SeverityLabel(9) = %q, want 9", got)
	}
}
