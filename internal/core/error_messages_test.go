package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "no tags keeps validation text",
			err:         ErrTooFewTags,
			wantCode:    "LBL001",
			wantMessage: "Select at least one tag.",
		},
		{
			name:        "too many tags keeps count",
			err:         Validate([]string{"Bruit", "Stress", "Eclairage"}),
			wantCode:    "LBL002",
			wantMessage: "Too many selected (3). Maximum is 2.",
		},
		{
			name:        "wrapped validation error",
			err:         fmt.Errorf("apply: %w", ErrTooFewTags),
			wantCode:    "LBL001",
			wantMessage: "Select at least one tag.",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: 40000000 bytes exceeds 33554432", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "http body limit maps to file too large",
			err:         errors.New("http: request body too large"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "import error maps to invalid spreadsheet",
			err:         &ImportError{Err: errors.New("zip: not a valid zip file")},
			wantCode:    "FILE002",
			wantMessage: "File is not a valid Excel workbook",
		},
		{
			name:        "no file maps correctly",
			err:         ErrNoFile,
			wantCode:    "FILE004",
			wantMessage: "No file was selected",
		},
		{
			name:        "empty table maps correctly",
			err:         ErrEmptyTable,
			wantCode:    "FILE005",
			wantMessage: "The workbook has no records",
		},
		{
			name:        "no dataset maps correctly",
			err:         ErrNoDataset,
			wantCode:    "SES001",
			wantMessage: "No dataset is loaded",
		},
		{
			name:        "stale view maps correctly",
			err:         ErrStaleView,
			wantCode:    "SES002",
			wantMessage: "This page is out of date",
		},
		{
			name:        "jump out of range maps correctly",
			err:         fmt.Errorf("%w: 9 not in [1, 3]", ErrPositionOutOfRange),
			wantCode:    "NAV001",
			wantMessage: "Record number is out of range",
		},
		{
			name:        "unknown action maps to invalid form",
			err:         errors.New(`unknown action "delete"`),
			wantCode:    "REQ001",
			wantMessage: "The submitted form could not be read",
		},
		{
			name:        "deadline maps to timeout",
			err:         context.DeadlineExceeded,
			wantCode:    "REQ002",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "import slots busy maps correctly",
			err:         ErrTooManyImports,
			wantCode:    "RATE002",
			wantMessage: "The server is busy reading other uploads",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("STALE VIEW: something"),
			wantCode:    "SES002",
			wantMessage: "This page is out of date",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_LabelActions(t *testing.T) {
	for _, err := range []error{ErrTooFewTags, ErrTooManyTags, ErrUnknownTag} {
		if got := MapError(err); got.Action == "" {
			t.Errorf("MapError(%v).Action is empty", err)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "nil error returns empty string",
			err:      nil,
			contains: nil,
		},
		{
			name:     "validation error includes code and action",
			err:      ErrTooFewTags,
			contains: []string{"Select at least one tag.", "LBL001", "Skip"},
		},
		{
			name:     "unknown error includes default code",
			err:      errors.New("unknown"),
			contains: []string{"unexpected error", "ERR000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatUserError(tt.err)
			if tt.err == nil {
				if got != "" {
					t.Errorf("FormatUserError(nil) = %q, want empty string", got)
				}
				return
			}
			for _, substr := range tt.contains {
				if !strings.Contains(got, substr) {
					t.Errorf("FormatUserError() = %q, want to contain %q", got, substr)
				}
			}
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"validation error", ErrTooManyTags, true},
		{"empty table", ErrEmptyTable, true},
		{"unknown error", errors.New("random"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}
