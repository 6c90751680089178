package core

// # Error Codes Reference
//
// Users can quote these codes when reporting a problem.
//
// # Label Errors (LBL001-LBL099)
//
// Raised by Validate and ParseTags; the message shown is the error's own text.
//
//	LBL001 - Too few tags: Select at least one tag.
//	LBL002 - Too many tags: Too many selected (N). Maximum is 2.
//	LBL003 - Unknown tag: A submitted tag is not in the category list
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	          Patterns: "file too large", "request body too large"
//	FILE002 - Not a spreadsheet
//	          Patterns: "invalid spreadsheet"
//	FILE004 - No file selected
//	          Patterns: "no file provided"
//	FILE005 - No data rows
//	          Patterns: "empty file"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - No dataset loaded
//	         Patterns: "no dataset loaded"
//	SES002 - Page out of date
//	         Patterns: "stale view"
//
// # Navigation Errors (NAV001-NAV099)
//
//	NAV001 - Position out of range
//	         Patterns: "jump position out of range"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid form
//	         Patterns: "invalid form", "unknown action"
//	REQ002 - Request cancelled / timed out
//	         Patterns: "context canceled", "context deadline exceeded"
//
// # Rate Limiting
//
//	RATE001 - Too many requests
//	          Patterns: "rate limit"
//	RATE002 - Import slots busy
//	          Patterns: "too many concurrent imports"
//
// Anything else maps to ERR000. Patterns are matched case-insensitively with
// strings.Contains; the first match wins.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// labelActions are the suggested actions for ValidationError codes.
var labelActions = map[string]string{
	"LBL001": "Pick a category before saving, or use Skip to leave the record unlabeled",
	"LBL002": "Deselect tags until at most two remain",
	"LBL003": "Choose tags from the list shown on the form",
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook or raise UPLOAD_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the workbook or raise UPLOAD_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Upload an .xlsx file saved from Excel or LibreOffice",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The workbook has no records",
			Action:  "The first sheet needs a header row and at least one data row",
			Code:    "FILE005",
		},
	},

	// Session errors
	{
		pattern: "no dataset loaded",
		msg: UserMessage{
			Message: "No dataset is loaded",
			Action:  "Upload a workbook to start labeling",
			Code:    "SES001",
		},
	},
	{
		pattern: "stale view",
		msg: UserMessage{
			Message: "This page is out of date",
			Action:  "Reload the page; nothing was saved from the old form",
			Code:    "SES002",
		},
	},

	// Navigation
	{
		pattern: "jump position out of range",
		msg: UserMessage{
			Message: "Record number is out of range",
			Action:  "Enter a number between 1 and the number of records",
			Code:    "NAV001",
		},
	},

	// Request errors
	{
		pattern: "invalid form",
		msg: UserMessage{
			Message: "The submitted form could not be read",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "unknown action",
		msg: UserMessage{
			Message: "The submitted form could not be read",
			Action:  "Reload the page and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "The server is busy reading other uploads",
			Action:  "Please wait a few seconds and upload again",
			Code:    "RATE002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again; check the server log for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Validation errors keep their own text; everything else is matched against
// the pattern table, falling back to ERR000.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return UserMessage{
			Message: ve.Message,
			Action:  labelActions[ve.Code],
			Code:    ve.Code,
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	if msg.Action == "" {
		return fmt.Sprintf("%s (Code: %s)", msg.Message, msg.Code)
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
