package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. The CLI prints them on failure and the HTTP surface returns
// them in error responses.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - File not found: The input CSV does not exist
//	         Patterns: "no such file or directory", "file does not exist"
//	SRC002 - Permission denied: The input CSV cannot be opened
//	         Patterns: "permission denied"
//	SRC003 - Empty file: The input has no header row
//	         Patterns: "empty file"
//	SRC004 - Column count: A record has a different number of fields than the header
//	         Patterns: "wrong number of fields"
//	SRC005 - Invalid CSV: Quoting is broken
//	         Patterns: "invalid csv"
//	SRC006 - Encoding: The configured encoding is not supported
//	         Patterns: "unsupported encoding"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date        Patterns: "invalid date"
//	VAL002 - Invalid number      Patterns: "invalid numeric", "invalid integer"
//	VAL003 - Invalid channel     Patterns: "invalid enum"
//	VAL004 - Row rejected        Patterns: "row rejected"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Invalid configuration   Patterns: "config validation", "config load"
//	CFG002 - Unknown emit style      Patterns: "unknown emit style"
//	CFG003 - Unknown conflict mode   Patterns: "unknown conflict mode"
//	CFG004 - Unknown policy          Patterns: "unknown separator policy", "unknown coercion policy"
//
// # Emit Errors (EMT001-EMT099)
//
//	EMT001 - Write failed       Patterns: "write sql"
//	EMT002 - Upload too large   Patterns: "request body too large"
//	EMT003 - No file            Patterns: "no file provided"
//	EMT004 - Cancelled          Patterns: "context canceled"
//	EMT005 - Timed out          Patterns: "context deadline exceeded"
//	EMT006 - Server busy        Patterns: "too many concurrent conversions"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logs for the
// original technical error.
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Errors (SRC001-SRC006)
	// =========================================================================
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check BOOKINGS_INPUT_PATH or the --input flag",
			Code:    "SRC001",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "Input file not found",
			Action:  "Check BOOKINGS_INPUT_PATH or the --input flag",
			Code:    "SRC001",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "Input file cannot be opened",
			Action:  "Check the file permissions",
			Code:    "SRC002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The input file is empty",
			Action:  "Export the bookings sheet again including the header row",
			Code:    "SRC003",
		},
	},
	{
		pattern: "wrong number of fields",
		msg: UserMessage{
			Message: "A row has a different number of columns than the header",
			Action:  "Check the reported line for stray delimiters or a wrong BOOKINGS_INPUT_DELIMITER",
			Code:    "SRC004",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Check the reported line for unbalanced quotes",
			Code:    "SRC005",
		},
	},
	{
		pattern: "unsupported encoding",
		msg: UserMessage{
			Message: "The input encoding is not supported",
			Action:  "Use utf-8, windows-1252 or iso-8859-1",
			Code:    "SRC006",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "row rejected",
		msg: UserMessage{
			Message: "A row was rejected because a field could not be parsed",
			Action:  "Fix the reported cell or use NORMALIZE_COERCION_POLICY=lenient",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use YYYY-MM-DD",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid numeric",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Check NORMALIZE_SEPARATOR_POLICY matches the export's decimal separator",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid integer",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Check NORMALIZE_SEPARATOR_POLICY matches the export's decimal separator",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid enum",
		msg: UserMessage{
			Message: "Value is not in the allowed list",
			Action:  "Channel must be ig or yt",
			Code:    "VAL003",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001-CFG004)
	// =========================================================================
	{
		pattern: "unknown emit style",
		msg: UserMessage{
			Message: "Unknown SQL style",
			Action:  "Use insert or procedure",
			Code:    "CFG002",
		},
	},
	{
		pattern: "unknown conflict mode",
		msg: UserMessage{
			Message: "Unknown conflict mode",
			Action:  "Use ignore or upsert",
			Code:    "CFG003",
		},
	},
	{
		pattern: "unknown separator policy",
		msg: UserMessage{
			Message: "Unknown separator policy",
			Action:  "Use comma-decimal or comma-thousands",
			Code:    "CFG004",
		},
	},
	{
		pattern: "unknown coercion policy",
		msg: UserMessage{
			Message: "Unknown coercion policy",
			Action:  "Use lenient or strict",
			Code:    "CFG004",
		},
	},
	{
		pattern: "config validation",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Fix the listed environment variables",
			Code:    "CFG001",
		},
	},
	{
		pattern: "config load",
		msg: UserMessage{
			Message: "Invalid configuration",
			Action:  "Fix the listed environment variables",
			Code:    "CFG001",
		},
	},

	// =========================================================================
	// Emit Errors (EMT001-EMT006)
	// =========================================================================
	{
		pattern: "write sql",
		msg: UserMessage{
			Message: "Could not write the SQL output",
			Action:  "Check EMIT_OUTPUT_PATH and free disk space",
			Code:    "EMT001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Upload exceeds the maximum size",
			Action:  "Raise SERVER_MAX_UPLOAD_SIZE or convert the file with the CLI",
			Code:    "EMT002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was provided",
			Action:  "Send the CSV as the file form field or as the request body",
			Code:    "EMT003",
		},
	},
	{
		pattern: "too many concurrent conversions",
		msg: UserMessage{
			Message: "The server is busy with other conversions",
			Action:  "Retry in a few seconds",
			Code:    "EMT006",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Conversion was cancelled",
			Action:  "Please try again",
			Code:    "EMT004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Conversion timed out",
			Action:  "Try a smaller file or raise the server timeouts",
			Code:    "EMT005",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := &SourceReadError{Path: "x.csv", Err: ErrEmptySource}
//	msg := MapError(err)
//	// msg.Code == "SRC003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
