package core

// error_messages.go maps technical errors to user-facing messages with codes
// for support reference.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Bad status: The sheet host returned an error status
//	         Action: Check that the sheet is published and SHEET_URL is correct
//	SRC002 - Too many redirects: The sheet URL redirected too many times
//	         Action: Use the direct CSV export link of the sheet
//	SRC003 - Body too large: The sheet exceeds the configured size limit
//	         Action: Raise SOURCE_MAX_BODY_SIZE or trim the sheet
//	SRC004 - Unreachable: The sheet host could not be reached
//	         Action: Check network connectivity and try again
//
// # Ingest Errors (ING001-ING099)
//
//	ING001 - Empty sheet: No data records found in the source sheet
//	         Action: Check the header row and that rows have a title and link
//	ING002 - Not loaded: Video data has not been loaded yet
//	         Action: Wait for the first refresh to complete
//	ING003 - Empty preview: The preview body was empty
//	         Action: Send the CSV text as the request body
//
// # Store Errors (STO001-STO099)
//
//	STO001 - No history: No refresh run has been stored yet
//	STO002 - Busy: The run database is locked by another writer
//	STO003 - Unavailable: The run database could not be reached
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	RATE002 - Busy: Too many previews in progress
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Cancelled: The request was cancelled
//	REQ002 - Timeout: The request timed out
//
// # Matching
//
// Sentinel errors are matched first with errors.Is, in table order. Errors
// without a known sentinel fall back to case-insensitive substring patterns;
// the first matching pattern wins. ERR000 is returned when nothing matches,
// in which case the application logs hold the technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/vidsheet/internal/source"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgBadStatus = UserMessage{
		Message: "The source sheet could not be downloaded",
		Action:  "Check that the sheet is published and SHEET_URL is correct",
		Code:    "SRC001",
	}
	msgTooManyRedirects = UserMessage{
		Message: "The sheet URL redirected too many times",
		Action:  "Use the direct CSV export link of the sheet",
		Code:    "SRC002",
	}
	msgBodyTooLarge = UserMessage{
		Message: "The sheet exceeds the configured size limit",
		Action:  "Raise SOURCE_MAX_BODY_SIZE or trim the sheet",
		Code:    "SRC003",
	}
	msgUnreachable = UserMessage{
		Message: "The sheet host could not be reached",
		Action:  "Check network connectivity and try again",
		Code:    "SRC004",
	}
	msgNoRecords = UserMessage{
		Message: "No data records found in the source sheet.",
		Action:  "Check the header row and that rows have a title and a video or thumbnail link",
		Code:    "ING001",
	}
	msgNoSnapshot = UserMessage{
		Message: "Video data has not been loaded yet",
		Action:  "Wait for the first refresh to complete",
		Code:    "ING002",
	}
	msgEmptyPreview = UserMessage{
		Message: "The preview body was empty",
		Action:  "Send the CSV text as the request body",
		Code:    "ING003",
	}
	msgNoHistory = UserMessage{
		Message: "No refresh run has been stored yet",
		Action:  "Trigger a refresh first",
		Code:    "STO001",
	}
	msgStoreBusy = UserMessage{
		Message: "The run database is busy",
		Action:  "Please try again",
		Code:    "STO002",
	}
	msgStoreUnavailable = UserMessage{
		Message: "The run database could not be reached",
		Action:  "Please try again in a few moments",
		Code:    "STO003",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}
	msgTooManyPreviews = UserMessage{
		Message: "Too many previews in progress",
		Action:  "Please wait a moment and try again",
		Code:    "RATE002",
	}
	msgCanceled = UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "Request timed out",
		Action:  "Please try again later",
		Code:    "REQ002",
	}
)

// sentinelMessages are checked with errors.Is before any pattern.
var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{source.ErrBadStatus, msgBadStatus},
	{source.ErrTooManyRedirects, msgTooManyRedirects},
	{source.ErrBodyTooLarge, msgBodyTooLarge},
	{ErrNoRecords, msgNoRecords},
	{ErrNoSnapshot, msgNoSnapshot},
	{ErrEmptyPreview, msgEmptyPreview},
	{store.ErrNotFound, msgNoHistory},
	{ErrTooManyPreviews, msgTooManyPreviews},
	{context.Canceled, msgCanceled},
	{context.DeadlineExceeded, msgTimeout},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (lower case) to user messages.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"fetch sheet", msgUnreachable},
	{"database is locked", msgStoreBusy},
	{"sqlite_busy", msgStoreBusy},
	{"connection refused", msgStoreUnavailable},
	{"connection reset", msgStoreUnavailable},
	{"rate limit", msgRateLimited},
	{"timeout", msgTimeout},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("refresh: %w", ErrNoRecords))
//	// msg.Code == "ING001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
