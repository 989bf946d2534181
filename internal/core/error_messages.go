package core

// error_messages.go maps error kinds to user-facing messages with support
// codes. Adapters show Message and Action; Code is quoted to support.
//
//	INV001 - Record not found
//	INV002 - Duplicate name
//	INV003 - Not enough units on the shelf
//	INV004 - Shelf would exceed the batch total
//	INV005 - Quantity must be positive
//	INV006 - Invalid input
//	CSV001 - Invalid CSV header or empty file
//	CSV002 - Another import is running
//	REQ001 - Request cancelled
//	REQ002 - Request timed out
//	DB001  - Storage failure (details only in logs)
//	ERR000 - Unknown error

import (
	"context"
	"errors"
	"fmt"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorKindMessage struct {
	kind error
	msg  UserMessage
}

// kindMessages is checked in order with errors.Is; the first match wins.
// Context errors come first so a cancelled storage call is not reported
// as a database fault.
var kindMessages = []errorKindMessage{
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try again, or import a smaller file",
		Code:    "REQ002",
	}},
	{ErrNotFound, UserMessage{
		Message: "The record does not exist",
		Action:  "Refresh the list and pick an existing record",
		Code:    "INV001",
	}},
	{ErrDuplicateKey, UserMessage{
		Message: "A record with this name already exists here",
		Action:  "Choose a different name",
		Code:    "INV002",
	}},
	{ErrInsufficientShelfStock, UserMessage{
		Message: "Not enough units on the shelf",
		Action:  "Restock the shelf or sell fewer units",
		Code:    "INV003",
	}},
	{ErrExceedsTotalStock, UserMessage{
		Message: "The shelf cannot hold more than the batch total",
		Action:  "Use a quantity within the backroom reserve",
		Code:    "INV004",
	}},
	{ErrInvalidQuantity, UserMessage{
		Message: "Quantity must be a positive whole number",
		Action:  "Enter a quantity greater than zero",
		Code:    "INV005",
	}},
	{ErrInvalidInput, UserMessage{
		Message: "Some fields are missing or invalid",
		Action:  "Check names, dates (YYYY-MM-DD) and quantities",
		Code:    "INV006",
	}},
	{ErrInvalidFormat, UserMessage{
		Message: "The file is not a valid inventory CSV",
		Action:  "Export a file first and keep its header row",
		Code:    "CSV001",
	}},
	{ErrImportBusy, UserMessage{
		Message: "Another import is in progress",
		Action:  "Wait for it to finish and try again",
		Code:    "CSV002",
	}},
	{ErrStorage, UserMessage{
		Message: "The inventory database is unavailable",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
}

// defaultMessage is returned when no kind matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message. It never exposes
// the wrapped technical text.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, km := range kindMessages {
		if errors.Is(err, km.kind) {
			return km.msg
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

// IsUserFacing reports whether err carries a known kind whose wrapped
// detail is safe to show (validation and rule violations, not storage).
func IsUserFacing(err error) bool {
	if err == nil || errors.Is(err, ErrStorage) {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
