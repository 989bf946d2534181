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
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"not found", fmt.Errorf("get batch 9: %w", ErrNotFound), "INV001"},
		{"duplicate", fmt.Errorf("create section: %w", ErrDuplicateKey), "INV002"},
		{"insufficient shelf", fmt.Errorf("sell: %w", ErrInsufficientShelfStock), "INV003"},
		{"exceeds total", fmt.Errorf("restock: %w", ErrExceedsTotalStock), "INV004"},
		{"invalid quantity", ErrInvalidQuantity, "INV005"},
		{"invalid input", ErrInvalidInput, "INV006"},
		{"invalid format", fmt.Errorf("header: %w", ErrInvalidFormat), "CSV001"},
		{"import busy", fmt.Errorf("import csv: %w", ErrImportBusy), "CSV002"},
		{"cancelled", context.Canceled, "REQ001"},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), "REQ002"},
		{"storage", &StorageError{Op: "list sections", Err: errors.New("conn reset")}, "DB001"},
		{
			"cancelled storage call reports cancellation",
			&StorageError{Op: "report", Err: context.Canceled},
			"REQ001",
		},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() returned incomplete message: %+v", got)
			}
		})
	}
}

func TestMapError_DoesNotLeakDetail(t *testing.T) {
	err := &StorageError{Op: "create batch", Err: errors.New(`relation "batches" does not exist`)}

	msg := MapError(err)
	for _, field := range []string{msg.Message, msg.Action} {
		if strings.Contains(field, "relation") {
			t.Errorf("user message leaks storage detail: %q", field)
		}
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(fmt.Errorf("sell: %w", ErrInsufficientShelfStock))
	want := "Not enough units on the shelf (Code: INV003). Restock the shelf or sell fewer units"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrNotFound, true},
		{fmt.Errorf("create: %w", ErrInvalidInput), true},
		{&StorageError{Op: "x", Err: errors.New("boom")}, false},
		{errors.New("random"), false},
	}

	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
