package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/shelfstock/internal/core"
)

func jsonEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}

// printJSON writes v as indented JSON followed by a newline.
func printJSON(w io.Writer, v any) error {
	return jsonEncoder(w).Encode(v)
}

// parseID parses a positive row id argument.
func parseID(what, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: %w", what, raw, core.ErrInvalidInput)
	}
	return id, nil
}

// parseCount parses an integer argument. Range checks belong to the core.
func parseCount(what, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, raw, core.ErrInvalidInput)
	}
	return n, nil
}

// orEmpty keeps empty listings printing as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
