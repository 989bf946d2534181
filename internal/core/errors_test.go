package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "sections_name_key"}, ErrDuplicateKey},
		{"foreign key violation", &pgconn.PgError{Code: pgForeignKeyViolation}, ErrNotFound},
		{"check violation", &pgconn.PgError{Code: pgCheckViolation}, ErrInvalidInput},
		{"wrapped pg error", fmt.Errorf("section %q: %w", "x", &pgconn.PgError{Code: pgUniqueViolation}), ErrDuplicateKey},
		{"already classified", fmt.Errorf("sell: %w", ErrInsufficientShelfStock), ErrInsufficientShelfStock},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, ErrStorage},
		{"plain error", errors.New("connection reset"), ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("op", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want kind %v", got, tt.want)
			}
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	if err := classify("op", nil); err != nil {
		t.Errorf("classify(nil) = %v, want nil", err)
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := classify("list batches", cause)

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("classify() = %T, want *StorageError", err)
	}
	if se.Op != "list batches" {
		t.Errorf("Op = %q, want %q", se.Op, "list batches")
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("StorageError must not match other kinds")
	}
}
