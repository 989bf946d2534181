package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error kinds returned by the service. Callers test with errors.Is; the
// wrapped message carries the operation and the offending values.
var (
	ErrNotFound               = errors.New("not found")
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrInsufficientShelfStock = errors.New("insufficient shelf stock")
	ErrExceedsTotalStock      = errors.New("exceeds total stock")
	ErrInvalidFormat          = errors.New("invalid csv format")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidQuantity        = errors.New("invalid quantity")
	ErrStorage                = errors.New("storage failure")
)

// Postgres SQLSTATE codes the store distinguishes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// StorageError wraps an unexpected database failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports StorageError as ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// kinds lists every sentinel a wrapped error may already carry.
var kinds = []error{
	ErrNotFound,
	ErrDuplicateKey,
	ErrInsufficientShelfStock,
	ErrExceedsTotalStock,
	ErrInvalidFormat,
	ErrInvalidInput,
	ErrInvalidQuantity,
	ErrStorage,
}

// classify translates a driver error from op into one of the error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrDuplicateKey, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: parent %w", op, ErrNotFound)
		case pgCheckViolation:
			return fmt.Errorf("%s: %w (%s)", op, ErrInvalidInput, pgErr.ConstraintName)
		}
	}

	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}

	return &StorageError{Op: op, Err: err}
}
