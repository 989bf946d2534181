package core

import (
	"context"
	"time"
)

// DefaultImportTimeout bounds a full-replace import, including the wait for
// the import gate.
const DefaultImportTimeout = 2 * time.Minute

// Clock supplies the current time. Tests replace it to pin "today".
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service is the inventory core: catalog store, stock ledger, report,
// CSV codec and expiry query over one database handle.
type Service struct {
	db            DBTX
	clock         Clock
	imports       *ImportGate
	importTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithImportWait sets how long an import waits for a running one to finish.
func WithImportWait(d time.Duration) Option {
	return func(s *Service) {
		s.imports = NewImportGate(d)
	}
}

// WithImportTimeout sets the deadline for a whole import. Non-positive
// values keep the default.
func WithImportTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.importTimeout = d
		}
	}
}

// NewService creates a Service over db, which is usually a *pgxpool.Pool.
func NewService(db DBTX, opts ...Option) *Service {
	s := &Service{
		db:            db,
		clock:         realClock{},
		imports:       NewImportGate(DefaultImportWait),
		importTimeout: DefaultImportTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema creates the inventory tables if they do not exist.
func (s *Service) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, s.db)
}

// Ping checks that the database answers.
func (s *Service) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// WaitForImports blocks until a running import finishes or ctx ends.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// today returns the clock's current date at midnight UTC, the form DATE
// parameters are encoded from.
func (s *Service) today() time.Time {
	y, m, d := s.clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
