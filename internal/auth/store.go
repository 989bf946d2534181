// Package auth stores login credentials as bcrypt hashes.
//
// There is a single flat users table. A default login is seeded on first
// start so a fresh install can be used immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// DBTX is the subset of pgx used by the store.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// ErrEmptyCredentials is returned when seeding with a blank name or password.
var ErrEmptyCredentials = errors.New("name and password are required")

// Store verifies and seeds credentials.
type Store struct {
	db   DBTX
	cost int

	// dummyHash is compared against when a name is unknown so the response
	// time does not reveal which names exist.
	dummyHash []byte
}

// NewStore creates a Store hashing with the given bcrypt cost.
func NewStore(db DBTX, cost int) (*Store, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("shelfstock-unknown-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Store{db: db, cost: cost, dummyHash: dummy}, nil
}

const createUsersTable = `CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
)`

// EnsureSchema creates the users table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createUsersTable); err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

// SeedDefault inserts one credential when the table is empty. It reports
// whether a row was inserted.
func (s *Store) SeedDefault(ctx context.Context, name, password string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return false, ErrEmptyCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		`INSERT INTO users (name, password_hash)
		 SELECT $1, $2
		 WHERE NOT EXISTS (SELECT 1 FROM users)`,
		name, string(hash))
	if err != nil {
		return false, fmt.Errorf("seed user %q: %w", name, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteAll removes every stored credential. The next SeedDefault call
// inserts the default login again.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

// Verify reports whether password matches the stored hash for name.
// An unknown name is not an error; it simply does not verify.
func (s *Store) Verify(ctx context.Context, name, password string) (bool, error) {
	var hash string
	err := s.db.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE name = $1`, strings.TrimSpace(name)).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up user: %w", err)
	}

	return checkPassword([]byte(hash), password)
}

// checkPassword compares a bcrypt hash with a candidate password.
func checkPassword(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("compare password: %w", err)
	}
}
