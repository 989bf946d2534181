package core

import (
	"context"
	"fmt"
)

// schemaStatements create the inventory tables. Foreign keys have no
// ON DELETE CASCADE; the delete operations cascade explicitly.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sections (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS types (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		section_id BIGINT NOT NULL REFERENCES sections (id),
		UNIQUE (name, section_id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id      BIGSERIAL PRIMARY KEY,
		name    TEXT NOT NULL,
		type_id BIGINT NOT NULL REFERENCES types (id),
		UNIQUE (name, type_id)
	)`,
	`CREATE TABLE IF NOT EXISTS batches (
		id             BIGSERIAL PRIMARY KEY,
		product_id     BIGINT NOT NULL REFERENCES products (id),
		expiry_date    DATE NOT NULL,
		total_quantity INTEGER NOT NULL,
		shelf_quantity INTEGER NOT NULL,
		CONSTRAINT batches_shelf_within_total
			CHECK (shelf_quantity >= 0 AND shelf_quantity <= total_quantity)
	)`,
	`CREATE INDEX IF NOT EXISTS types_section_id_idx ON types (section_id)`,
	`CREATE INDEX IF NOT EXISTS products_type_id_idx ON products (type_id)`,
	`CREATE INDEX IF NOT EXISTS batches_product_id_idx ON batches (product_id)`,
	`CREATE INDEX IF NOT EXISTS batches_expiry_date_idx ON batches (expiry_date)`,
}

// EnsureSchema creates the inventory tables and indexes if they do not
// exist. It is run once at startup, never per operation.
func EnsureSchema(ctx context.Context, db DBTX) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
