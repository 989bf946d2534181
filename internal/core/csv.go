package core

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/shelfstock/internal/logging"
	"github.com/JonMunkholm/shelfstock/internal/metrics"
)

const exportQuery = `
SELECT s.name, t.name, p.name, b.expiry_date, b.total_quantity, b.shelf_quantity
FROM batches b
JOIN products p ON p.id = b.product_id
JOIN types t    ON t.id = p.type_id
JOIN sections s ON s.id = t.section_id
ORDER BY s.name, t.name, p.name, b.expiry_date, b.id`

// ExportCSV writes every batch with its section, type and product names.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, _ := s.db.Query(ctx, exportQuery)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByPos[exportRow])
	if err != nil {
		return classify("export csv", err)
	}
	if err := writeExport(w, out); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ExportCSVString returns the export as a string.
func (s *Service) ExportCSVString(ctx context.Context) (string, error) {
	var buf bytes.Buffer
	if err := s.ExportCSV(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Import statements. Each upsert returns the id whether the row was
// inserted or already present.
const (
	upsertSection = `
WITH ins AS (
	INSERT INTO sections (name) VALUES ($1)
	ON CONFLICT (name) DO NOTHING
	RETURNING id
)
SELECT id FROM ins
UNION ALL
SELECT id FROM sections WHERE name = $1
LIMIT 1`

	upsertType = `
WITH ins AS (
	INSERT INTO types (name, section_id) VALUES ($1, $2)
	ON CONFLICT (name, section_id) DO NOTHING
	RETURNING id
)
SELECT id FROM ins
UNION ALL
SELECT id FROM types WHERE name = $1 AND section_id = $2
LIMIT 1`

	upsertProduct = `
WITH ins AS (
	INSERT INTO products (name, type_id) VALUES ($1, $2)
	ON CONFLICT (name, type_id) DO NOTHING
	RETURNING id
)
SELECT id FROM ins
UNION ALL
SELECT id FROM products WHERE name = $1 AND type_id = $2
LIMIT 1`
)

// clearCatalogStmts empty the catalog children first.
var clearCatalogStmts = []string{
	`DELETE FROM batches`,
	`DELETE FROM products`,
	`DELETE FROM types`,
	`DELETE FROM sections`,
}

var batchCopyColumns = []string{"product_id", "expiry_date", "total_quantity", "shelf_quantity"}

type childKey struct {
	parent int64
	name   string
}

// importIDs caches ids resolved during one import.
type importIDs struct {
	sections map[string]int64
	types    map[childKey]int64
	products map[childKey]int64
}

func newImportIDs() *importIDs {
	return &importIDs{
		sections: make(map[string]int64),
		types:    make(map[childKey]int64),
		products: make(map[childKey]int64),
	}
}

// productID resolves (and creates when missing) the product of row.
func (c *importIDs) productID(ctx context.Context, tx pgx.Tx, row importRow) (int64, error) {
	secID, ok := c.sections[row.Section]
	if !ok {
		if err := tx.QueryRow(ctx, upsertSection, row.Section).Scan(&secID); err != nil {
			return 0, fmt.Errorf("section %q: %w", row.Section, err)
		}
		c.sections[row.Section] = secID
	}

	tk := childKey{secID, row.Type}
	typeID, ok := c.types[tk]
	if !ok {
		if err := tx.QueryRow(ctx, upsertType, row.Type, secID).Scan(&typeID); err != nil {
			return 0, fmt.Errorf("type %q: %w", row.Type, err)
		}
		c.types[tk] = typeID
	}

	pk := childKey{typeID, row.Product}
	prodID, ok := c.products[pk]
	if !ok {
		if err := tx.QueryRow(ctx, upsertProduct, row.Product, typeID).Scan(&prodID); err != nil {
			return 0, fmt.Errorf("product %q: %w", row.Product, err)
		}
		c.products[pk] = prodID
	}
	return prodID, nil
}

// ImportCSV replaces the entire catalog with the contents of r.
//
// The file is parsed completely before anything is deleted, so a bad header
// leaves the catalog untouched. The replacement then runs in one
// transaction: a storage failure rolls it back and the previous catalog
// survives. Rows that cannot be parsed are skipped and counted.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	if err := s.imports.Acquire(ctx); err != nil {
		return ImportSummary{}, fmt.Errorf("import csv: %w", err)
	}
	defer s.imports.Release()

	start := time.Now()
	summary := ImportSummary{ImportID: uuid.New()}
	logger := logging.WithFields(ctx, "import_id", summary.ImportID)

	rows, skipped, err := readImport(r)
	if err != nil {
		logger.Warn("import rejected", "error", err)
		return ImportSummary{}, err
	}

	err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, stmt := range clearCatalogStmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("clear catalog: %w", err)
			}
		}

		ids := newImportIDs()
		batches := make([][]any, 0, len(rows))
		for _, row := range rows {
			prodID, err := ids.productID(ctx, tx, row)
			if err != nil {
				return err
			}
			batches = append(batches, []any{prodID, dateOnly(row.Expiry), row.Total, row.Shelf})
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"batches"}, batchCopyColumns, pgx.CopyFromRows(batches)); err != nil {
			return fmt.Errorf("copy batches: %w", err)
		}
		return nil
	})
	if err != nil {
		err = classify("import csv", err)
		logger.Error("import rolled back", "error", err)
		return ImportSummary{}, err
	}

	summary.Imported = len(rows)
	summary.Skipped = skipped
	summary.Duration = time.Since(start)

	metrics.RecordImport(summary.Imported, summary.Skipped, summary.Duration)
	logger.Info("import completed",
		"imported", summary.Imported,
		"skipped", summary.Skipped,
		"duration", summary.Duration,
	)
	return summary, nil
}
