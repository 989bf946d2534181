package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const batchColumns = `id, product_id, expiry_date, total_quantity, shelf_quantity`

// =============================================================================
// Create
// =============================================================================

// CreateSection stores a new section.
func (s *Service) CreateSection(ctx context.Context, name string) (Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Section{}, fmt.Errorf("create section: empty name: %w", ErrInvalidInput)
	}
	if hasLineBreak(name) {
		return Section{}, fmt.Errorf("create section %q: line break in name: %w", name, ErrInvalidInput)
	}

	rows, _ := s.db.Query(ctx,
		`INSERT INTO sections (name) VALUES ($1) RETURNING id, name`, name)
	sec, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Section])
	if err != nil {
		return Section{}, classify(fmt.Sprintf("create section %q", name), err)
	}
	return sec, nil
}

// CreateType stores a new type under sectionID.
func (s *Service) CreateType(ctx context.Context, sectionID int64, name string) (Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Type{}, fmt.Errorf("create type: empty name: %w", ErrInvalidInput)
	}
	if hasLineBreak(name) {
		return Type{}, fmt.Errorf("create type %q: line break in name: %w", name, ErrInvalidInput)
	}

	rows, _ := s.db.Query(ctx,
		`INSERT INTO types (name, section_id) VALUES ($1, $2) RETURNING id, name, section_id`,
		name, sectionID)
	typ, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Type])
	if err != nil {
		return Type{}, classify(fmt.Sprintf("create type %q in section %d", name, sectionID), err)
	}
	return typ, nil
}

// CreateProduct stores a new product under typeID using its canonical name.
func (s *Service) CreateProduct(ctx context.Context, typeID int64, name string) (Product, error) {
	name = CanonicalName(name)
	if name == "" {
		return Product{}, fmt.Errorf("create product: empty name: %w", ErrInvalidInput)
	}
	if hasLineBreak(name) {
		return Product{}, fmt.Errorf("create product %q: line break in name: %w", name, ErrInvalidInput)
	}

	rows, _ := s.db.Query(ctx,
		`INSERT INTO products (name, type_id) VALUES ($1, $2) RETURNING id, name, type_id`,
		name, typeID)
	p, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return Product{}, classify(fmt.Sprintf("create product %q in type %d", name, typeID), err)
	}
	return p, nil
}

// CreateBatch stores a new batch under productID.
func (s *Service) CreateBatch(ctx context.Context, productID int64, in BatchInput) (Batch, error) {
	if err := validateBatchInput(in); err != nil {
		return Batch{}, fmt.Errorf("create batch for product %d: %w", productID, err)
	}

	rows, _ := s.db.Query(ctx,
		`INSERT INTO batches (product_id, expiry_date, total_quantity, shelf_quantity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+batchColumns,
		productID, dateOnly(in.ExpiryDate), in.TotalQuantity, in.ShelfQuantity)
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Batch])
	if err != nil {
		return Batch{}, classify(fmt.Sprintf("create batch for product %d", productID), err)
	}
	return b, nil
}

func validateBatchInput(in BatchInput) error {
	switch {
	case in.ExpiryDate.IsZero():
		return fmt.Errorf("missing expiry date: %w", ErrInvalidInput)
	case in.TotalQuantity < 0 || in.TotalQuantity > maxQuantity:
		return fmt.Errorf("total quantity %d out of range: %w", in.TotalQuantity, ErrInvalidInput)
	case in.ShelfQuantity < 0:
		return fmt.Errorf("negative shelf quantity %d: %w", in.ShelfQuantity, ErrInvalidInput)
	case in.ShelfQuantity > in.TotalQuantity:
		return fmt.Errorf("shelf quantity %d exceeds total %d: %w",
			in.ShelfQuantity, in.TotalQuantity, ErrInvalidInput)
	}
	return nil
}

// =============================================================================
// List / Get / Search
// =============================================================================

// ListSections returns every section ordered by name.
func (s *Service) ListSections(ctx context.Context) ([]Section, error) {
	rows, _ := s.db.Query(ctx, `SELECT id, name FROM sections ORDER BY name, id`)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Section])
	if err != nil {
		return nil, classify("list sections", err)
	}
	return out, nil
}

// ListTypes returns the types of a section ordered by name.
func (s *Service) ListTypes(ctx context.Context, sectionID int64) ([]Type, error) {
	rows, _ := s.db.Query(ctx,
		`SELECT id, name, section_id FROM types WHERE section_id = $1 ORDER BY name, id`,
		sectionID)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Type])
	if err != nil {
		return nil, classify(fmt.Sprintf("list types of section %d", sectionID), err)
	}
	return out, nil
}

// ListProducts returns the products of a type ordered by name.
func (s *Service) ListProducts(ctx context.Context, typeID int64) ([]Product, error) {
	rows, _ := s.db.Query(ctx,
		`SELECT id, name, type_id FROM products WHERE type_id = $1 ORDER BY name, id`,
		typeID)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, classify(fmt.Sprintf("list products of type %d", typeID), err)
	}
	return out, nil
}

// ListBatches returns the batches of a product, soonest expiry first.
func (s *Service) ListBatches(ctx context.Context, productID int64) ([]Batch, error) {
	rows, _ := s.db.Query(ctx,
		`SELECT `+batchColumns+` FROM batches WHERE product_id = $1 ORDER BY expiry_date, id`,
		productID)
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Batch])
	if err != nil {
		return nil, classify(fmt.Sprintf("list batches of product %d", productID), err)
	}
	return out, nil
}

// GetBatch returns one batch or ErrNotFound.
func (s *Service) GetBatch(ctx context.Context, id int64) (Batch, error) {
	rows, _ := s.db.Query(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
	b, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Batch])
	if err != nil {
		return Batch{}, classify(fmt.Sprintf("get batch %d", id), err)
	}
	return b, nil
}

// SearchProducts returns products whose canonical name contains term,
// ignoring case. An empty term matches every product.
func (s *Service) SearchProducts(ctx context.Context, term string) ([]Product, error) {
	rows, _ := s.db.Query(ctx,
		`SELECT id, name, type_id FROM products WHERE strpos(name, $1) > 0 ORDER BY name, id`,
		CanonicalName(term))
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, classify(fmt.Sprintf("search products %q", term), err)
	}
	return out, nil
}

// =============================================================================
// Delete
// =============================================================================

// Each list removes descendants first so no statement leaves a dangling
// reference. All statements take the target id as $1.
var (
	deleteSectionStmts = []string{
		`DELETE FROM batches WHERE product_id IN (
			SELECT p.id FROM products p JOIN types t ON t.id = p.type_id WHERE t.section_id = $1)`,
		`DELETE FROM products WHERE type_id IN (SELECT id FROM types WHERE section_id = $1)`,
		`DELETE FROM types WHERE section_id = $1`,
		`DELETE FROM sections WHERE id = $1`,
	}
	deleteTypeStmts = []string{
		`DELETE FROM batches WHERE product_id IN (SELECT id FROM products WHERE type_id = $1)`,
		`DELETE FROM products WHERE type_id = $1`,
		`DELETE FROM types WHERE id = $1`,
	}
	deleteProductStmts = []string{
		`DELETE FROM batches WHERE product_id = $1`,
		`DELETE FROM products WHERE id = $1`,
	}
	deleteBatchStmts = []string{
		`DELETE FROM batches WHERE id = $1`,
	}
)

// DeleteSection removes a section with all its types, products and batches.
// Deleting an unknown id succeeds.
func (s *Service) DeleteSection(ctx context.Context, id int64) error {
	return s.cascadeDelete(ctx, fmt.Sprintf("delete section %d", id), deleteSectionStmts, id)
}

// DeleteType removes a type with its products and batches.
func (s *Service) DeleteType(ctx context.Context, id int64) error {
	return s.cascadeDelete(ctx, fmt.Sprintf("delete type %d", id), deleteTypeStmts, id)
}

// DeleteProduct removes a product with its batches.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.cascadeDelete(ctx, fmt.Sprintf("delete product %d", id), deleteProductStmts, id)
}

// DeleteBatch removes one batch.
func (s *Service) DeleteBatch(ctx context.Context, id int64) error {
	return s.cascadeDelete(ctx, fmt.Sprintf("delete batch %d", id), deleteBatchStmts, id)
}

// ClearCatalog removes every section, type, product and batch.
func (s *Service) ClearCatalog(ctx context.Context) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, stmt := range clearCatalogStmts {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	return classify("clear catalog", err)
}

func (s *Service) cascadeDelete(ctx context.Context, op string, stmts []string, id int64) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.Exec(ctx, stmt, id); err != nil {
				return err
			}
		}
		return nil
	})
	return classify(op, err)
}
