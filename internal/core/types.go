package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx, so a test can run the whole
// service inside a transaction it later rolls back.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// DateLayout is the wire and display format for expiry dates.
const DateLayout = "2006-01-02"

// Section is the top level of the hierarchy. Names are globally unique.
type Section struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Type groups products inside a section. Names are unique per section.
type Type struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	SectionID int64  `db:"section_id" json:"section_id"`
}

// Product is stored under its canonical upper-case name, unique per type.
type Product struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	TypeID int64  `db:"type_id" json:"type_id"`
}

// Batch is a lot of one product sharing an expiry date.
// ShelfQuantity never exceeds TotalQuantity; the rest sits in the backroom.
type Batch struct {
	ID            int64     `db:"id"`
	ProductID     int64     `db:"product_id"`
	ExpiryDate    time.Time `db:"expiry_date"`
	TotalQuantity int       `db:"total_quantity"`
	ShelfQuantity int       `db:"shelf_quantity"`
}

// Backroom returns the units not on the shelf.
func (b Batch) Backroom() int {
	return b.TotalQuantity - b.ShelfQuantity
}

func (b Batch) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               int64  `json:"id"`
		ProductID        int64  `json:"product_id"`
		ExpiryDate       string `json:"expiry_date"`
		TotalQuantity    int    `json:"total_quantity"`
		ShelfQuantity    int    `json:"shelf_quantity"`
		BackroomQuantity int    `json:"backroom_quantity"`
	}{
		ID:               b.ID,
		ProductID:        b.ProductID,
		ExpiryDate:       b.ExpiryDate.Format(DateLayout),
		TotalQuantity:    b.TotalQuantity,
		ShelfQuantity:    b.ShelfQuantity,
		BackroomQuantity: b.Backroom(),
	})
}

// BatchInput carries the fields needed to create a batch.
type BatchInput struct {
	ExpiryDate    time.Time
	TotalQuantity int
	ShelfQuantity int
}

// NodeKind identifies the hierarchy level of a report node.
type NodeKind string

const (
	KindSection NodeKind = "section"
	KindType    NodeKind = "type"
	KindProduct NodeKind = "product"
	KindBatch   NodeKind = "batch"
)

// ReportNode is one entry of the stock rollup. Total and OnShelf of a
// non-batch node are the sums over its children.
type ReportNode struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Kind     NodeKind     `json:"kind"`
	Total    int          `json:"total"`
	OnShelf  int          `json:"on_shelf"`
	Surplus  int          `json:"surplus"`
	Children []ReportNode `json:"children,omitempty"`
}

// ImportSummary describes a completed CSV import.
type ImportSummary struct {
	ImportID uuid.UUID     `json:"import_id"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"-"`
}

func (s ImportSummary) MarshalJSON() ([]byte, error) {
	type alias ImportSummary
	return json.Marshal(struct {
		alias
		DurationMS int64 `json:"duration_ms"`
	}{
		alias:      alias(s),
		DurationMS: s.Duration.Milliseconds(),
	})
}
