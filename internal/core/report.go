package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// reportQuery walks the whole hierarchy in one pass. LEFT JOINs keep
// sections, types and products that have no children yet; ids follow each
// name in the ORDER BY so equal names never interleave.
const reportQuery = `
SELECT s.id, s.name,
       t.id, t.name,
       p.id, p.name,
       b.id, b.expiry_date, b.total_quantity, b.shelf_quantity
FROM sections s
LEFT JOIN types t    ON t.section_id = s.id
LEFT JOIN products p ON p.type_id = t.id
LEFT JOIN batches b  ON b.product_id = p.id
ORDER BY s.name, s.id, t.name, t.id, p.name, p.id, b.expiry_date, b.id`

// reportRow is one joined row. Pointer fields are NULL when the parent has
// no child at that level.
type reportRow struct {
	SectionID   int64
	SectionName string
	TypeID      *int64
	TypeName    *string
	ProductID   *int64
	ProductName *string
	BatchID     *int64
	ExpiryDate  *time.Time
	Total       *int
	Shelf       *int
}

// Report returns the stock rollup for every section.
func (s *Service) Report(ctx context.Context) ([]ReportNode, error) {
	rows, _ := s.db.Query(ctx, reportQuery)
	joined, err := pgx.CollectRows(rows, pgx.RowToStructByPos[reportRow])
	if err != nil {
		return nil, classify("build report", err)
	}
	return buildReport(joined), nil
}

// BatchLabel is the report name of a batch leaf.
func BatchLabel(expiry time.Time) string {
	return "Batch " + expiry.Format(DateLayout)
}

// buildReport groups ordered rows into the section tree and rolls totals up.
func buildReport(rows []reportRow) []ReportNode {
	sections := []ReportNode{}

	for _, r := range rows {
		sec := appendOrLast(&sections, r.SectionID, r.SectionName, KindSection)
		if r.TypeID == nil {
			continue
		}
		typ := appendOrLast(&sec.Children, *r.TypeID, deref(r.TypeName), KindType)
		if r.ProductID == nil {
			continue
		}
		prod := appendOrLast(&typ.Children, *r.ProductID, deref(r.ProductName), KindProduct)
		if r.BatchID == nil {
			continue
		}

		leaf := ReportNode{ID: *r.BatchID, Kind: KindBatch}
		if r.ExpiryDate != nil {
			leaf.Name = BatchLabel(*r.ExpiryDate)
		}
		if r.Total != nil {
			leaf.Total = *r.Total
		}
		if r.Shelf != nil {
			leaf.OnShelf = *r.Shelf
		}
		prod.Children = append(prod.Children, leaf)
	}

	for i := range sections {
		rollup(&sections[i])
	}
	return sections
}

// appendOrLast returns the last node of *nodes when it has id, otherwise it
// appends a new node. Rows arrive ordered, so a node's rows are contiguous.
func appendOrLast(nodes *[]ReportNode, id int64, name string, kind NodeKind) *ReportNode {
	if n := len(*nodes); n > 0 && (*nodes)[n-1].ID == id {
		return &(*nodes)[n-1]
	}
	*nodes = append(*nodes, ReportNode{ID: id, Name: name, Kind: kind})
	return &(*nodes)[len(*nodes)-1]
}

func rollup(n *ReportNode) {
	if n.Kind != KindBatch {
		n.Total, n.OnShelf = 0, 0
		for i := range n.Children {
			rollup(&n.Children[i])
			n.Total += n.Children[i].Total
			n.OnShelf += n.Children[i].OnShelf
		}
	}
	n.Surplus = n.Total - n.OnShelf
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
