package core

import (
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func batchRow(secID int64, sec string, typeID int64, typ string, prodID int64, prod string,
	batchID int64, expiry string, total, shelf int) reportRow {
	d, _ := time.Parse(DateLayout, expiry)
	return reportRow{
		SectionID: secID, SectionName: sec,
		TypeID: ptr(typeID), TypeName: ptr(typ),
		ProductID: ptr(prodID), ProductName: ptr(prod),
		BatchID: ptr(batchID), ExpiryDate: ptr(d),
		Total: ptr(total), Shelf: ptr(shelf),
	}
}

func TestBuildReport_Rollup(t *testing.T) {
	rows := []reportRow{
		batchRow(1, "Bakery", 10, "Bread", 100, "LOAF", 1000, "2024-05-01", 10, 4),
		batchRow(1, "Bakery", 10, "Bread", 100, "LOAF", 1001, "2024-05-03", 6, 6),
		batchRow(1, "Bakery", 10, "Bread", 101, "ROLL", 1002, "2024-05-02", 20, 5),
		batchRow(1, "Bakery", 11, "Cake", 102, "TART", 1003, "2024-06-01", 3, 0),
		batchRow(2, "Dairy", 12, "Milk", 103, "WHOLE", 1004, "2024-05-10", 8, 8),
	}

	report := buildReport(rows)

	if len(report) != 2 {
		t.Fatalf("sections = %d, want 2", len(report))
	}

	bakery := report[0]
	if bakery.Name != "Bakery" || bakery.Kind != KindSection {
		t.Errorf("first section = %q/%s, want Bakery/section", bakery.Name, bakery.Kind)
	}
	if bakery.Total != 39 || bakery.OnShelf != 15 || bakery.Surplus != 24 {
		t.Errorf("Bakery totals = %d/%d/%d, want 39/15/24", bakery.Total, bakery.OnShelf, bakery.Surplus)
	}
	if len(bakery.Children) != 2 {
		t.Fatalf("Bakery types = %d, want 2", len(bakery.Children))
	}

	bread := bakery.Children[0]
	if bread.Total != 36 || bread.OnShelf != 15 {
		t.Errorf("Bread totals = %d/%d, want 36/15", bread.Total, bread.OnShelf)
	}
	if len(bread.Children) != 2 {
		t.Fatalf("Bread products = %d, want 2", len(bread.Children))
	}

	loaf := bread.Children[0]
	if loaf.Kind != KindProduct || loaf.Total != 16 || loaf.OnShelf != 10 || loaf.Surplus != 6 {
		t.Errorf("LOAF = %+v, want product 16/10/6", loaf)
	}
	if len(loaf.Children) != 2 {
		t.Fatalf("LOAF batches = %d, want 2", len(loaf.Children))
	}

	leaf := loaf.Children[0]
	if leaf.Kind != KindBatch || leaf.Name != "Batch 2024-05-01" {
		t.Errorf("leaf = %s %q, want batch \"Batch 2024-05-01\"", leaf.Kind, leaf.Name)
	}
	if leaf.Surplus != 6 || len(leaf.Children) != 0 {
		t.Errorf("leaf surplus/children = %d/%d, want 6/0", leaf.Surplus, len(leaf.Children))
	}

	if dairy := report[1]; dairy.Total != 8 || dairy.OnShelf != 8 || dairy.Surplus != 0 {
		t.Errorf("Dairy totals = %d/%d/%d, want 8/8/0", dairy.Total, dairy.OnShelf, dairy.Surplus)
	}
}

func TestBuildReport_EmptyLevels(t *testing.T) {
	rows := []reportRow{
		{SectionID: 1, SectionName: "Empty"},
		{SectionID: 2, SectionName: "Frozen", TypeID: ptr(int64(20)), TypeName: ptr("Ice")},
		{
			SectionID: 3, SectionName: "Produce",
			TypeID: ptr(int64(30)), TypeName: ptr("Fruit"),
			ProductID: ptr(int64(300)), ProductName: ptr("APPLE"),
		},
	}

	report := buildReport(rows)

	if len(report) != 3 {
		t.Fatalf("sections = %d, want 3", len(report))
	}
	for _, sec := range report {
		if sec.Total != 0 || sec.OnShelf != 0 || sec.Surplus != 0 {
			t.Errorf("section %q totals = %d/%d/%d, want zeros", sec.Name, sec.Total, sec.OnShelf, sec.Surplus)
		}
	}
	if len(report[0].Children) != 0 {
		t.Errorf("Empty section has %d children, want 0", len(report[0].Children))
	}
	if got := report[1].Children; len(got) != 1 || got[0].Name != "Ice" || len(got[0].Children) != 0 {
		t.Errorf("Frozen children = %+v, want one empty type Ice", got)
	}
	apple := report[2].Children[0].Children[0]
	if apple.Name != "APPLE" || apple.Total != 0 || len(apple.Children) != 0 {
		t.Errorf("APPLE = %+v, want product with zero totals", apple)
	}
}

func TestBuildReport_SameNameDifferentIDs(t *testing.T) {
	rows := []reportRow{
		batchRow(1, "Bakery", 10, "Bread", 100, "LOAF", 1000, "2024-05-01", 5, 1),
		batchRow(1, "Bakery", 11, "Bread2", 101, "LOAF", 1001, "2024-05-01", 7, 2),
	}

	report := buildReport(rows)

	types := report[0].Children
	if len(types) != 2 {
		t.Fatalf("types = %d, want 2", len(types))
	}
	if types[0].Children[0].ID == types[1].Children[0].ID {
		t.Error("products under different types must stay separate")
	}
	if report[0].Total != 12 || report[0].OnShelf != 3 {
		t.Errorf("section totals = %d/%d, want 12/3", report[0].Total, report[0].OnShelf)
	}
}

func TestBuildReport_NoRows(t *testing.T) {
	report := buildReport(nil)
	if report == nil || len(report) != 0 {
		t.Errorf("buildReport(nil) = %v, want empty non-nil slice", report)
	}
}

func TestBatchLabel(t *testing.T) {
	d := time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)
	if got := BatchLabel(d); got != "Batch 2025-01-09" {
		t.Errorf("BatchLabel() = %q, want %q", got, "Batch 2025-01-09")
	}
}
