package dataset

import (
	"reflect"
	"testing"
)

func testTable() *Dataset {
	return New(
		[]string{"project_name", "risk_text"},
		[]map[string]string{
			{"project_name": "Alpha", "risk_text": "delay in shipment"},
			{"project_name": "Beta", "risk_text": "budget overrun"},
			{"project_name": "Alpha", "risk_text": "vendor churn"},
			{"project_name": "", "risk_text": "unowned risk"},
		},
	)
}

func TestFilter_PreservesIDsAndSource(t *testing.T) {
	ds := testTable()
	alpha := ds.Filter(func(r Row) bool { return r.Get("project_name") == "Alpha" })

	if alpha.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", alpha.Len())
	}
	if got := alpha.Rows()[1].ID; got != 2 {
		t.Errorf("expected original row ID 2, got %d", got)
	}
	if ds.Len() != 4 {
		t.Errorf("source dataset mutated: len=%d", ds.Len())
	}
}

func TestHead_ClampsBounds(t *testing.T) {
	ds := testTable()
	if got := ds.Head(10).Len(); got != 4 {
		t.Errorf("Head(10) = %d rows, want 4", got)
	}
	if got := ds.Head(-1).Len(); got != 0 {
		t.Errorf("Head(-1) = %d rows, want 0", got)
	}
}

func TestSelect_KeepsGivenOrder(t *testing.T) {
	ds := testTable()
	view := ds.Select([]int{2, 0, 99})
	if view.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", view.Len())
	}
	if view.Rows()[0].ID != 2 || view.Rows()[1].ID != 0 {
		t.Errorf("unexpected order: %d, %d", view.Rows()[0].ID, view.Rows()[1].ID)
	}
}

func TestDistinctNonEmpty(t *testing.T) {
	ds := testTable()
	got := ds.DistinctNonEmpty("project_name")
	want := []string{"Alpha", "Beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DistinctNonEmpty = %v, want %v", got, want)
	}
}

func TestDistinctNonEmpty_MissingColumn(t *testing.T) {
	ds := testTable()
	if got := ds.DistinctNonEmpty("nope"); len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestWithColumn_CopiesCells(t *testing.T) {
	ds := testTable()
	derived := ds.WithColumn("upper", func(r Row) string { return r.Get("project_name") + "!" })

	if !derived.HasColumn("upper") {
		t.Fatal("derived column missing")
	}
	if got := derived.Rows()[0].Get("upper"); got != "Alpha!" {
		t.Errorf("derived cell = %q", got)
	}
	if ds.HasColumn("upper") {
		t.Error("source columns mutated")
	}
	if _, ok := ds.Rows()[0].Cells["upper"]; ok {
		t.Error("source cells mutated")
	}
}

func TestEmpty(t *testing.T) {
	ds := testTable()
	e := ds.Empty()
	if e.Len() != 0 {
		t.Errorf("Empty() has %d rows", e.Len())
	}
	if !e.HasColumn("risk_text") {
		t.Error("Empty() lost columns")
	}
}
