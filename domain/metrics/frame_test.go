package metrics

import (
	"testing"
	"time"

	"ivtscope/domain/core"
)

func timestampRow(app string, t time.Time, extra map[string]Value) Row {
	row := Row{
		"app":      NewStringValue(app),
		DateColumn: NewTimestampValue(t),
	}
	for k, v := range extra {
		row[k] = v
	}
	return row
}

func TestFrame_GroupByApp_PreservesFirstSeenOrder(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := Frame{
		Columns: []string{"app", DateColumn},
		Rows: []Row{
			timestampRow("beta", base.Add(2*time.Hour), nil),
			timestampRow("alpha", base, nil),
			timestampRow("beta", base.Add(time.Hour), nil),
		},
	}

	groups := f.GroupByApp()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].App != "beta" || groups[1].App != "alpha" {
		t.Errorf("group order must follow first appearance, got %q, %q", groups[0].App, groups[1].App)
	}

	// The beta group's two rows come back timestamp-ascending.
	ts, ok := groups[0].Frame.Timestamps()
	if !ok[0] || !ok[1] || !ts[0].Before(ts[1]) {
		t.Errorf("group rows not sorted ascending: %v", ts)
	}
}

func TestFrame_GroupByApp_NoAppColumnIsOneImplicitGroup(t *testing.T) {
	f := Frame{
		Columns: []string{DateColumn},
		Rows: []Row{
			{DateColumn: NewTimestampValue(time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC))},
			{DateColumn: NewTimestampValue(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))},
		},
	}

	groups := f.GroupByApp()
	if len(groups) != 1 {
		t.Fatalf("expected one implicit group, got %d", len(groups))
	}
	if groups[0].App != core.AllApps {
		t.Errorf("implicit group must use the sentinel id, got %q", groups[0].App)
	}

	// The grouping sorted a copy; the source frame keeps its row order.
	ts, _ := f.Timestamps()
	if !ts[0].After(ts[1]) {
		t.Error("source frame rows must stay in original order")
	}
}

func TestFrame_SortPutsUndefinedTimestampsLast(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f := Frame{
		Columns: []string{DateColumn, "v"},
		Rows: []Row{
			{DateColumn: NewMissingValue(), "v": NewNumericValue(1)},
			{DateColumn: NewTimestampValue(base.Add(time.Hour)), "v": NewNumericValue(2)},
			{DateColumn: NewTimestampValue(base), "v": NewNumericValue(3)},
		},
	}

	groups := f.GroupByApp()
	g := groups[0].Frame

	series, _ := g.Numeric("v")
	want := []float64{3, 2, 1}
	for i, v := range want {
		if series.Values[i] != v {
			t.Fatalf("sorted values = %v, want %v", series.Values, want)
		}
	}
}

func TestSeries_FillZero(t *testing.T) {
	s := Series{Values: []float64{5, 0, 7}, Defined: []bool{true, false, true}}
	got := s.FillZero()
	want := []float64{5, 0, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FillZero = %v, want %v", got, want)
		}
	}
	if s.DefinedCount() != 2 {
		t.Errorf("DefinedCount = %d, want 2", s.DefinedCount())
	}
}

func TestFrame_NumericAbsentColumn(t *testing.T) {
	f := Frame{Columns: []string{"a"}, Rows: []Row{{"a": NewNumericValue(1)}}}
	if _, ok := f.Numeric("b"); ok {
		t.Error("absent column must report not-ok")
	}
}

func TestFrame_AppColumnCandidateOrder(t *testing.T) {
	f := Frame{Columns: []string{"bundle_id", "app_name"}}
	col, ok := f.AppColumn()
	if !ok || col != "app_name" {
		t.Errorf("candidate priority violated: got %q", col)
	}
}
