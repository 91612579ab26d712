package metrics

import (
	"sort"
	"time"

	"ivtscope/domain/core"
)

// RawTable represents an uncleaned tabular source: string cells keyed by
// header name. Headers preserve the source column order.
type RawTable struct {
	Headers []string
	Rows    []map[string]string
}

// Row is one cleaned table row: typed cell values keyed by column name.
type Row map[string]Value

// Frame is a cleaned table. Columns preserves source column order; the
// timestamp-sniffing and reporting contracts depend on that order staying
// exactly as read.
type Frame struct {
	Columns []string
	Rows    []Row
}

// Series is one numeric column extracted from a frame. Defined[i] is false
// where the cell was missing or non-numeric.
type Series struct {
	Values  []float64
	Defined []bool
}

// Len returns the number of observations in the series
func (s Series) Len() int { return len(s.Values) }

// FillZero returns the series values with undefined entries replaced by 0.
func (s Series) FillZero() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if s.Defined[i] {
			out[i] = v
		}
	}
	return out
}

// DefinedCount returns how many observations carry a value
func (s Series) DefinedCount() int {
	n := 0
	for _, d := range s.Defined {
		if d {
			n++
		}
	}
	return n
}

// Group is the per-application partition of a frame, rows sorted by
// timestamp ascending.
type Group struct {
	App   core.AppID
	Frame Frame
}

// HasColumn reports whether the frame carries the named column.
func (f Frame) HasColumn(name string) bool {
	for _, c := range f.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the frame's column order if not present.
func (f *Frame) AddColumn(name string) {
	if !f.HasColumn(name) {
		f.Columns = append(f.Columns, name)
	}
}

// Numeric extracts the named column as a numeric series. The second return
// is false when the column is absent; callers use it as the explicit
// capability check behind the fail-open contract.
func (f Frame) Numeric(name string) (Series, bool) {
	if !f.HasColumn(name) {
		return Series{}, false
	}
	s := Series{
		Values:  make([]float64, len(f.Rows)),
		Defined: make([]bool, len(f.Rows)),
	}
	for i, row := range f.Rows {
		if v, ok := row[name]; ok && v.IsNumeric() {
			s.Values[i] = v.AsFloat64()
			s.Defined[i] = true
		}
	}
	return s, true
}

// Timestamps extracts the canonical timestamp column. ok[i] is false for
// rows whose timestamp could not be parsed.
func (f Frame) Timestamps() ([]time.Time, []bool) {
	ts := make([]time.Time, len(f.Rows))
	ok := make([]bool, len(f.Rows))
	for i, row := range f.Rows {
		if v, exists := row[DateColumn]; exists && v.IsTimestamp() {
			ts[i] = v.AsTime()
			ok[i] = true
		}
	}
	return ts, ok
}

// AppColumn returns the grouping column, checking the fixed candidate list
// in order.
func (f Frame) AppColumn() (string, bool) {
	for _, candidate := range AppColumnCandidates {
		if f.HasColumn(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// GroupByApp partitions the frame by application identifier, preserving the
// first-seen order of application values. Without an application column the
// whole frame becomes one implicit group. Each group's rows are sorted by
// timestamp ascending; the receiver frame is left untouched.
func (f Frame) GroupByApp() []Group {
	appCol, hasApp := f.AppColumn()
	if !hasApp {
		g := Group{App: core.AllApps, Frame: Frame{Columns: f.Columns, Rows: append([]Row(nil), f.Rows...)}}
		g.Frame.sortByTimestamp()
		return []Group{g}
	}

	order := make([]string, 0)
	byApp := make(map[string][]Row)
	for _, row := range f.Rows {
		key := row[appCol].String()
		if _, seen := byApp[key]; !seen {
			order = append(order, key)
		}
		byApp[key] = append(byApp[key], row)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		g := Group{App: core.AppID(key), Frame: Frame{Columns: f.Columns, Rows: byApp[key]}}
		g.Frame.sortByTimestamp()
		groups = append(groups, g)
	}
	return groups
}

// sortByTimestamp stably sorts rows by the canonical timestamp column,
// ascending, with undefined timestamps last.
func (f *Frame) sortByTimestamp() {
	ts, ok := f.Timestamps()
	idx := make([]int, len(f.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		switch {
		case ok[ia] && ok[ib]:
			return ts[ia].Before(ts[ib])
		case ok[ia]:
			return true
		default:
			return false
		}
	})
	sorted := make([]Row, len(f.Rows))
	for i, j := range idx {
		sorted[i] = f.Rows[j]
	}
	f.Rows = sorted
}
