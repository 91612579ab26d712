package testkit

import (
	"fmt"
	"strconv"
	"time"

	"ivtscope/domain/metrics"
)

// TableBuilder assembles RawTable fixtures column by column for tests.
type TableBuilder struct {
	headers []string
	columns map[string][]string
	rows    int
}

// NewTableBuilder creates an empty fixture builder
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{columns: make(map[string][]string)}
}

// Col adds a string column; all columns must carry the same row count.
func (b *TableBuilder) Col(name string, cells ...string) *TableBuilder {
	if len(b.headers) == 0 {
		b.rows = len(cells)
	} else if len(cells) != b.rows {
		panic(fmt.Sprintf("column %q has %d cells, want %d", name, len(cells), b.rows))
	}
	b.headers = append(b.headers, name)
	b.columns[name] = cells
	return b
}

// NumCol adds a numeric column formatted with minimal precision.
func (b *TableBuilder) NumCol(name string, values ...float64) *TableBuilder {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return b.Col(name, cells...)
}

// HourlyDates adds a "date" column of n hourly buckets starting at start.
func (b *TableBuilder) HourlyDates(n int, start time.Time) *TableBuilder {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = start.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:04:05")
	}
	return b.Col("date", cells...)
}

// Build produces the raw table.
func (b *TableBuilder) Build() *metrics.RawTable {
	t := &metrics.RawTable{
		Headers: append([]string(nil), b.headers...),
		Rows:    make([]map[string]string, b.rows),
	}
	for i := 0; i < b.rows; i++ {
		row := make(map[string]string, len(b.headers))
		for _, h := range b.headers {
			row[h] = b.columns[h][i]
		}
		t.Rows[i] = row
	}
	return t
}

// ConstantSeries returns n copies of v.
func ConstantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// SeriesWithOutlier returns a constant series of base with one outlier
// value at index idx.
func SeriesWithOutlier(n int, base float64, idx int, outlier float64) []float64 {
	out := ConstantSeries(n, base)
	out[idx] = outlier
	return out
}
