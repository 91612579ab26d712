package analysis

import (
	"testing"
	"time"

	"ivtscope/domain/metrics"
	"ivtscope/internal/testkit"
)

func TestPreprocess_TrimsHeadersAndCoercesMetrics(t *testing.T) {
	// Headers may arrive untrimmed from odd sources; row cells stay keyed
	// by the header exactly as read.
	raw := &metrics.RawTable{
		Headers: []string{"  date ", " total_requests", "impressions ", "note"},
		Rows: []map[string]string{
			{"  date ": "2025-01-01 00:00:00", " total_requests": "1,200", "impressions ": "bad", "note": "ok"},
		},
	}

	frame := NewPreprocessor().Clean(raw)

	if len(frame.Rows) != 1 {
		t.Fatalf("rows dropped: got %d, want 1", len(frame.Rows))
	}
	if frame.Columns[0] != "date" || frame.Columns[1] != "total_requests" {
		t.Errorf("headers not trimmed: %v", frame.Columns)
	}

	req := frame.Rows[0]["total_requests"]
	if !req.IsNumeric() || req.AsFloat64() != 1200 {
		t.Errorf("total_requests not coerced: %+v", req)
	}

	impr := frame.Rows[0]["impressions"]
	if !impr.IsMissing {
		t.Errorf("unparseable metric cell must become missing, got %+v", impr)
	}

	note := frame.Rows[0]["note"]
	if note.AsString() != "ok" {
		t.Errorf("unrecognized column must pass through as string, got %+v", note)
	}
}

func TestPreprocess_AppendsCanonicalDateColumn(t *testing.T) {
	raw := testkit.NewTableBuilder().
		HourlyDates(3, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)).
		NumCol("total_requests", 1, 2, 3).
		Build()

	frame := NewPreprocessor().Clean(raw)

	if !frame.HasColumn(metrics.DateColumn) {
		t.Fatal("Date column not appended")
	}
	if frame.Columns[len(frame.Columns)-1] != metrics.DateColumn {
		t.Errorf("Date column must come after source columns, got order %v", frame.Columns)
	}

	v := frame.Rows[0][metrics.DateColumn]
	if !v.IsTimestamp() {
		t.Fatalf("first timestamp not parsed: %+v", v)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !v.AsTime().Equal(want) {
		t.Errorf("timestamp = %v, want %v", v.AsTime(), want)
	}
}

func TestPreprocess_FirstHintedColumnWinsInOrder(t *testing.T) {
	raw := &metrics.RawTable{
		Headers: []string{"id", "report_hour", "event_time"},
		Rows: []map[string]string{
			{"id": "1", "report_hour": "2025-01-02", "event_time": "1999-01-01"},
		},
	}

	frame := NewPreprocessor().Clean(raw)
	v := frame.Rows[0][metrics.DateColumn]
	if !v.IsTimestamp() || v.AsTime().Year() != 2025 {
		t.Errorf("timestamp must come from report_hour (first hinted column), got %+v", v)
	}
}

func TestPreprocess_FallsBackToFirstColumn(t *testing.T) {
	raw := &metrics.RawTable{
		Headers: []string{"bucket", "total_requests"},
		Rows: []map[string]string{
			{"bucket": "2025-06-01", "total_requests": "10"},
			{"bucket": "not a date", "total_requests": "20"},
		},
	}

	frame := NewPreprocessor().Clean(raw)

	if v := frame.Rows[0][metrics.DateColumn]; !v.IsTimestamp() {
		t.Errorf("parseable fallback cell should yield a timestamp, got %+v", v)
	}
	if v := frame.Rows[1][metrics.DateColumn]; !v.IsMissing {
		t.Errorf("unparseable cell must become missing, not an error, got %+v", v)
	}
}

func TestPreprocess_NoParseableTimestampsAnywhere(t *testing.T) {
	// Zero columns parse as timestamps even after the fallback: every row
	// gets an undefined timestamp, nothing fails.
	raw := &metrics.RawTable{
		Headers: []string{"label", "total_requests"},
		Rows: []map[string]string{
			{"label": "alpha", "total_requests": "10"},
			{"label": "beta", "total_requests": "20"},
		},
	}

	frame := NewPreprocessor().Clean(raw)
	for i, row := range frame.Rows {
		if !row[metrics.DateColumn].IsMissing {
			t.Errorf("row %d: expected undefined timestamp, got %+v", i, row[metrics.DateColumn])
		}
	}
}
