package analysis

import (
	"strings"

	"ivtscope/domain/metrics"
	"ivtscope/internal/coerce"
)

// Preprocessor normalizes a raw table into a typed frame: trimmed column
// names, a canonical timestamp column, and recognized metric columns
// coerced to numeric. No rows are ever dropped.
type Preprocessor struct {
	coercer *coerce.Coercer
}

// NewPreprocessor creates a preprocessor with default coercion rules
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{coercer: coerce.New(coerce.DefaultConfig())}
}

// Clean converts a raw table into a typed frame.
//
// The timestamp source is the first column whose name contains "date",
// "hour" or "time" (case-insensitive), falling back to the first column.
// Its parsed value lands in the canonical Date column; the source column
// itself is left as read. Unparseable cells become missing values.
func (p *Preprocessor) Clean(raw *metrics.RawTable) metrics.Frame {
	headers := make([]string, len(raw.Headers))
	for i, h := range raw.Headers {
		headers[i] = strings.TrimSpace(h)
	}

	recognized := make(map[string]bool, len(metrics.RecognizedMetrics))
	for _, m := range metrics.RecognizedMetrics {
		recognized[string(m)] = true
	}

	tsIdx := timestampSourceIndex(headers)

	frame := metrics.Frame{
		Columns: headers,
		Rows:    make([]metrics.Row, len(raw.Rows)),
	}
	frame.AddColumn(metrics.DateColumn)

	for i, rawRow := range raw.Rows {
		row := make(metrics.Row, len(headers)+1)
		for hi, h := range headers {
			cell := rawRow[raw.Headers[hi]]
			if recognized[h] {
				row[h] = p.coercer.Numeric(cell)
			} else {
				row[h] = p.coercer.Cell(cell)
			}
		}
		if tsIdx >= 0 {
			row[metrics.DateColumn] = p.coercer.Timestamp(rawRow[raw.Headers[tsIdx]])
		} else {
			row[metrics.DateColumn] = metrics.NewMissingValue()
		}
		frame.Rows[i] = row
	}
	return frame
}

// timestampSourceIndex picks the column to parse timestamps from. Column
// order is significant: the first hinted column in source order wins.
func timestampSourceIndex(headers []string) int {
	for i, h := range headers {
		if metrics.HasTimestampHint(h) {
			return i
		}
	}
	if len(headers) > 0 {
		return 0
	}
	return -1
}
