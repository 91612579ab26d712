package ports

import (
	"time"

	"ivtscope/domain/core"
)

// ChartSpec describes one chart. Each render call receives its own spec by
// value; renderers must not keep drawing state between calls.
type ChartSpec struct {
	Title  string
	App    core.AppID
	Metric core.MetricKey

	// Parallel slices, one entry per plotted point. Rows with undefined
	// timestamps or values are excluded by the caller.
	Times      []time.Time
	Values     []float64
	Suspicious []bool

	OutPath string
}

// ChartRenderer renders one chart image per call.
type ChartRenderer interface {
	Render(spec ChartSpec) error
}
