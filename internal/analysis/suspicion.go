package analysis

import (
	"ivtscope/domain/core"
	"ivtscope/domain/metrics"
)

// SuspicionConfig controls how per-metric spike flags combine into one
// suspicious flag per row.
type SuspicionConfig struct {
	Spike SpikeConfig

	// ZeroImpressionRequestFloor is the total-requests volume above which a
	// zero-impression bucket is flagged outright. Zero monetizable output at
	// high volume is inherently suspicious regardless of statistical variance.
	ZeroImpressionRequestFloor float64
}

// DefaultSuspicionConfig returns the standard aggregation parameters
func DefaultSuspicionConfig() SuspicionConfig {
	return SuspicionConfig{
		Spike:                      DefaultSpikeConfig(),
		ZeroImpressionRequestFloor: 1000,
	}
}

// Suspicion carries the combined flag per row plus the per-metric detail
// kept for inspection.
type Suspicion struct {
	Flags       []bool
	RuleFlags   []bool
	MetricFlags map[core.MetricKey][]bool
	ZScores     map[core.MetricKey][]float64
}

// Count returns the number of suspicious rows
func (s Suspicion) Count() int {
	n := 0
	for _, f := range s.Flags {
		if f {
			n++
		}
	}
	return n
}

// FlagSuspicious runs the spike detector over every candidate metric present
// in the frame (missing values treated as 0 for this computation only) and
// ORs the flags row-wise, then ORs in the zero-impressions rule.
//
// An absent metric column is simply excluded from the OR: detection fails
// open, never closed. Presence is an explicit capability check on the frame.
func FlagSuspicious(frame metrics.Frame, cfg SuspicionConfig) Suspicion {
	n := len(frame.Rows)
	out := Suspicion{
		Flags:       make([]bool, n),
		RuleFlags:   make([]bool, n),
		MetricFlags: make(map[core.MetricKey][]bool),
		ZScores:     make(map[core.MetricKey][]float64),
	}

	for _, m := range metrics.SpikeMetrics {
		series, ok := frame.Numeric(string(m))
		if !ok {
			continue
		}
		flags, scores := DetectSpikes(series.FillZero(), cfg.Spike)
		out.MetricFlags[m] = flags
		out.ZScores[m] = scores
		for i, f := range flags {
			out.Flags[i] = out.Flags[i] || f
		}
	}

	impressions := zeroFilled(frame, metrics.MetricImpressions)
	requests := zeroFilled(frame, metrics.MetricTotalRequests)
	for i := 0; i < n; i++ {
		out.RuleFlags[i] = impressions[i] == 0 && requests[i] > cfg.ZeroImpressionRequestFloor
		out.Flags[i] = out.Flags[i] || out.RuleFlags[i]
	}
	return out
}

// zeroFilled extracts a metric with missing values (and a wholly absent
// column) treated as zero. Only the deterministic rule wants this shape.
func zeroFilled(frame metrics.Frame, key core.MetricKey) []float64 {
	if s, ok := frame.Numeric(string(key)); ok {
		return s.FillZero()
	}
	return make([]float64, len(frame.Rows))
}
