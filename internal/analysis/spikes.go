package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
)

// SpikeConfig controls rolling z-score detection.
type SpikeConfig struct {
	Window     int     // trailing window in time buckets
	ZThreshold float64 // |z| above which a row is flagged
}

// DefaultSpikeConfig returns the standard detection parameters
func DefaultSpikeConfig() SpikeConfig {
	return SpikeConfig{Window: 24, ZThreshold: 3.0}
}

// DetectSpikes computes a trailing rolling z-score over the series and
// flags rows where |z| exceeds the threshold.
//
// Early rows use a shortened window (minimum one observation) instead of
// being undefined. The z-score is undefined (NaN in the returned scores,
// never a flag) where the window holds fewer than two observations or has
// zero standard deviation: a flat signal is not a spike candidate.
func DetectSpikes(series []float64, cfg SpikeConfig) (flags []bool, scores []float64) {
	flags = make([]bool, len(series))
	scores = make([]float64, len(series))

	for i := range series {
		scores[i] = math.NaN()

		start := i - cfg.Window + 1
		if start < 0 {
			start = 0
		}
		window := series[start : i+1]
		if len(window) < 2 {
			continue
		}

		mean, err := stats.Mean(window)
		if err != nil {
			continue
		}
		sd, err := stats.StandardDeviationSample(window)
		if err != nil || sd == 0 || math.IsNaN(sd) {
			continue
		}

		z := (series[i] - mean) / sd
		scores[i] = z
		flags[i] = math.Abs(z) > cfg.ZThreshold
	}
	return flags, scores
}
