package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"ivtscope/domain/core"
	"ivtscope/domain/metrics"
)

// Correlations computes the Pearson correlation of each candidate metric
// against the ground-truth IVT column, over rows where both are defined.
//
// Without a ground-truth column the result is an empty map, not an error.
// A pair with fewer than two defined observations, or with zero variance on
// either side, yields NaN.
func Correlations(frame metrics.Frame) map[core.MetricKey]float64 {
	out := make(map[core.MetricKey]float64)

	truth, ok := frame.Numeric(string(metrics.MetricIVT))
	if !ok {
		return out
	}

	for _, m := range metrics.SpikeMetrics {
		series, ok := frame.Numeric(string(m))
		if !ok {
			continue
		}
		out[m] = pairwiseCorrelation(series, truth)
	}
	return out
}

// pairwiseCorrelation correlates two series over their jointly defined rows.
func pairwiseCorrelation(x, y metrics.Series) float64 {
	xs := make([]float64, 0, x.Len())
	ys := make([]float64, 0, y.Len())
	for i := 0; i < x.Len() && i < y.Len(); i++ {
		if x.Defined[i] && y.Defined[i] {
			xs = append(xs, x.Values[i])
			ys = append(ys, y.Values[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
