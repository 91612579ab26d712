package report

import (
	"ivtscope/domain/core"
	"ivtscope/domain/metrics"
)

// SuspiciousSampleCap is the fixed presentation limit on suspicious rows
// carried per application summary: the first 20 in table order.
const SuspiciousSampleCap = 20

// AppSummary is the per-application analysis outcome.
type AppSummary struct {
	App             core.AppID                 `json:"app"`
	RowCount        int                        `json:"n_rows"`
	SuspiciousCount int                        `json:"suspicious_count"`
	SuspiciousRatio float64                    `json:"suspicious_ratio"`
	Correlations    map[core.MetricKey]float64 `json:"corr"`
	TopSuspicious   []metrics.Row              `json:"top_suspicious_windows"`
}

// Chart references one rendered chart image.
type Chart struct {
	App    core.AppID     `json:"app"`
	Metric core.MetricKey `json:"metric"`
	Path   string         `json:"path"`
}

// Report is the full outcome of one analyzer run.
type Report struct {
	RunID       core.RunID     `json:"run_id"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	Entries     []AppSummary   `json:"entries"`
	Charts      []Chart        `json:"charts"`
}
