package metrics

import (
	"strings"

	"ivtscope/domain/core"
)

// Recognized metric columns. Names are fixed by the upstream reporting
// pipeline that produces the traffic quality sheets.
const (
	MetricUniqueIDFAs        core.MetricKey = "unique_idfas"
	MetricUniqueIPs          core.MetricKey = "unique_ips"
	MetricUniqueUAs          core.MetricKey = "unique_uas"
	MetricTotalRequests      core.MetricKey = "total_requests"
	MetricRequestsPerIDFA    core.MetricKey = "requests_per_idfa"
	MetricImpressions        core.MetricKey = "impressions"
	MetricImpressionsPerIDFA core.MetricKey = "impressions_per_idfa"
	MetricIDFAIPRatio        core.MetricKey = "idfa_ip_ratio"
	MetricIDFAUARatio        core.MetricKey = "idfa_ua_ratio"
	MetricIVT                core.MetricKey = "IVT"
)

// DateColumn is the canonical timestamp column the preprocessor appends.
const DateColumn = "Date"

// RecognizedMetrics lists every column the preprocessor coerces to numeric.
var RecognizedMetrics = []core.MetricKey{
	MetricUniqueIDFAs,
	MetricUniqueIPs,
	MetricUniqueUAs,
	MetricTotalRequests,
	MetricRequestsPerIDFA,
	MetricImpressions,
	MetricImpressionsPerIDFA,
	MetricIDFAIPRatio,
	MetricIDFAUARatio,
	MetricIVT,
}

// SpikeMetrics are the ratio/rate metrics fed to the spike detector and,
// when ground truth exists, to the correlation summary.
var SpikeMetrics = []core.MetricKey{
	MetricIDFAUARatio,
	MetricRequestsPerIDFA,
	MetricImpressionsPerIDFA,
	MetricIDFAIPRatio,
}

// ChartMetrics are the metrics rendered as per-application time charts.
var ChartMetrics = []core.MetricKey{
	MetricIDFAUARatio,
	MetricRequestsPerIDFA,
	MetricImpressionsPerIDFA,
}

// AppColumnCandidates are checked in order; the first present becomes the
// grouping column.
var AppColumnCandidates = []string{"app", "app_name", "application", "bundle_id"}

// timestampHints are matched as case-insensitive substrings of column names
// when sniffing the timestamp column.
var timestampHints = []string{"date", "hour", "time"}

// HasTimestampHint reports whether a column name looks like a timestamp
// column ("date", "hour" or "time" substring, case-insensitive).
func HasTimestampHint(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range timestampHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
