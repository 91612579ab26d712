package analysis

import (
	"ivtscope/domain/metrics"
	"ivtscope/domain/report"
	"ivtscope/internal"
	"ivtscope/internal/config"
)

// GroupAnalysis is the full detection outcome for one application group.
// The group's frame keeps its timestamp-ascending row order; flag slices
// are row-parallel to it.
type GroupAnalysis struct {
	Group     metrics.Group
	Suspicion Suspicion
	Summary   report.AppSummary
}

// Analyzer runs the per-group detection pipeline: sort, spike detection,
// suspicion aggregation, correlation summary, summary record.
type Analyzer struct {
	cfg       SuspicionConfig
	sampleCap int
	log       *internal.Logger
}

// NewAnalyzer builds an analyzer from application configuration
func NewAnalyzer(cfg config.AnalysisConfig, logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Analyzer{
		cfg: SuspicionConfig{
			Spike:                      SpikeConfig{Window: cfg.SpikeWindow, ZThreshold: cfg.ZScoreThresh},
			ZeroImpressionRequestFloor: cfg.ZeroImprRule,
		},
		sampleCap: cfg.SuspiciousCap,
		log:       logger,
	}
}

// AnalyzeFrame partitions the cleaned frame into application groups and
// analyzes each strictly in sequence. Groups are independent; nothing here
// reaches back into upstream state.
func (a *Analyzer) AnalyzeFrame(frame metrics.Frame) []GroupAnalysis {
	groups := frame.GroupByApp()
	a.log.Info("analyzing %d application group(s) over %d rows", len(groups), len(frame.Rows))

	results := make([]GroupAnalysis, 0, len(groups))
	for _, g := range groups {
		results = append(results, a.analyzeGroup(g))
	}
	return results
}

func (a *Analyzer) analyzeGroup(g metrics.Group) GroupAnalysis {
	susp := FlagSuspicious(g.Frame, a.cfg)
	corr := Correlations(g.Frame)

	n := len(g.Frame.Rows)
	count := susp.Count()
	ratio := 0.0
	if n > 0 {
		ratio = float64(count) / float64(n)
	}

	top := make([]metrics.Row, 0, a.sampleCap)
	for i, flagged := range susp.Flags {
		if !flagged {
			continue
		}
		if len(top) >= a.sampleCap {
			break
		}
		top = append(top, g.Frame.Rows[i])
	}

	a.log.Debug("app %q: %d/%d suspicious rows", g.App, count, n)

	return GroupAnalysis{
		Group:     g,
		Suspicion: susp,
		Summary: report.AppSummary{
			App:             g.App,
			RowCount:        n,
			SuspiciousCount: count,
			SuspiciousRatio: ratio,
			Correlations:    corr,
			TopSuspicious:   top,
		},
	}
}
