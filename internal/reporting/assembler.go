package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ivtscope/adapters/excel"
	"ivtscope/domain/core"
	"ivtscope/domain/metrics"
	"ivtscope/domain/report"
	"ivtscope/internal"
	"ivtscope/internal/analysis"
	"ivtscope/internal/config"
	"ivtscope/internal/errors"
	"ivtscope/ports"
)

// Output artifact names under the output directory.
const (
	WorkbookName   = "analysis.xlsx"
	HTMLReportName = "analysis_report.html"
)

// Assembler turns group analyses into the output artifacts: chart images,
// the xlsx workbook and the HTML report. Pure I/O; all decisions were made
// upstream.
type Assembler struct {
	cfg      config.OutputConfig
	renderer ports.ChartRenderer
	workbook *excel.WorkbookWriter
	log      *internal.Logger
}

// NewAssembler builds an assembler writing under cfg.Dir
func NewAssembler(cfg config.OutputConfig, renderer ports.ChartRenderer, logger *internal.Logger) *Assembler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Assembler{
		cfg:      cfg,
		renderer: renderer,
		workbook: excel.NewWorkbookWriter(cfg.ChartScale),
		log:      logger,
	}
}

// Assemble renders every chart, then writes the workbook and HTML report.
// A failure in any artifact aborts the whole run; there is no per-step
// isolation.
func (a *Assembler) Assemble(runID core.RunID, frame metrics.Frame, analyses []analysis.GroupAnalysis) (*report.Report, error) {
	chartsDir := filepath.Join(a.cfg.Dir, a.cfg.ChartsDir)
	if err := os.MkdirAll(chartsDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create charts directory")
	}

	rep := &report.Report{
		RunID:       runID,
		GeneratedAt: core.Now(),
	}

	for _, ga := range analyses {
		rep.Entries = append(rep.Entries, ga.Summary)

		charts, err := a.renderGroupCharts(chartsDir, ga)
		if err != nil {
			return nil, err
		}
		rep.Charts = append(rep.Charts, charts...)
	}

	workbookPath := filepath.Join(a.cfg.Dir, WorkbookName)
	if err := a.workbook.Write(workbookPath, rep, frame); err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(a.cfg.Dir, HTMLReportName)
	if err := WriteHTML(htmlPath, rep); err != nil {
		return nil, err
	}

	a.log.Info("Analysis finished. Outputs in: %s", a.cfg.Dir)
	return rep, nil
}

// renderGroupCharts renders one chart per chart metric present in the
// group. Points with an undefined timestamp or value are left out; the
// suspicious mask stays row-aligned with what remains.
func (a *Assembler) renderGroupCharts(chartsDir string, ga analysis.GroupAnalysis) ([]report.Chart, error) {
	ts, tsOK := ga.Group.Frame.Timestamps()

	var out []report.Chart
	for _, m := range metrics.ChartMetrics {
		series, ok := ga.Group.Frame.Numeric(string(m))
		if !ok {
			continue
		}

		spec := ports.ChartSpec{
			Title:   fmt.Sprintf("%s - %s", ga.Group.App, m),
			App:     ga.Group.App,
			Metric:  m,
			OutPath: filepath.Join(chartsDir, chartFileName(ga.Group.App, m)),
		}
		for i := range ga.Group.Frame.Rows {
			if !tsOK[i] || !series.Defined[i] {
				continue
			}
			spec.Times = append(spec.Times, ts[i])
			spec.Values = append(spec.Values, series.Values[i])
			spec.Suspicious = append(spec.Suspicious, ga.Suspicion.Flags[i])
		}
		if len(spec.Times) == 0 {
			a.log.Warn("app %q metric %s has no plottable points; skipping chart", ga.Group.App, m)
			continue
		}

		start := time.Now()
		if err := a.renderer.Render(spec); err != nil {
			return nil, errors.Wrapf(err, "failed to render chart for app %q metric %s", ga.Group.App, m)
		}
		a.log.Debug("chart %s rendered in %.2fms", spec.OutPath,
			float64(time.Since(start).Nanoseconds())/1e6)

		out = append(out, report.Chart{App: ga.Group.App, Metric: m, Path: spec.OutPath})
	}
	return out, nil
}

// chartFileName builds "<app>_<metric>.png" with path separators flattened.
func chartFileName(app core.AppID, m core.MetricKey) string {
	name := fmt.Sprintf("%s_%s.png", app, m)
	return strings.ReplaceAll(name, "/", "_")
}
