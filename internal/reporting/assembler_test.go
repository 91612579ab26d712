package reporting

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ivtscope/domain/core"
	"ivtscope/domain/metrics"
	"ivtscope/internal/analysis"
	"ivtscope/internal/config"
	"ivtscope/ports"
)

// pngStubRenderer records chart specs and writes a real 1x1 PNG so the
// workbook's picture embedding has a decodable file to work with.
type pngStubRenderer struct {
	specs []ports.ChartSpec
}

func (r *pngStubRenderer) Render(spec ports.ChartSpec) error {
	r.specs = append(r.specs, spec)
	f, err := os.Create(spec.OutPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, image.NewRGBA(image.Rect(0, 0, 1, 1)))
}

func chartableFrame(rows int) metrics.Frame {
	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	frame := metrics.Frame{
		Columns: []string{"app", "idfa_ua_ratio", "requests_per_idfa", metrics.DateColumn},
	}
	for i := 0; i < rows; i++ {
		frame.Rows = append(frame.Rows, metrics.Row{
			"app":               metrics.NewStringValue("app/one"),
			"idfa_ua_ratio":     metrics.NewNumericValue(float64(5 + i%3)),
			"requests_per_idfa": metrics.NewNumericValue(float64(3 + i%2)),
			metrics.DateColumn:  metrics.NewTimestampValue(base.Add(time.Duration(i) * time.Hour)),
		})
	}
	return frame
}

func TestAssembler_Assemble(t *testing.T) {
	outDir := t.TempDir()
	cfg := config.OutputConfig{Dir: outDir, ChartsDir: "charts", ChartScale: 0.8}

	frame := chartableFrame(30)
	analyzer := analysis.NewAnalyzer(config.AnalysisConfig{
		SpikeWindow:   24,
		ZScoreThresh:  3.0,
		ZeroImprRule:  1000,
		SuspiciousCap: 20,
	}, nil)
	analyses := analyzer.AnalyzeFrame(frame)
	require.Len(t, analyses, 1)

	renderer := &pngStubRenderer{}
	asm := NewAssembler(cfg, renderer, nil)

	rep, err := asm.Assemble(core.RunID("run-asm"), frame, analyses)
	require.NoError(t, err)
	require.Len(t, rep.Entries, 1)

	// One chart per chart metric present in the frame.
	require.Len(t, renderer.specs, 2)
	require.Len(t, rep.Charts, 2)

	// Path separators in the app id are flattened in chart filenames.
	for _, c := range rep.Charts {
		require.Equal(t, fmt.Sprintf("app_one_%s.png", c.Metric), filepath.Base(c.Path))
		_, statErr := os.Stat(c.Path)
		require.NoError(t, statErr)
	}

	// Both final artifacts exist in the output directory.
	for _, name := range []string{WorkbookName, HTMLReportName} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, statErr)
	}
}

func TestAssembler_SkipsMetricsWithoutPlottablePoints(t *testing.T) {
	outDir := t.TempDir()
	cfg := config.OutputConfig{Dir: outDir, ChartsDir: "charts", ChartScale: 0.8}

	// Timestamps never parse, so no chart has plottable points.
	frame := metrics.Frame{
		Columns: []string{"idfa_ua_ratio", metrics.DateColumn},
		Rows: []metrics.Row{
			{"idfa_ua_ratio": metrics.NewNumericValue(1), metrics.DateColumn: metrics.NewMissingValue()},
			{"idfa_ua_ratio": metrics.NewNumericValue(2), metrics.DateColumn: metrics.NewMissingValue()},
		},
	}
	analyzer := analysis.NewAnalyzer(config.AnalysisConfig{
		SpikeWindow:   24,
		ZScoreThresh:  3.0,
		ZeroImprRule:  1000,
		SuspiciousCap: 20,
	}, nil)
	analyses := analyzer.AnalyzeFrame(frame)

	renderer := &pngStubRenderer{}
	rep, err := NewAssembler(cfg, renderer, nil).Assemble(core.RunID("run-empty"), frame, analyses)
	require.NoError(t, err)
	require.Empty(t, renderer.specs)
	require.Empty(t, rep.Charts)
}
