package reporting

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"ivtscope/domain/core"
	"ivtscope/domain/report"
	"ivtscope/internal/errors"
)

var reportPage = template.Must(template.New("report").Parse(`<html><head><meta charset="utf-8"><title>IVT Analysis Report</title></head><body>
{{.Body}}
</body></html>
`))

type pageData struct {
	Body template.HTML
}

// WriteHTML renders the narrative HTML report. The body is composed as
// Markdown and converted to HTML.
func WriteHTML(path string, rep *report.Report) error {
	md := buildNarrative(rep)

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create HTML report")
	}
	defer f.Close()

	if err := reportPage.Execute(f, pageData{Body: template.HTML(body)}); err != nil {
		return errors.Wrap(err, "failed to render HTML report")
	}
	return nil
}

// buildNarrative composes the per-app summary as Markdown.
func buildNarrative(rep *report.Report) string {
	var b strings.Builder

	b.WriteString("# IVT Analysis Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", rep.GeneratedAt.Time().Format(time.RFC1123))
	fmt.Fprintf(&b, "Run: %s\n\n", rep.RunID)
	b.WriteString("## Per-app summary\n\n")

	for _, e := range rep.Entries {
		fmt.Fprintf(&b, "### %s\n\n", e.App)
		fmt.Fprintf(&b, "- Rows: %d\n", e.RowCount)
		fmt.Fprintf(&b, "- Suspicious windows: %d (%.1f%%)\n", e.SuspiciousCount, e.SuspiciousRatio*100)
		fmt.Fprintf(&b, "- Correlations: %s\n\n", formatCorrelations(e))
	}
	return b.String()
}

// formatCorrelations renders the correlation map in a stable metric order.
func formatCorrelations(e report.AppSummary) string {
	if len(e.Correlations) == 0 {
		return "none (no ground-truth column)"
	}

	keys := make([]core.MetricKey, 0, len(e.Correlations))
	for k := range e.Correlations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		r := e.Correlations[k]
		if math.IsNaN(r) {
			parts = append(parts, fmt.Sprintf("%s=n/a", k))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.3f", k, r))
	}
	return strings.Join(parts, ", ")
}
