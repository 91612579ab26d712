package charts

import (
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"ivtscope/internal/errors"
	"ivtscope/ports"
)

// PNGRenderer renders metric time charts as PNG files. Every Render call
// builds and releases its own plot; nothing is shared between charts.
type PNGRenderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewPNGRenderer creates a renderer with the standard 10x3in chart size
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: 10 * vg.Inch, Height: 3 * vg.Inch}
}

// Render draws one metric-over-time line with suspicious points overlaid
// in red, and saves it to spec.OutPath.
func (r *PNGRenderer) Render(spec ports.ChartSpec) error {
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02 15:04"}
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	pts := make(plotter.XYs, len(spec.Times))
	for i := range spec.Times {
		pts[i].X = float64(spec.Times[i].Unix())
		pts[i].Y = spec.Values[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "failed to build chart line")
	}
	line.LineStyle.Width = vg.Points(0.8)
	p.Add(line)

	var flagged plotter.XYs
	for i, suspicious := range spec.Suspicious {
		if suspicious {
			flagged = append(flagged, pts[i])
		}
	}
	if len(flagged) > 0 {
		scatter, err := plotter.NewScatter(flagged)
		if err != nil {
			return errors.Wrap(err, "failed to build highlight scatter")
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 0xd6, G: 0x2c, B: 0x2c, A: 0xff}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
	}

	if err := p.Save(r.Width, r.Height, spec.OutPath); err != nil {
		return errors.Wrapf(err, "failed to save chart %s", spec.OutPath)
	}
	return nil
}
