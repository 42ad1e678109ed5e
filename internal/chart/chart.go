// Package chart renders survey aggregates as PNG charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Kind selects the chart layout.
type Kind int

const (
	Bar Kind = iota
	GroupedBar
	Line
)

// Series is one named run of values aligned with Spec.Categories.
type Series struct {
	Name   string
	Values []float64
}

// Spec describes a chart independently of how it is drawn.
type Spec struct {
	Kind       Kind
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []Series
	// PerCategoryColor colours each bar of a single-series bar chart separately.
	PerCategoryColor bool
}

// ErrEmpty is returned for a spec with nothing to draw.
var ErrEmpty = errors.New("chart has no data")

// Renderer draws specs with a theme at a fixed size.
type Renderer struct {
	Theme  Theme
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer producing 8x4.5 inch charts.
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{Theme: theme, Width: 8 * vg.Inch, Height: 4.5 * vg.Inch}
}

// Plot builds the gonum plot for spec.
func (r *Renderer) Plot(spec Spec) (*plot.Plot, error) {
	if len(spec.Categories) == 0 || len(spec.Series) == 0 {
		return nil, ErrEmpty
	}
	for _, s := range spec.Series {
		if len(s.Values) != len(spec.Categories) {
			return nil, fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(spec.Categories))
		}
	}
	p := plot.New()
	p.Title.Text = spec.Title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	r.style(p)

	var err error
	switch spec.Kind {
	case Line:
		err = r.addLines(p, spec)
	default:
		err = r.addBars(p, spec)
		p.Y.Min = 0
	}
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(spec.Categories))
	for i, c := range spec.Categories {
		labels[i] = shorten(c, 18)
	}
	p.NominalX(labels...)
	if len(labels) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	if len(spec.Series) > 1 {
		p.Legend.Top = true
		p.Legend.TextStyle.Color = r.Theme.Foreground
	}
	return p, nil
}

func (r *Renderer) addBars(p *plot.Plot, spec Spec) error {
	width := vg.Points(18)
	n := len(spec.Series)
	if spec.PerCategoryColor && n == 1 {
		for i, v := range spec.Series[0].Values {
			vals := make(plotter.Values, len(spec.Categories))
			vals[i] = v
			bars, err := plotter.NewBarChart(vals, width)
			if err != nil {
				return fmt.Errorf("bar chart: %w", err)
			}
			bars.Color = r.Theme.Color(i)
			bars.LineStyle.Width = vg.Length(0)
			p.Add(bars)
		}
		return nil
	}
	for i, s := range spec.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("bar chart: %w", err)
		}
		bars.Color = r.Theme.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * width
		p.Add(bars)
		if n > 1 {
			p.Legend.Add(s.Name, bars)
		}
	}
	return nil
}

func (r *Renderer) addLines(p *plot.Plot, spec Spec) error {
	for i, s := range spec.Series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("line chart: %w", err)
		}
		line.Color = r.Theme.Color(i)
		line.Width = vg.Points(2)
		points.GlyphStyle.Color = r.Theme.Color(i)
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, points)
		if len(spec.Series) > 1 {
			p.Legend.Add(s.Name, line, points)
		}
	}
	return nil
}

func (r *Renderer) style(p *plot.Plot) {
	t := r.Theme
	p.BackgroundColor = t.Background
	p.Title.TextStyle.Color = t.Foreground
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = t.Foreground
		ax.Label.TextStyle.Color = t.Foreground
		ax.Tick.Label.Color = t.Foreground
		ax.Tick.Color = t.Foreground
	}
	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = t.Grid
	p.Add(grid)
}

// WritePNG renders spec as PNG into w.
func (r *Renderer) WritePNG(w io.Writer, spec Spec) error {
	p, err := r.Plot(spec)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG renders spec to a PNG file, creating parent directories as needed.
func (r *Renderer) SavePNG(path string, spec Spec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	if err := r.WritePNG(f, spec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func shorten(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
