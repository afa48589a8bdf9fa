package viz

import (
	"fmt"
	"image/color"

	"github.com/npillmayer/trajgen/clickgen"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotRenderer draws the top view (x/y plane) of a plan into an image file.
// The format is taken from the file extension of Path (.png, .svg, .pdf, …).
type PlotRenderer struct {
	Path   string
	Step   float64   // sampling step in seconds
	Width  vg.Length // defaults to 8 inch
	Height vg.Length // defaults to 8 inch
}

// Visualize renders p and overwrites the file at r.Path.
func (r PlotRenderer) Visualize(p *clickgen.Plan) error {
	if p == nil {
		return ErrNoPlan
	}
	pl, err := r.Plot(p)
	if err != nil {
		return err
	}
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 8 * vg.Inch
	}
	if err := pl.Save(w, h, r.Path); err != nil {
		return fmt.Errorf("saving plot %s: %w", r.Path, err)
	}
	tracer().Debugf("plotted plan #%d to %s", p.Revision, r.Path)
	return nil
}

// Plot creates the plot for p without saving it.
func (r PlotRenderer) Plot(p *clickgen.Plan) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Plan #%d", p.Revision)
	pl.X.Label.Text = "x"
	pl.Y.Label.Text = "y"
	pl.Add(plotter.NewGrid())
	states, err := samples(p, r.Step)
	if err != nil {
		return nil, err
	}
	if len(states) > 0 {
		pts := make(plotter.XYs, len(states))
		for i, s := range states {
			pts[i] = plotter.XY{X: s.Position.X, Y: s.Position.Y}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("trajectory line: %w", err)
		}
		line.Width = vg.Points(1.5)
		line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
		pl.Add(line)
		pl.Legend.Add("trajectory", line)
	}
	if len(p.Waypoints) > 0 {
		pts := make(plotter.XYs, len(p.Waypoints))
		for i, w := range p.Waypoints {
			pts[i] = plotter.XY{X: w.X, Y: w.Y}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("waypoints: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(3)
		sc.GlyphStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
		pl.Add(sc)
		pl.Legend.Add("waypoints", sc)
	}
	pl.Legend.Top = true
	return pl, nil
}
