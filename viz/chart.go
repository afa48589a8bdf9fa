package viz

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/npillmayer/trajgen/clickgen"
)

// ChartRenderer writes an HTML line chart of position components and speed
// over time.
type ChartRenderer struct {
	Path string
	Step float64 // sampling step in seconds
}

// Visualize renders p and overwrites the file at r.Path.
func (r ChartRenderer) Visualize(p *clickgen.Plan) error {
	if p == nil {
		return ErrNoPlan
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := r.Render(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Render writes the chart for p to w.
func (r ChartRenderer) Render(p *clickgen.Plan, w io.Writer) error {
	states, err := samples(p, r.Step)
	if err != nil {
		return err
	}
	ts := make([]string, len(states))
	x := make([]opts.LineData, len(states))
	y := make([]opts.LineData, len(states))
	z := make([]opts.LineData, len(states))
	speed := make([]opts.LineData, len(states))
	for i, s := range states {
		ts[i] = strconv.FormatFloat(s.Time, 'f', 2, 64)
		x[i] = opts.LineData{Value: s.Position.X}
		y[i] = opts.LineData{Value: s.Position.Y}
		z[i] = opts.LineData{Value: s.Position.Z}
		speed[i] = opts.LineData{Value: s.Velocity.Norm()}
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Trajectory", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Plan #%d", p.Revision),
			Subtitle: fmt.Sprintf("waypoints=%d pieces=%d", len(p.Waypoints), p.Trajectory.Len()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)", NameLocation: "middle", NameGap: 25}),
	)
	line.SetXAxis(ts).
		AddSeries("x", x).
		AddSeries("y", y).
		AddSeries("z", z).
		AddSeries("speed", speed)
	if err := line.Render(w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	tracer().Debugf("charted plan #%d with %d samples", p.Revision, len(states))
	return nil
}
