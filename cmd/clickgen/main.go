// Command clickgen reads waypoint clicks and plans minimum-jerk trajectories
// through them, re-planning after every click.
//
// Input lines hold "x y [oz]"; the height of a waypoint is |oz| times the
// configured click height. Blank lines and lines starting with '#' are skipped.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen/clickgen"
	"github.com/npillmayer/trajgen/config"
	"github.com/npillmayer/trajgen/viz"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

const (
	flagConfig      = "config"
	flagInput       = "input"
	flagPlot        = "plot"
	flagChart       = "chart"
	flagMetricsAddr = "metrics-addr"
	flagDebug       = "debug"
)

func main() {
	app := &cli.App{
		Name:  "clickgen",
		Usage: "plan minimum-jerk trajectories through clicked waypoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load configuration from YAML `FILE`",
			},
			&cli.StringFlag{
				Name:    flagInput,
				Aliases: []string{"i"},
				Usage:   "read clicks from `FILE` instead of stdin",
			},
			&cli.StringFlag{
				Name:  flagPlot,
				Usage: "plot the current plan to `FILE` (.png, .svg, …)",
			},
			&cli.StringFlag{
				Name:  flagChart,
				Usage: "write an HTML chart of the current plan to `FILE`",
			},
			&cli.StringFlag{
				Name:  flagMetricsAddr,
				Usage: "serve Prometheus metrics on `ADDR`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug tracing",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool(flagDebug) {
		tracing.Select("trajgen").SetTraceLevel(tracing.LevelDebug)
		tracing.Select("clickgen").SetTraceLevel(tracing.LevelDebug)
	}
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	in := io.Reader(os.Stdin)
	if path := c.String(flagInput); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	reg := prometheus.NewRegistry()
	if addr := c.String(flagMetricsAddr); addr != "" {
		go serveMetrics(addr, reg)
	}
	visualizers := []clickgen.Visualizer{viz.Tracer{}}
	if path := c.String(flagPlot); path != "" {
		visualizers = append(visualizers, viz.PlotRenderer{Path: path})
	}
	if path := c.String(flagChart); path != "" {
		visualizers = append(visualizers, viz.ChartRenderer{Path: path})
	}
	ctrl, err := clickgen.New(cfg,
		clickgen.WithVisualizer(viz.Multi(visualizers...)),
		clickgen.WithMetrics(clickgen.NewMetrics(reg)),
		clickgen.WithRejectHandler(func(p r3.Vector, err error) {
			fmt.Fprintf(os.Stderr, "rejected waypoint: %v\n", err)
		}),
	)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()
	ch := make(chan r3.Vector)
	readErr := make(chan error, 1)
	go func() {
		defer close(ch)
		readErr <- readClicks(ctx, in, cfg.ClickHeight, ch)
	}()
	runErr := ctrl.Run(ctx, ch)
	stop() // a second interrupt terminates the process
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	if err := <-readErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println(ctrl.Current())
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "metrics server: %v\n", err)
	}
}

// readClicks parses clicks from r and sends the resulting waypoints to ch.
// Malformed lines are reported to stderr and skipped. When ctx is done,
// readClicks returns at once and closes r if it is an io.Closer, releasing
// a scanner blocked on input.
func readClicks(ctx context.Context, r io.Reader, height float64, ch chan<- r3.Vector) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()
	cancelled := func() error {
		if c, ok := r.(io.Closer); ok {
			c.Close()
		}
		return ctx.Err()
	}
	lineno := 0
	for {
		var line string
		select {
		case <-ctx.Done():
			return cancelled()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return cancelled()
				}
			}
			line = l
		}
		lineno++
		p, ok, err := parseClick(line, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", lineno, err)
			continue
		}
		if !ok {
			continue
		}
		select {
		case ch <- p:
		case <-ctx.Done():
			return cancelled()
		}
	}
}

// parseClick parses a line "x y [oz]". ok is false for blank and comment lines.
func parseClick(line string, height float64) (p r3.Vector, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return r3.Vector{}, false, nil
	}
	fields := strings.Fields(line)
	if len(fields) < 2 || len(fields) > 3 {
		return r3.Vector{}, false, fmt.Errorf("expected \"x y [oz]\", got %q", line)
	}
	var v [3]float64
	for i, f := range fields {
		if v[i], err = strconv.ParseFloat(f, 64); err != nil {
			return r3.Vector{}, false, fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	return clickgen.FromClick(v[0], v[1], v[2], height), true, nil
}
