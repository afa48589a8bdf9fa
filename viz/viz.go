/*
Package viz renders published plans. Every renderer implements
clickgen.Visualizer and can be handed to a controller.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package viz

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen/clickgen"
	"github.com/npillmayer/trajgen/traj"
	"go.uber.org/multierr"
)

// tracer writes to trace with key 'clickgen'
func tracer() tracing.Trace {
	return tracing.Select("clickgen")
}

// ErrNoPlan is returned by renderers called with a nil plan.
var ErrNoPlan = errors.New("no plan to render")

// DefaultStep is the sampling step (in seconds) used if a renderer has none set.
const DefaultStep = 0.05

// Tracer writes a summary of each plan to the trace, and the full trajectory
// at debug level.
type Tracer struct{}

// Visualize traces p.
func (Tracer) Visualize(p *clickgen.Plan) error {
	if p == nil {
		return ErrNoPlan
	}
	tracer().Infof("%s", p)
	if !p.IsEmpty() {
		tracer().Debugf("%s", p.Trajectory)
	}
	return nil
}

type multi []clickgen.Visualizer

// Multi creates a visualizer which calls all of vs in order. Errors of all
// visualizers are combined.
func Multi(vs ...clickgen.Visualizer) clickgen.Visualizer {
	return multi(vs)
}

func (m multi) Visualize(p *clickgen.Plan) error {
	var err error
	for _, v := range m {
		err = multierr.Append(err, v.Visualize(p))
	}
	return err
}

func samples(p *clickgen.Plan, step float64) ([]traj.State, error) {
	if !(step > 0) {
		step = DefaultStep
	}
	return p.Trajectory.Sample(step)
}
