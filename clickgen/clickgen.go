/*
Package clickgen turns a stream of waypoints into minimum-jerk trajectories.

A Controller collects waypoints one at a time. Every accepted waypoint triggers
a complete re-solve over all waypoints collected so far, and the resulting
Plan is published: stored for concurrent readers (see Controller.Current) and
handed to an optional Visualizer. When a new waypoint would exceed the
configured maximum number of pieces, the controller forgets its history and
starts over with that waypoint as the only one.

Waypoints usually stem from 2D clicks; FromClick lifts a click into 3D.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package clickgen

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/traj"
)

// tracer writes to trace with key 'clickgen'
func tracer() tracing.Trace {
	return tracing.Select("clickgen")
}

// FromClick maps a 2D click with an orientation component oz to a waypoint.
// The height is |oz| scaled by height.
func FromClick(x, y, oz, height float64) r3.Vector {
	return trajgen.V(x, y, math.Abs(oz)*height)
}

// Plan is a published motion plan. Plans are never modified after
// publication.
type Plan struct {
	ID         uuid.UUID
	Revision   uint64           // increases with every publication of a controller
	Trajectory *traj.Trajectory // empty for fewer than 2 waypoints
	Waypoints  []r3.Vector
	Durations  []float64
}

// IsEmpty is a predicate: does this plan hold no motion yet?
func (p *Plan) IsEmpty() bool {
	return p == nil || p.Trajectory.IsEmpty()
}

func (p *Plan) String() string {
	if p == nil {
		return "<no plan>"
	}
	return fmt.Sprintf("plan #%d (%s): %d waypoints, %d pieces, %.4gs",
		p.Revision, p.ID, len(p.Waypoints), p.Trajectory.Len(), p.Trajectory.TotalDuration())
}

// Visualizer receives every published plan.
type Visualizer interface {
	Visualize(*Plan) error
}

// VisualizerFunc adapts a function to the Visualizer interface.
type VisualizerFunc func(*Plan) error

// Visualize calls f(p).
func (f VisualizerFunc) Visualize(p *Plan) error {
	return f(p)
}

// State of a controller.
type State int

// Controller states. A controller is Idle before the first waypoint and
// Collecting afterwards; there is no terminal state.
const (
	Idle State = iota
	Collecting
)

func (s State) String() string {
	if s == Idle {
		return "idle"
	}
	return "collecting"
}
