// Package alloc allocates time durations to trajectory segments.
//
// The heuristic assumes the agent starts and stops at rest on every segment
// and follows a trapezoidal velocity profile: accelerate with the maximum
// acceleration, cruise at maximum speed, decelerate symmetrically. Short
// segments never reach cruise speed and degrade to a triangular profile.
package alloc

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen"
)

// tracer writes to trace with key 'trajgen'
func tracer() tracing.Trace {
	return tracing.Select("trajgen")
}

var (
	// ErrInvalidLimits indicates a non-positive or non-finite speed or acceleration limit.
	ErrInvalidLimits = errors.New("kinematic limits must be positive and finite")
	// ErrDegenerateSegment indicates a segment with zero (or invalid) duration,
	// e.g. two consecutive waypoints at the same position.
	ErrDegenerateSegment = errors.New("degenerate segment")
)

// TrapezoidTime returns the time needed to travel distance dist, starting and
// ending at rest, with speed limited to vel and acceleration limited to acc.
//
// With tRamp = vel/acc and dRamp = ½⋅acc⋅tRamp²:
//
//	dist < 2⋅dRamp:  2⋅√(dist/acc)                    (triangular)
//	otherwise:       2⋅tRamp + (dist − 2⋅dRamp)/vel    (trapezoidal)
//
// A distance of 0 yields 0, which callers must not accept as a duration.
func TrapezoidTime(dist, vel, acc float64) float64 {
	t := vel / acc
	d := 0.5 * acc * t * t
	if dist < d+d {
		return 2.0 * math.Sqrt(dist/acc)
	}
	return 2.0*t + (dist-2.0*d)/vel
}

// Allocator holds the kinematic limits used for time allocation.
type Allocator struct {
	MaxSpeed float64
	MaxAccel float64
}

// New creates an allocator, checking the limits.
func New(maxSpeed, maxAccel float64) (Allocator, error) {
	a := Allocator{MaxSpeed: maxSpeed, MaxAccel: maxAccel}
	if err := a.Validate(); err != nil {
		return Allocator{}, err
	}
	return a, nil
}

// Validate checks that both limits are positive and finite.
func (a Allocator) Validate() error {
	if !trajgen.IsFinite(a.MaxSpeed) || a.MaxSpeed <= 0 {
		return fmt.Errorf("%w: speed = %g", ErrInvalidLimits, a.MaxSpeed)
	}
	if !trajgen.IsFinite(a.MaxAccel) || a.MaxAccel <= 0 {
		return fmt.Errorf("%w: acceleration = %g", ErrInvalidLimits, a.MaxAccel)
	}
	return nil
}

// Time returns the duration allocated to a segment of length dist.
// Non-positive or non-finite results are reported as ErrDegenerateSegment.
func (a Allocator) Time(dist float64) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if !trajgen.IsFinite(dist) {
		return 0, fmt.Errorf("%w: distance = %g", ErrDegenerateSegment, dist)
	}
	t := TrapezoidTime(dist, a.MaxSpeed, a.MaxAccel)
	if !trajgen.IsFinite(t) || t <= 0 {
		return 0, fmt.Errorf("%w: distance %g yields duration %g", ErrDegenerateSegment, dist, t)
	}
	tracer().Debugf("allocated %.4g for distance %.4g", t, dist)
	return t, nil
}

// Duration returns the duration allocated to the segment between two waypoints,
// using their Euclidean distance.
func (a Allocator) Duration(from, to r3.Vector) (float64, error) {
	return a.Time(to.Sub(from).Norm())
}

// Durations allocates time to every segment of a polyline. The result has one
// entry less than points. Fails on the first degenerate segment.
func (a Allocator) Durations(points []r3.Vector) ([]float64, error) {
	if len(points) < 2 {
		return nil, nil
	}
	ts := make([]float64, len(points)-1)
	for i := 1; i < len(points); i++ {
		t, err := a.Duration(points[i-1], points[i])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i-1, err)
		}
		ts[i-1] = t
	}
	return ts, nil
}
