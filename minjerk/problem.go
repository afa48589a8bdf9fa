package minjerk

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/alloc"
)

// tracer writes to trace with key 'trajgen'
func tracer() tracing.Trace {
	return tracing.Select("trajgen")
}

var (
	// ErrInvalidWaypointCount indicates too few waypoints, or interior waypoints
	// and durations not matching the piece count.
	ErrInvalidWaypointCount = errors.New("invalid waypoint count")
	// ErrDegenerateSegment indicates a non-positive or non-finite segment duration.
	ErrDegenerateSegment = alloc.ErrDegenerateSegment
	// ErrSingularSystem indicates a linear system which is not invertible.
	ErrSingularSystem = errors.New("singular linear system")
)

// Boundary holds the kinematic state prescribed at one end of a trajectory.
type Boundary struct {
	Position     r3.Vector
	Velocity     r3.Vector
	Acceleration r3.Vector
}

// At creates a boundary at position p, with velocity and acceleration 0.
func At(p r3.Vector) Boundary {
	return Boundary{Position: p}
}

// Problem is the input of a minimum-jerk solve: boundary conditions at both
// ends, the waypoints between the pieces and a duration per piece.
type Problem struct {
	Start        Boundary
	End          Boundary
	Intermediate []r3.Vector // N−1 interior waypoints
	Durations    []float64   // N durations, all > 0
}

// NewProblem assembles a problem from a full waypoint sequence (start, interior
// waypoints, end), one duration per segment and the boundary velocities and
// accelerations. Fails with ErrInvalidWaypointCount for less than 2 waypoints.
func NewProblem(waypoints []r3.Vector, durations []float64, startVel, startAcc,
	endVel, endAcc r3.Vector) (Problem, error) {
	if len(waypoints) < 2 {
		return Problem{}, fmt.Errorf("%w: need at least 2 waypoints, have %d",
			ErrInvalidWaypointCount, len(waypoints))
	}
	n := len(waypoints)
	p := Problem{
		Start:        Boundary{Position: waypoints[0], Velocity: startVel, Acceleration: startAcc},
		End:          Boundary{Position: waypoints[n-1], Velocity: endVel, Acceleration: endAcc},
		Intermediate: append([]r3.Vector(nil), waypoints[1:n-1]...),
		Durations:    append([]float64(nil), durations...),
	}
	return p, p.Validate()
}

// PieceCount returns the number of trajectory pieces, i.e. the number of durations.
func (p Problem) PieceCount() int {
	return len(p.Durations)
}

// Validate checks counts, durations and finiteness of all inputs.
func (p Problem) Validate() error {
	n := p.PieceCount()
	if n < 1 {
		return fmt.Errorf("%w: need at least 1 piece", ErrInvalidWaypointCount)
	}
	if len(p.Intermediate) != n-1 {
		return fmt.Errorf("%w: %d pieces need %d interior waypoints, have %d",
			ErrInvalidWaypointCount, n, n-1, len(p.Intermediate))
	}
	for i, d := range p.Durations {
		if !trajgen.IsFinite(d) || d <= 0 {
			return fmt.Errorf("%w: duration of piece %d is %g", ErrDegenerateSegment, i, d)
		}
	}
	for _, b := range []Boundary{p.Start, p.End} {
		for _, v := range []r3.Vector{b.Position, b.Velocity, b.Acceleration} {
			c := trajgen.Components(v)
			if err := trajgen.CheckFinite("boundary", c[:]...); err != nil {
				return err
			}
		}
	}
	for i, w := range p.Intermediate {
		if !trajgen.VecIsFinite(w) {
			return fmt.Errorf("%w: interior waypoint %d = %s", trajgen.ErrNonFinite, i, trajgen.VecString(w))
		}
	}
	return nil
}
