/*
Package trajgen computes smooth reference trajectories through a sequence of
waypoints. The root package holds numeric predicates and 3D point helpers
shared by the sub-packages:

  - polyn:    univariate polynomials and their derivatives
  - traj:     piecewise quintic trajectories
  - alloc:    segment time allocation from kinematic limits
  - minjerk:  the minimum-jerk linear system and its solvers
  - config:   parameters of the waypoint controller
  - clickgen: incremental waypoint ingestion
  - viz:      renderers for published plans

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package trajgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'trajgen'
func tracer() tracing.Trace {
	return tracing.Select("trajgen")
}

// ErrNonFinite indicates a NaN or Inf value where a finite number is required.
var ErrNonFinite = errors.New("value is not finite")

// === Numeric Data Type =====================================================

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// IsFinite is a predicate: is n neither NaN nor ±Inf?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// CheckFinite returns an error wrapping ErrNonFinite for the first
// non-finite value in ns. what names the values for the error message.
func CheckFinite(what string, ns ...float64) error {
	for i, n := range ns {
		if !IsFinite(n) {
			return fmt.Errorf("%w: %s[%d] = %g", ErrNonFinite, what, i, n)
		}
	}
	return nil
}

// === 3D Points =============================================================

// Origin represents the frequently used constant (0,0,0).
var Origin = V(0, 0, 0)

// V is a quick notation for constructing a 3D vector from floats.
func V(x, y, z float64) r3.Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// VFromSlice converts a slice of exactly 3 floats into a vector.
func VFromSlice(s []float64) (r3.Vector, error) {
	if len(s) != 3 {
		return r3.Vector{}, fmt.Errorf("expected 3 components, got %d", len(s))
	}
	return V(s[0], s[1], s[2]), nil
}

// Axis returns component a (0=x, 1=y, 2=z) of v.
func Axis(v r3.Vector, a int) float64 {
	switch a {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	tracer().Errorf("axis index %d out of range", a)
	return math.NaN()
}

// Components returns the coordinates of v as an array.
func Components(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// VecIsFinite is a predicate: are all components of v finite?
func VecIsFinite(v r3.Vector) bool {
	return IsFinite(v.X) && IsFinite(v.Y) && IsFinite(v.Z)
}

// VecEqual compares two vectors component-wise within Epsilon.
func VecEqual(v, w r3.Vector) bool {
	return Is0(v.X-w.X) && Is0(v.Y-w.Y) && Is0(v.Z-w.Z)
}

// VecString is a pretty Stringer for vectors, shorter than r3's.
func VecString(v r3.Vector) string {
	return fmt.Sprintf("(%g,%g,%g)", v.X, v.Y, v.Z)
}
