package traj

import (
	"errors"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/golang/geo/r3"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/trajgen/polyn"
)

// tracer writes to trace with key 'trajgen'
func tracer() tracing.Trace {
	return tracing.Select("trajgen")
}

// Degree is the polynomial degree of every piece (quintic).
const Degree = 5

// NCoeffs is the number of coefficients per axis and piece.
const NCoeffs = Degree + 1

// Derivative orders understood by Evaluate.
const (
	Position     = 0
	Velocity     = 1
	Acceleration = 2
	Jerk         = 3
)

var (
	// ErrOutOfRange indicates a time query outside [0, total duration].
	ErrOutOfRange = errors.New("time out of range")
	// ErrInvalidPiece indicates a piece with non-positive duration or malformed coefficients.
	ErrInvalidPiece = errors.New("invalid piece")
	// ErrCoefficientShape indicates a coefficient matrix not matching the piece count.
	ErrCoefficientShape = errors.New("coefficient matrix has wrong shape")
)

// Piece is a single polynomial segment of a trajectory. It owns a duration
// and a quintic polynomial per spatial axis.
type Piece struct {
	duration float64
	axes     [3]polyn.Polynomial // x, y, z; ascending powers
}

// Trajectory is the concrete type for piecewise polynomial trajectories.
// It is immutable once constructed.
type Trajectory struct {
	pieces []Piece
	starts []float64    // start time of piece i
	ends   *treemap.Map // cumulative end time → piece index
	total  float64      // sum of durations
}

// State is the kinematic state of a trajectory at a global time.
type State struct {
	Time         float64
	Position     r3.Vector
	Velocity     r3.Vector
	Acceleration r3.Vector
}
