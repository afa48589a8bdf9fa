package minjerk

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/traj"
	"gonum.org/v1/gonum/mat"
)

// Method selects the linear solver.
type Method int

// Solve methods. Both produce the same equations; Banded is linear in the
// number of pieces, Dense is cubic.
const (
	Banded Method = iota
	Dense
)

func (m Method) String() string {
	switch m {
	case Banded:
		return "banded"
	case Dense:
		return "dense"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod converts a method name ("banded" or "dense") to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "banded", "band", "":
		return Banded, nil
	case "dense":
		return Dense, nil
	}
	return Banded, fmt.Errorf("unknown solve method %q", s)
}

// Solver computes minimum-jerk coefficients. The zero value uses the banded
// method.
type Solver struct {
	Method Method
}

// Solve validates p, builds the linear system and solves it. The result has
// 6⋅N rows and 3 columns (x, y, z); block i holds the ascending coefficients
// of piece i. Identical problems yield identical coefficients.
func (s Solver) Solve(p Problem) (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := traj.NCoeffs * p.PieceCount()
	tracer().Debugf("solving %d×%d minimum-jerk system (%s)", n, n, s.Method)
	var x *mat.Dense
	var err error
	switch s.Method {
	case Dense:
		a := mat.NewDense(n, n, nil)
		b := assemble(p, a.Set)
		x, err = solveDense(a, b)
	case Banded:
		a := newBandSystem(n)
		b := assemble(p, a.SetBand)
		x, err = solveBanded(a, b)
	default:
		return nil, fmt.Errorf("unknown solve method %s", s.Method)
	}
	if err != nil {
		tracer().Errorf("minimum-jerk solve failed: %v", err)
		return nil, err
	}
	if err := checkSolution(x); err != nil {
		tracer().Errorf("minimum-jerk solve failed: %v", err)
		return nil, err
	}
	return x, nil
}

// Trajectory solves p and builds the resulting trajectory.
func (s Solver) Trajectory(p Problem) (*traj.Trajectory, error) {
	c, err := s.Solve(p)
	if err != nil {
		return nil, err
	}
	return traj.FromCoefficients(p.Durations, c)
}

// Solve computes the coefficient matrix of a minimum-jerk trajectory with
// pieceCount pieces, using the banded method. interior must hold
// pieceCount−1 waypoints and durations pieceCount positive durations.
func Solve(pieceCount int, start, end Boundary, interior []r3.Vector,
	durations []float64) (*mat.Dense, error) {
	if pieceCount < 1 || len(durations) != pieceCount {
		return nil, fmt.Errorf("%w: piece count %d with %d durations",
			ErrInvalidWaypointCount, pieceCount, len(durations))
	}
	p := Problem{Start: start, End: end, Intermediate: interior, Durations: durations}
	return Solver{}.Solve(p)
}

func checkSolution(x *mat.Dense) error {
	r, c := x.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if !trajgen.IsFinite(x.At(i, j)) {
				return fmt.Errorf("%w: coefficient %d of axis %d is %g", ErrSingularSystem, i, j, x.At(i, j))
			}
		}
	}
	return nil
}
