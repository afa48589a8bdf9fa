package traj

import (
	"fmt"
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// New creates a trajectory from a sequence of pieces. Calling it without
// arguments yields the empty trajectory.
func New(pieces ...Piece) *Trajectory {
	tr := &Trajectory{
		pieces: make([]Piece, len(pieces)),
		starts: make([]float64, len(pieces)),
		ends:   treemap.NewWith(utils.Float64Comparator),
	}
	copy(tr.pieces, pieces)
	acc := 0.0
	for i, p := range tr.pieces {
		tr.starts[i] = acc
		acc += p.duration
		tr.ends.Put(acc, i)
	}
	tr.total = acc
	return tr
}

// FromCoefficients creates a trajectory from a coefficient matrix of
// 6·N rows and 3 columns, as produced by the minimum-jerk solver. Block i
// (rows 6i…6i+5) holds the ascending coefficients of piece i, one column per
// axis. durations must hold N positive durations.
func FromCoefficients(durations []float64, c mat.Matrix) (*Trajectory, error) {
	r, cols := c.Dims()
	if r != NCoeffs*len(durations) || cols != 3 {
		return nil, fmt.Errorf("%w: %d×%d for %d pieces, want %d×3",
			ErrCoefficientShape, r, cols, len(durations), NCoeffs*len(durations))
	}
	pieces := make([]Piece, len(durations))
	for i, d := range durations {
		var coeffs [3][]float64
		for a := 0; a < 3; a++ {
			coeffs[a] = make([]float64, NCoeffs)
			for j := 0; j < NCoeffs; j++ {
				coeffs[a][j] = c.At(NCoeffs*i+j, a)
			}
		}
		p, err := NewPiece(d, coeffs)
		if err != nil {
			return nil, fmt.Errorf("piece %d: %w", i, err)
		}
		pieces[i] = p
	}
	return New(pieces...), nil
}

// Len returns the number of pieces.
func (tr *Trajectory) Len() int {
	if tr == nil {
		return 0
	}
	return len(tr.pieces)
}

// IsEmpty is a predicate: does this trajectory hold no pieces?
func (tr *Trajectory) IsEmpty() bool {
	return tr == nil || len(tr.pieces) == 0
}

// Piece returns piece #i.
func (tr *Trajectory) Piece(i int) Piece {
	return tr.pieces[i]
}

// Pieces returns a copy of the piece sequence.
func (tr *Trajectory) Pieces() []Piece {
	p := make([]Piece, len(tr.pieces))
	copy(p, tr.pieces)
	return p
}

// Durations returns the durations of all pieces, in order.
func (tr *Trajectory) Durations() []float64 {
	d := make([]float64, len(tr.pieces))
	for i, p := range tr.pieces {
		d[i] = p.duration
	}
	return d
}

// TotalDuration returns the sum of all piece durations.
func (tr *Trajectory) TotalDuration() float64 {
	if tr == nil {
		return 0
	}
	return tr.total
}

// StartTime returns the global time at which piece #i starts.
func (tr *Trajectory) StartTime(i int) float64 {
	return tr.starts[i]
}

// Locate maps a global time to the owning piece and the local time within
// it. Times on a border between two pieces resolve to the earlier piece.
// Returns ErrOutOfRange for t outside [0, TotalDuration()] and for every t
// if the trajectory is empty.
func (tr *Trajectory) Locate(t float64) (int, float64, error) {
	if tr.IsEmpty() {
		return -1, 0, fmt.Errorf("%w: trajectory has no pieces", ErrOutOfRange)
	}
	if math.IsNaN(t) || t < 0 || t > tr.total {
		return -1, 0, fmt.Errorf("%w: %g not in [0,%g]", ErrOutOfRange, t, tr.total)
	}
	_, v := tr.ends.Ceiling(t)
	if v == nil { // cannot happen for t <= total
		return -1, 0, fmt.Errorf("%w: no piece ends after %g", ErrOutOfRange, t)
	}
	i := v.(int)
	return i, tr.localTime(i, t), nil
}

// localTime returns the offset of t from the start of piece i, adjusted so that
// StartTime(i)+local reproduces t exactly whenever a float64 allows it.
func (tr *Trajectory) localTime(i int, t float64) float64 {
	start, d := tr.starts[i], tr.pieces[i].duration
	local := math.Max(0, math.Min(t-start, d))
	for n := 0; n < 64 && start+local != t; n++ {
		if start+local < t {
			if local >= d {
				break
			}
			local = math.Min(math.Nextafter(local, math.Inf(1)), d)
		} else {
			if local <= 0 {
				break
			}
			local = math.Max(math.Nextafter(local, math.Inf(-1)), 0)
		}
	}
	return local
}

// Evaluate returns the k-th derivative of the trajectory at global time t.
func (tr *Trajectory) Evaluate(k int, t float64) (r3.Vector, error) {
	i, local, err := tr.Locate(t)
	if err != nil {
		return r3.Vector{}, err
	}
	return tr.pieces[i].Evaluate(k, local), nil
}

// Position at global time t.
func (tr *Trajectory) Position(t float64) (r3.Vector, error) {
	return tr.Evaluate(Position, t)
}

// Velocity at global time t.
func (tr *Trajectory) Velocity(t float64) (r3.Vector, error) {
	return tr.Evaluate(Velocity, t)
}

// Acceleration at global time t.
func (tr *Trajectory) Acceleration(t float64) (r3.Vector, error) {
	return tr.Evaluate(Acceleration, t)
}

// Jerk at global time t.
func (tr *Trajectory) Jerk(t float64) (r3.Vector, error) {
	return tr.Evaluate(Jerk, t)
}

// Junctions returns the start position of every piece plus the end position
// of the last one, i.e. the waypoints the trajectory passes through.
func (tr *Trajectory) Junctions() []r3.Vector {
	if tr.IsEmpty() {
		return nil
	}
	pts := make([]r3.Vector, 0, len(tr.pieces)+1)
	for _, p := range tr.pieces {
		pts = append(pts, p.Position(0))
	}
	last := tr.pieces[len(tr.pieces)-1]
	return append(pts, last.Position(last.duration))
}

// Sample evaluates the trajectory at 0, dt, 2dt, … and at its final time.
// An empty trajectory yields no samples.
func (tr *Trajectory) Sample(dt float64) ([]State, error) {
	if !(dt > 0) {
		return nil, fmt.Errorf("sample step must be positive, is %g", dt)
	}
	if tr.IsEmpty() {
		return nil, nil
	}
	n := int(math.Floor(tr.total / dt))
	states := make([]State, 0, n+2)
	for j := 0; j <= n; j++ {
		t := float64(j) * dt
		if t >= tr.total {
			break
		}
		states = append(states, tr.stateAt(t))
	}
	return append(states, tr.stateAt(tr.total)), nil
}

// MaxSpeed returns the largest speed found when sampling with step dt.
func (tr *Trajectory) MaxSpeed(dt float64) (float64, error) {
	states, err := tr.Sample(dt)
	if err != nil {
		return 0, err
	}
	top := 0.0
	for _, s := range states {
		top = math.Max(top, s.Velocity.Norm())
	}
	return top, nil
}

func (tr *Trajectory) stateAt(t float64) State {
	i, local, err := tr.Locate(t)
	if err != nil {
		tracer().Errorf("sampling trajectory: %v", err)
		return State{Time: t}
	}
	p := tr.pieces[i]
	return State{
		Time:         t,
		Position:     p.Position(local),
		Velocity:     p.Velocity(local),
		Acceleration: p.Acceleration(local),
	}
}

// String returns a trajectory as a (debugging) string, one line per piece.
func (tr *Trajectory) String() string {
	return AsString(tr)
}
