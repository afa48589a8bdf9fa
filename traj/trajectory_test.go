package traj

import (
	"errors"
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/trajgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// minimum-jerk rest-to-rest quintic from 0 to 1 over T, scaled per axis
func restToRest(T float64, dx, dy, dz float64) [3][]float64 {
	c3, c4, c5 := 10/math.Pow(T, 3), -15/math.Pow(T, 4), 6/math.Pow(T, 5)
	return [3][]float64{
		{0, 0, 0, dx * c3, dx * c4, dx * c5},
		{0, 0, 0, dy * c3, dy * c4, dy * c5},
		{0, 0, 0, dz * c3, dz * c4, dz * c5},
	}
}

func shifted(c [3][]float64, x, y, z float64) [3][]float64 {
	c[0][0] += x
	c[1][0] += y
	c[2][0] += z
	return c
}

func testtrajectory(t *testing.T) *Trajectory {
	t.Helper()
	p0, err := NewPiece(2, restToRest(2, 1, 0, 0))
	require.NoError(t, err)
	p1, err := NewPiece(0.5, shifted(restToRest(0.5, 0, 1, 0), 1, 0, 0))
	require.NoError(t, err)
	p2, err := NewPiece(1.25, shifted(restToRest(1.25, 0, 0, 2), 1, 1, 0))
	require.NoError(t, err)
	return New(p0, p1, p2)
}

func TestNewPiece(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	_, err := NewPiece(0, restToRest(1, 1, 1, 1))
	assert.True(t, errors.Is(err, ErrInvalidPiece))
	_, err = NewPiece(math.NaN(), restToRest(1, 1, 1, 1))
	assert.True(t, errors.Is(err, ErrInvalidPiece))
	_, err = NewPiece(1, [3][]float64{{1}, {1}, {1}})
	assert.True(t, errors.Is(err, ErrInvalidPiece))
	c := restToRest(1, 1, 1, 1)
	c[2][4] = math.Inf(1)
	_, err = NewPiece(1, c)
	assert.True(t, errors.Is(err, ErrInvalidPiece))
}

func TestPieceEvaluation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := shifted(restToRest(2, 1, 2, 3), 5, 6, 7)
	p, err := NewPiece(2, c)
	require.NoError(t, err)
	// coefficient row 0 is the start position
	assert.Equal(t, trajgen.V(5, 6, 7), p.Position(0))
	assert.True(t, trajgen.VecEqual(trajgen.V(6, 8, 10), p.Position(2)))
	assert.True(t, trajgen.VecEqual(trajgen.Origin, p.Velocity(0)))
	assert.True(t, trajgen.VecEqual(trajgen.Origin, p.Velocity(2)))
	assert.True(t, trajgen.VecEqual(trajgen.Origin, p.Acceleration(2)))
	// peak velocity of the rest-to-rest quintic is 15/8 ⋅ d/T
	assert.InDelta(t, 15.0/8.0/2.0, p.Velocity(1).X, 1e-12)
	// jerk at t=0 is 6⋅c3
	assert.InDelta(t, 6*10/8.0, p.Jerk(0).X, 1e-12)
	// clamping
	assert.Equal(t, p.Position(0), p.Position(-1))
	assert.Equal(t, p.Position(2), p.Position(3))
	// coefficients are copies
	cx := p.Coefficients(0)
	cx[0] = 100
	assert.Equal(t, trajgen.V(5, 6, 7), p.Position(0))
}

func TestLocate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := testtrajectory(t)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 3.75, tr.TotalDuration())
	assert.Equal(t, []float64{2, 0.5, 1.25}, tr.Durations())
	cases := []struct {
		t     float64
		piece int
		local float64
	}{
		{0, 0, 0},
		{1, 0, 1},
		{2, 0, 2}, // border belongs to the earlier piece
		{2.25, 1, 0.25},
		{2.5, 1, 0.5},
		{3, 2, 0.5},
		{3.75, 2, 1.25}, // final time belongs to the last piece
	}
	for _, c := range cases {
		i, local, err := tr.Locate(c.t)
		require.NoError(t, err)
		assert.Equal(t, c.piece, i, "piece for t=%g", c.t)
		assert.Equal(t, c.local, local, "local time for t=%g", c.t)
		// round trip
		assert.Equal(t, c.t, tr.StartTime(i)+local)
	}
}

func TestLocateRoundTripUnevenDurations(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	var pieces []Piece
	for _, d := range []float64{0.1, 10, 2 * math.Sqrt2, 0.3} {
		p, err := NewPiece(d, restToRest(d, 1, 1, 0))
		require.NoError(t, err)
		pieces = append(pieces, p)
	}
	tr := New(pieces...)
	const n = 10000
	misses := 0
	for j := 0; j <= n; j++ {
		x := tr.TotalDuration() * float64(j) / n
		i, local, err := tr.Locate(x)
		require.NoError(t, err)
		assert.True(t, local >= 0 && local <= tr.Piece(i).Duration())
		if tr.StartTime(i)+local != x {
			misses++
		}
	}
	assert.Equal(t, 0, misses, "global times not reproduced from (piece, local time)")
}

func TestPiecesIsCopy(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := testtrajectory(t)
	ps := tr.Pieces()
	require.Len(t, ps, 3)
	assert.Equal(t, tr.Piece(1), ps[1])
	ps[0] = ps[2]
	assert.Equal(t, 2.0, tr.Piece(0).Duration())
}

func TestLocateOutOfRange(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := testtrajectory(t)
	for _, x := range []float64{-0.001, 3.7501, math.NaN(), math.Inf(1)} {
		_, _, err := tr.Locate(x)
		assert.True(t, errors.Is(err, ErrOutOfRange), "t=%g", x)
		_, err = tr.Position(x)
		assert.True(t, errors.Is(err, ErrOutOfRange), "t=%g", x)
	}
}

func TestEmptyTrajectory(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New()
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0.0, tr.TotalDuration())
	_, _, err := tr.Locate(0)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	states, err := tr.Sample(0.1)
	assert.NoError(t, err)
	assert.Empty(t, states)
	assert.Nil(t, tr.Junctions())
	assert.Equal(t, "<empty trajectory>", tr.String())
	var none *Trajectory
	assert.True(t, none.IsEmpty())
	assert.Equal(t, 0, none.Len())
}

func TestContinuityAtJunctions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := testtrajectory(t)
	pts := tr.Junctions()
	require.Len(t, pts, 4)
	assert.True(t, trajgen.VecEqual(trajgen.V(0, 0, 0), pts[0]))
	assert.True(t, trajgen.VecEqual(trajgen.V(1, 0, 0), pts[1]))
	assert.True(t, trajgen.VecEqual(trajgen.V(1, 1, 0), pts[2]))
	assert.True(t, trajgen.VecEqual(trajgen.V(1, 1, 2), pts[3]))
	for i := 0; i < tr.Len()-1; i++ {
		a, b := tr.Piece(i), tr.Piece(i+1)
		for k := Position; k <= Acceleration; k++ {
			assert.True(t, trajgen.VecEqual(a.Evaluate(k, a.Duration()), b.Evaluate(k, 0)),
				"derivative %d at junction %d", k, i)
		}
	}
}

func TestSample(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := testtrajectory(t)
	states, err := tr.Sample(0.5)
	require.NoError(t, err)
	require.Len(t, states, 9) // 0, 0.5, …, 3.5, 3.75
	assert.Equal(t, 0.0, states[0].Time)
	assert.Equal(t, 3.75, states[8].Time)
	assert.True(t, trajgen.VecEqual(trajgen.V(1, 1, 2), states[8].Position))
	_, err = tr.Sample(0)
	assert.Error(t, err)
	v, err := tr.MaxSpeed(0.01)
	require.NoError(t, err)
	// fastest piece: 1 unit in 0.5 s, peak 15/8 ⋅ 1/0.5
	assert.InDelta(t, 15.0/8.0/0.5, v, 1e-3)
}

func TestFromCoefficients(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := restToRest(2, 1, 0, 0)
	m := mat.NewDense(6, 3, nil)
	for a := 0; a < 3; a++ {
		for j := 0; j < 6; j++ {
			m.Set(j, a, c[a][j])
		}
	}
	tr, err := FromCoefficients([]float64{2}, m)
	require.NoError(t, err)
	pos, err := tr.Position(2)
	require.NoError(t, err)
	assert.True(t, trajgen.VecEqual(trajgen.V(1, 0, 0), pos))
	t.Logf("trajectory:\n%s", tr)

	_, err = FromCoefficients([]float64{2, 1}, m)
	assert.True(t, errors.Is(err, ErrCoefficientShape))
	_, err = FromCoefficients([]float64{-2}, m)
	assert.True(t, errors.Is(err, ErrInvalidPiece))
}

func TestAsString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := NewPiece(2, restToRest(2, 1, 0, 0))
	require.NoError(t, err)
	want := "[0] @0 T=2 x(t) = 1.25t^3 - 0.9375t^4 + 0.1875t^5, y(t) = 0, z(t) = 0\n" +
		"  .. end (1,0,0) after 2"
	assert.Equal(t, want, AsString(New(p)))
}
