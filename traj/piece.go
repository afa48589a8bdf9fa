package traj

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/polyn"
)

// NewPiece creates a piece of the given duration from per-axis coefficients
// (x, y, z), each in ascending order of powers and of length NCoeffs.
// The coefficients are copied.
func NewPiece(duration float64, coeffs [3][]float64) (Piece, error) {
	if !trajgen.IsFinite(duration) || duration <= 0 {
		return Piece{}, fmt.Errorf("%w: duration %g must be positive", ErrInvalidPiece, duration)
	}
	var p Piece
	p.duration = duration
	for a := 0; a < 3; a++ {
		if len(coeffs[a]) != NCoeffs {
			return Piece{}, fmt.Errorf("%w: axis %d has %d coefficients, want %d",
				ErrInvalidPiece, a, len(coeffs[a]), NCoeffs)
		}
		if err := trajgen.CheckFinite("coefficient", coeffs[a]...); err != nil {
			return Piece{}, fmt.Errorf("%w: axis %d: %v", ErrInvalidPiece, a, err)
		}
		p.axes[a] = polyn.New(coeffs[a]...)
	}
	return p, nil
}

// Duration returns the length of the piece in time.
func (p Piece) Duration() float64 {
	return p.duration
}

// Coefficients returns a copy of the polynomial for axis a (0=x, 1=y, 2=z).
func (p Piece) Coefficients(a int) polyn.Polynomial {
	return polyn.New(p.axes[a]...)
}

// Evaluate returns the k-th derivative (0 = position, 1 = velocity, …) of the
// piece at local time t. t is clamped to [0, Duration()].
func (p Piece) Evaluate(k int, t float64) r3.Vector {
	t = p.clamp(t)
	return r3.Vector{
		X: p.axes[0].EvalDerivative(k, t),
		Y: p.axes[1].EvalDerivative(k, t),
		Z: p.axes[2].EvalDerivative(k, t),
	}
}

// Position of the piece at local time t.
func (p Piece) Position(t float64) r3.Vector {
	return p.Evaluate(Position, t)
}

// Velocity of the piece at local time t.
func (p Piece) Velocity(t float64) r3.Vector {
	return p.Evaluate(Velocity, t)
}

// Acceleration of the piece at local time t.
func (p Piece) Acceleration(t float64) r3.Vector {
	return p.Evaluate(Acceleration, t)
}

// Jerk of the piece at local time t.
func (p Piece) Jerk(t float64) r3.Vector {
	return p.Evaluate(Jerk, t)
}

func (p Piece) clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	return math.Min(t, p.duration)
}

func (p Piece) String() string {
	return fmt.Sprintf("T=%.4g x(t) = %s, y(t) = %s, z(t) = %s",
		p.duration, p.axes[0], p.axes[1], p.axes[2])
}
