package minjerk

import (
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/polyn"
	"github.com/npillmayer/trajgen/traj"
	"gonum.org/v1/gonum/mat"
)

// Bandwidths of the system matrix, see package documentation.
const (
	lowerBand = 4
	upperBand = 2
)

// Highest derivative order matched across a junction (snap). Together with the
// position pin this gives six equations per junction.
const continuityOrder = 4

// setEntry stores a non-zero matrix entry. Implemented by (*mat.Dense).Set and
// (*mat.BandDense).SetBand.
type setEntry func(i, j int, v float64)

// assemble writes all equations of p into a system matrix via set and returns
// the right-hand side, one column per axis. Only non-zero entries are set,
// so a band matrix with bandwidths (lowerBand, upperBand) or wider suffices.
func assemble(p Problem, set setEntry) *mat.Dense {
	n := p.PieceCount()
	b := mat.NewDense(traj.NCoeffs*n, 3, nil)
	row := 0
	// start p, v, a
	for k, v := range [][3]float64{
		trajgen.Components(p.Start.Position),
		trajgen.Components(p.Start.Velocity),
		trajgen.Components(p.Start.Acceleration),
	} {
		putBasis(set, row, 0, k, 0, 1)
		b.SetRow(row, v[:])
		row++
	}
	for i := 0; i < n-1; i++ {
		T := p.Durations[i]
		// pin end of piece i to interior waypoint i
		putBasis(set, row, i, 0, T, 1)
		w := trajgen.Components(p.Intermediate[i])
		b.SetRow(row, w[:])
		row++
		// continuity of derivatives 0…4 between piece i at T and piece i+1 at 0
		for k := 0; k <= continuityOrder; k++ {
			putBasis(set, row, i, k, T, 1)
			putBasis(set, row, i+1, k, 0, -1)
			row++
		}
	}
	T := p.Durations[n-1]
	for k, v := range [][3]float64{
		trajgen.Components(p.End.Position),
		trajgen.Components(p.End.Velocity),
		trajgen.Components(p.End.Acceleration),
	} {
		putBasis(set, row, n-1, k, T, 1)
		b.SetRow(row, v[:])
		row++
	}
	tracer().Debugf("assembled %d equations for %d pieces", row, n)
	return b
}

// putBasis writes sign ⋅ (k-th derivative basis of piece at local time t) into row.
func putBasis(set setEntry, row, piece, k int, t, sign float64) {
	for j, v := range polyn.BasisRow(traj.Degree, k, t) {
		if v != 0 {
			set(row, traj.NCoeffs*piece+j, sign*v)
		}
	}
}
