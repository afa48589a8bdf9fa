package minjerk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// newBandSystem allocates an n×n band matrix for the minimum-jerk system.
// Row exchanges during pivoting widen the upper band of U by up to lowerBand
// columns, so that room is reserved from the start. Bandwidths are capped at
// n−1, as a band cannot reach beyond the last column.
func newBandSystem(n int) *mat.BandDense {
	kl := min(lowerBand, n-1)
	ku := min(upperBand+lowerBand, n-1)
	return mat.NewBandDense(n, n, kl, ku, nil)
}

// solveBanded solves a⋅x = b by Gaussian elimination with partial pivoting,
// restricted to the band of a. a is overwritten by U. Fails with
// ErrSingularSystem if a pivot is exactly zero or not finite.
func solveBanded(a *mat.BandDense, b mat.Matrix) (*mat.Dense, error) {
	n, _ := a.Dims()
	kl, ku := a.Bandwidth()
	_, nrhs := b.Dims()
	x := mat.DenseCopyOf(b)
	for k := 0; k < n; k++ {
		last := min(n-1, k+kl)
		right := min(n-1, k+ku)
		p, pmax := k, math.Abs(a.At(k, k))
		for r := k + 1; r <= last; r++ {
			if v := math.Abs(a.At(r, k)); v > pmax {
				p, pmax = r, v
			}
		}
		if pmax == 0 || math.IsNaN(pmax) || math.IsInf(pmax, 0) {
			return nil, fmt.Errorf("%w: no usable pivot in column %d", ErrSingularSystem, k)
		}
		if p != k {
			for c := k; c <= right; c++ {
				vk, vp := a.At(k, c), a.At(p, c)
				a.SetBand(k, c, vp)
				a.SetBand(p, c, vk)
			}
			for j := 0; j < nrhs; j++ {
				vk, vp := x.At(k, j), x.At(p, j)
				x.Set(k, j, vp)
				x.Set(p, j, vk)
			}
		}
		pivot := a.At(k, k)
		for r := k + 1; r <= last; r++ {
			f := a.At(r, k) / pivot
			if f == 0 {
				continue
			}
			a.SetBand(r, k, 0)
			for c := k + 1; c <= right; c++ {
				a.SetBand(r, c, a.At(r, c)-f*a.At(k, c))
			}
			for j := 0; j < nrhs; j++ {
				x.Set(r, j, x.At(r, j)-f*x.At(k, j))
			}
		}
	}
	for k := n - 1; k >= 0; k-- { // back substitution
		right := min(n-1, k+ku)
		for j := 0; j < nrhs; j++ {
			s := x.At(k, j)
			for c := k + 1; c <= right; c++ {
				s -= a.At(k, c) * x.At(c, j)
			}
			x.Set(k, j, s/a.At(k, k))
		}
	}
	return x, nil
}
