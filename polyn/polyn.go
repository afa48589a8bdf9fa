// Package polyn is for arithmetic with univariate polynomials in time and their
// derivatives.
/*
BSD 3-Clause License

Copyright (c) 2017–21, Norbert Pillmayer.

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
   contributors may be used to endorse or promote products derived from
   this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package polyn

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/trajgen"
)

// Polynomial is a type for polynomials in one variable
//
//	c.0 + c.1 t + c.2 t^2 + ... + c.n t^n .
//
// We store the coefficients only, in ascending order of powers:
// index i holds the coefficient of t^i.
type Polynomial []float64

// New creates a polynomial from coefficients given in ascending order.
// The coefficients are copied.
//
// Use it as
//
//	polyn.New(8, 0, 2)
//
// to get
//
//	P(t) = 8 + 2t²
func New(c ...float64) Polynomial {
	p := make(Polynomial, len(c))
	copy(p, c)
	return p
}

// Degree returns the formal degree of p, i.e. len(p)-1. Leading zero
// coefficients are not stripped. The empty polynomial has degree -1.
func (p Polynomial) Degree() int {
	return len(p) - 1
}

// Coeff gets the coefficient for term t^i, 0 if p has no such term.
func (p Polynomial) Coeff(i int) float64 {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[i]
}

// Eval evaluates p at t (Horner's scheme).
func (p Polynomial) Eval(t float64) float64 {
	v := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		v = v*t + p[i]
	}
	return v
}

// EvalDerivative evaluates the k-th derivative of p at t without
// constructing the derived polynomial. k = 0 is the same as Eval.
// Derivatives of an order higher than the degree are 0.
func (p Polynomial) EvalDerivative(k int, t float64) float64 {
	if k < 0 {
		panic(fmt.Sprintf("negative derivative order %d", k))
	}
	v := 0.0
	for i := len(p) - 1; i >= k; i-- {
		v = v*t + FallingFactorial(i, k)*p[i]
	}
	return v
}

// Derivative returns the k-th derivative of p as a new polynomial.
func (p Polynomial) Derivative(k int) Polynomial {
	if k < 0 {
		panic(fmt.Sprintf("negative derivative order %d", k))
	}
	if k >= len(p) {
		return Polynomial{0}
	}
	d := make(Polynomial, len(p)-k)
	for i := k; i < len(p); i++ {
		d[i-k] = FallingFactorial(i, k) * p[i]
	}
	return d
}

// FallingFactorial returns n⋅(n−1)⋅…⋅(n−k+1), the factor a term t^n picks up
// by k-fold differentiation. It is 0 for k > n and 1 for k = 0.
func FallingFactorial(n, k int) float64 {
	if k > n {
		return 0
	}
	f := 1.0
	for j := 0; j < k; j++ {
		f *= float64(n - j)
	}
	return f
}

// BasisRow returns the row vector b of length degree+1 for which
//
//	b ⋅ (c.0, …, c.degree) = d^k/dt^k (c.0 + c.1 t + … + c.degree t^degree)
//
// i.e. b[i] = FallingFactorial(i,k) ⋅ t^(i−k) for i ≥ k, 0 otherwise.
// Linear systems over polynomial coefficients are assembled from these rows.
func BasisRow(degree, k int, t float64) []float64 {
	b := make([]float64, degree+1)
	pow := 1.0
	for i := k; i <= degree; i++ {
		b[i] = FallingFactorial(i, k) * pow
		pow *= t
	}
	return b
}

// Zap eliminates near-zero coefficients (see trajgen.Zap). Returns a new polynomial.
func (p Polynomial) Zap() Polynomial {
	z := make(Polynomial, len(p))
	for i, c := range p {
		z[i] = trajgen.Zap(c)
	}
	return z
}

// IsConstant checks whether
// a Polynomial is a constant, i.e. p = { c }? Returns the constant and a flag.
func (p Polynomial) IsConstant() (float64, bool) {
	for i := 1; i < len(p); i++ {
		if !trajgen.Is0(p[i]) {
			return p.Coeff(0), false
		}
	}
	return p.Coeff(0), true
}

// Equal compares two polynomials coefficient-wise within trajgen.Epsilon.
// Missing coefficients count as 0.
func (p Polynomial) Equal(q Polynomial) bool {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if !trajgen.Is0(p.Coeff(i) - q.Coeff(i)) {
			return false
		}
	}
	return true
}

// String creates a readable string representation for a Polynomial.
// Coefficients are printed with 6 significant digits, zero terms are omitted.
//
// Example:
//
//	P(t) = 1 - 3t + 0.5t^4
func (p Polynomial) String() string {
	var buffer bytes.Buffer
	first := true
	for i, c := range p {
		if trajgen.Is0(c) {
			continue
		}
		if first {
			if c < 0 {
				buffer.WriteString("-")
			}
			first = false
		} else if c < 0 {
			buffer.WriteString(" - ")
		} else {
			buffer.WriteString(" + ")
		}
		a := c
		if a < 0 {
			a = -a
		}
		if i == 0 || !trajgen.Is1(a) {
			buffer.WriteString(fmt.Sprintf("%.6g", a))
		}
		switch i {
		case 0:
		case 1:
			buffer.WriteString("t")
		default:
			buffer.WriteString(fmt.Sprintf("t^%d", i))
		}
	}
	if first {
		return "0"
	}
	return buffer.String()
}
