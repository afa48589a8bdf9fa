package minjerk

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// solveDense solves a⋅x = b with gonum's LU decomposition. A condition number
// of +Inf (singular to working precision) fails with ErrSingularSystem; a
// large but finite one is traced and the solution is kept.
func solveDense(a *mat.Dense, b mat.Matrix) (*mat.Dense, error) {
	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) || math.IsNaN(float64(cond)) {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
		tracer().Infof("ill-conditioned system, condition number %g", float64(cond))
	}
	return &x, nil
}
