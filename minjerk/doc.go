/*
Package minjerk computes minimum-jerk trajectories through a sequence of
waypoints.

Every piece i of the trajectory is a quintic per axis with six unknown
coefficients c.i.0 … c.i.5, so N pieces yield a square linear system of
size 6N. The equations are laid out in blocks of six rows:

	rows 0…2           start position, velocity, acceleration (piece 0 at t=0)
	row  6i+3          end of piece i hits interior waypoint i
	rows 6i+4…6i+8     position, velocity, acceleration, jerk and snap of
	                   piece i at its duration equal those of piece i+1 at 0
	rows 6N−3…6N−1     end position, velocity, acceleration (piece N−1 at T)

The three right-hand-side columns hold the x, y and z data; each column of
the solution yields the coefficients of one axis. Coefficient row 6i+j
multiplies t^j of piece i.

Every row couples at most the six unknowns of one piece and the first
unknowns of the next one, which makes the system banded with lower
bandwidth 4 and upper bandwidth 2. The default solver exploits this with a
band LU decomposition with partial pivoting, linear in N. A dense LU solve
(gonum) is available as a reference.

# Numerical sensitivity

The system contains powers of the segment durations up to T⁵ (and factors up
to 120). Very short or very long segments therefore make it ill-conditioned.
The solver does not clamp durations; a system that is singular to working
precision is reported as ErrSingularSystem, an ill-conditioned but solvable
one is traced and accepted.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package minjerk
