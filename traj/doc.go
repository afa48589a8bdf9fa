/*
Package traj represents piecewise polynomial trajectories in 3D.

A trajectory is an ordered sequence of pieces sharing one temporal axis.
Each piece carries its own duration T and, per spatial axis, a quintic
polynomial in local time t ∈ [0,T]:

	p(t) = c.0 + c.1 t + c.2 t² + c.3 t³ + c.4 t⁴ + c.5 t⁵

Coefficients are always stored in ascending order of powers, the same
layout the solver in package minjerk produces (a 6×3 block per piece,
one column per axis).

Global time is mapped to (piece index, local time) by subtracting
cumulative durations. A time exactly on the border between two pieces
belongs to the earlier piece; the final time of the trajectory belongs to
the last piece, at its own duration.

Pieces and trajectories are immutable. A new motion plan means a new
Trajectory value; a trajectory without pieces is valid and stands for
"no motion plan yet".

# Evaluation policy

Evaluating a single piece clamps the local time to [0,T]. Evaluating a
trajectory at a global time outside [0, TotalDuration()] is a contract
violation and fails with ErrOutOfRange; there is no clamping at this level.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package traj
