package traj

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
)

// AsString returns
// a trajectory as a (debugging) string. Every piece is printed on its own
// line, with global start time, duration and per-axis polynomials.
//
// Example, a single piece from (0,0,0) to (1,0,0) in 2 seconds:
//
//	[0] @0 T=2 x(t) = 1.25t^3 - 0.9375t^4 + 0.1875t^5, y(t) = 0, z(t) = 0
//	  .. end (1,0,0) after 2
func AsString(tr *Trajectory) string {
	if tr.IsEmpty() {
		return "<empty trajectory>"
	}
	var sb strings.Builder
	for i, p := range tr.pieces {
		sb.WriteString(fmt.Sprintf("[%d] @%.4g %s\n", i, tr.starts[i], p))
	}
	last := tr.pieces[len(tr.pieces)-1]
	sb.WriteString(fmt.Sprintf("  .. end %s after %.4g", ptstring(last.Position(last.duration)), tr.total))
	return sb.String()
}

func ptstring(v r3.Vector) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", round(v.X), round(v.Y), round(v.Z))
}

func round(x float64) float64 {
	if x >= 0 {
		return float64(int64(x*10000.0+0.5)) / 10000.0
	}
	return float64(int64(x*10000.0-0.5)) / 10000.0
}
