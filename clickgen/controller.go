package clickgen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/npillmayer/trajgen"
	"github.com/npillmayer/trajgen/alloc"
	"github.com/npillmayer/trajgen/config"
	"github.com/npillmayer/trajgen/minjerk"
	"github.com/npillmayer/trajgen/traj"
	"go.uber.org/atomic"
)

// Controller collects waypoints and re-plans on every new one.
//
// Ingest and Reset are serialized by the controller and may be called from
// several goroutines; Run feeds events from a channel through Ingest. Current
// may be called from any goroutine.
type Controller struct {
	mu        sync.Mutex // serializes ingestion
	maxPieces int
	allocator alloc.Allocator
	solver    minjerk.Solver
	start     minjerk.Boundary // position is set from the first waypoint
	end       minjerk.Boundary // position is set from the last waypoint
	waypoints []r3.Vector
	durations []float64
	revision  uint64
	current   atomic.Pointer[Plan]
	viz       Visualizer
	metrics   *Metrics
	onReject  func(r3.Vector, error)
}

// Option configures a controller.
type Option func(*Controller)

// WithVisualizer sets the receiver of published plans.
func WithVisualizer(v Visualizer) Option {
	return func(c *Controller) {
		c.viz = v
	}
}

// WithMetrics makes the controller record statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithRejectHandler sets a function called from Run for every rejected waypoint.
func WithRejectHandler(h func(p r3.Vector, err error)) Option {
	return func(c *Controller) {
		c.onReject = h
	}
}

// New creates an idle controller for a configuration.
func New(cfg config.Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a, err := alloc.New(cfg.AllocationSpeed, cfg.AllocationAcc)
	if err != nil {
		return nil, err
	}
	sv, sa, ev, ea := cfg.Boundaries()
	c := &Controller{
		maxPieces: cfg.MaxPieceNum,
		allocator: a,
		solver:    minjerk.Solver{Method: cfg.Method()},
		start:     minjerk.Boundary{Velocity: sv, Acceleration: sa},
		end:       minjerk.Boundary{Velocity: ev, Acceleration: ea},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	return c, nil
}

// Ingest processes a new waypoint.
//
// If the waypoint would create more pieces than configured, all previous
// waypoints are discarded and p becomes the new start. Otherwise p is
// appended and a trajectory through all waypoints is solved. Every accepted
// waypoint publishes a new plan.
//
// A waypoint too close to its predecessor is rejected with
// alloc.ErrDegenerateSegment; a failing solve with minjerk.ErrSingularSystem.
// In both cases the controller state and the current plan are left unchanged.
func (c *Controller) Ingest(p r3.Vector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !trajgen.VecIsFinite(p) {
		return c.reject(ReasonNonFinite, fmt.Errorf("%w: waypoint %s", trajgen.ErrNonFinite, trajgen.VecString(p)))
	}
	if len(c.waypoints) == 0 {
		tracer().Debugf("first waypoint %s", trajgen.VecString(p))
		c.waypoints = append(c.waypoints, p)
		c.publish(traj.New())
		return nil
	}
	if len(c.durations)+1 > c.maxPieces {
		tracer().Infof("more than %d pieces, restarting at %s", c.maxPieces, trajgen.VecString(p))
		c.waypoints = append(c.waypoints[:0], p)
		c.durations = c.durations[:0]
		c.metrics.Resets.Inc()
		c.publish(traj.New())
		return nil
	}
	last := c.waypoints[len(c.waypoints)-1]
	d, err := c.allocator.Duration(last, p)
	if err != nil {
		return c.reject(ReasonDegenerate, fmt.Errorf("waypoint %s: %w", trajgen.VecString(p), err))
	}
	c.waypoints = append(c.waypoints, p)
	c.durations = append(c.durations, d)
	tr, err := c.solve()
	if err != nil {
		c.waypoints = c.waypoints[:len(c.waypoints)-1]
		c.durations = c.durations[:len(c.durations)-1]
		reason := ReasonSingular
		if !errors.Is(err, minjerk.ErrSingularSystem) {
			reason = ReasonNonFinite
		}
		return c.reject(reason, err)
	}
	c.publish(tr)
	return nil
}

func (c *Controller) solve() (*traj.Trajectory, error) {
	began := time.Now()
	prob, err := minjerk.NewProblem(c.waypoints, c.durations, c.start.Velocity, c.start.Acceleration,
		c.end.Velocity, c.end.Acceleration)
	if err != nil {
		return nil, err
	}
	tr, err := c.solver.Trajectory(prob)
	if err != nil {
		return nil, err
	}
	c.metrics.SolveDuration.Observe(time.Since(began).Seconds())
	c.metrics.Solves.Inc()
	tracer().Debugf("solved %d pieces in %s", tr.Len(), time.Since(began))
	return tr, nil
}

func (c *Controller) reject(reason string, err error) error {
	tracer().Infof("rejected waypoint (%s): %v", reason, err)
	c.metrics.Rejected.WithLabelValues(reason).Inc()
	return err
}

// publish must be called with c.mu held.
func (c *Controller) publish(tr *traj.Trajectory) {
	c.revision++
	plan := &Plan{
		ID:         uuid.New(),
		Revision:   c.revision,
		Trajectory: tr,
		Waypoints:  append([]r3.Vector(nil), c.waypoints...),
		Durations:  append([]float64(nil), c.durations...),
	}
	c.current.Store(plan)
	c.metrics.Segments.Set(float64(tr.Len()))
	tracer().Debugf("published %s", plan)
	if c.viz == nil {
		return
	}
	if err := c.viz.Visualize(plan); err != nil {
		tracer().Errorf("visualizing plan #%d: %v", plan.Revision, err)
	}
}

// Current returns the most recently published plan, or nil if no waypoint
// has been accepted yet. Safe for concurrent use.
func (c *Controller) Current() *Plan {
	return c.current.Load()
}

// Waypoints returns a copy of the collected waypoints.
func (c *Controller) Waypoints() []r3.Vector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]r3.Vector(nil), c.waypoints...)
}

// Durations returns a copy of the allocated segment durations.
func (c *Controller) Durations() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]float64(nil), c.durations...)
}

// State returns Idle if no waypoint has been collected, Collecting otherwise.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waypoints) == 0 {
		return Idle
	}
	return Collecting
}

// Reset discards all waypoints and the current plan. The controller is Idle
// afterwards.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waypoints = nil
	c.durations = nil
	c.current.Store(nil)
	c.metrics.Segments.Set(0)
}

// Run ingests waypoints from ch until ch is closed or ctx is done. Rejected
// waypoints are passed to the reject handler and do not stop the loop.
// Returns ctx.Err() on cancellation and nil when ch is closed.
func (c *Controller) Run(ctx context.Context, ch <-chan r3.Vector) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-ch:
			if !ok {
				return nil
			}
			if err := c.Ingest(p); err != nil && c.onReject != nil {
				c.onReject(p, err)
			}
		}
	}
}
