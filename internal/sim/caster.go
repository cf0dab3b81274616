// Package sim owns in-flight projectile state. A fixed pool of workers steps
// projectiles in parallel each tick; dispatch and impact delivery stay on the
// hub goroutine, so only the sweep itself runs concurrently.
package sim

import (
	"fmt"
	"sync"
	"time"

	"turf-war/server/internal/physics"
	"turf-war/server/internal/telemetry"
	"turf-war/server/internal/workqueue"
	"turf-war/server/internal/world"
	"turf-war/server/logging"
)

// Raycaster sweeps a straight segment against world geometry.
type Raycaster interface {
	CastSegment(from, to physics.Vec3, filter world.Filter) (world.Hit, bool)
}

// Config tunes the worker pool.
type Config struct {
	// Workers is the parallel pool size.
	Workers int `json:"workers" jsonschema:"description=Parallel sweep worker count"`
	// Backlog caps per-worker in-flight projectiles. Overflow drops the
	// oldest projectile rather than growing without bound.
	Backlog int `json:"backlog" jsonschema:"description=Per-worker in-flight projectile cap"`
	// BudgetScale is the fraction of remaining frame time a sweep may spend.
	BudgetScale float64 `json:"budgetScale" jsonschema:"description=Fraction of remaining frame time a sweep may spend"`
}

// DefaultConfig matches the production pool.
func DefaultConfig() Config {
	return Config{Workers: 8, Backlog: 256, BudgetScale: 0.5}
}

// CastRequest describes one projectile to launch.
type CastRequest struct {
	Caster   string
	Origin   physics.Vec3
	Velocity physics.Vec3
	Gravity  physics.Vec3
	Lifetime time.Duration
	Filter   world.Filter
	// OnImpact fires on the hub goroutine after the parallel sweep rejoins.
	OnImpact func(Impact)
}

// Impact reports a projectile ending its flight against geometry.
type Impact struct {
	Caster   string
	Hit      world.Hit
	Velocity physics.Vec3
	At       time.Time
}

type projectile struct {
	caster     string
	position   physics.Vec3
	velocity   physics.Vec3
	gravity    physics.Vec3
	startedAt  time.Time
	lastUpdate time.Time
	lifetime   time.Duration
	filter     world.Filter
	onImpact   func(Impact)
}

type impactRecord struct {
	impact   Impact
	onImpact func(Impact)
}

type worker struct {
	id         int
	tasks      int
	inFlight   []*projectile
	results    []impactRecord
	completed  int
	deferred   int
	oldestDrop int
}

// Load implements workqueue.Handle. Task counters are only touched from the
// dispatch path and the post-sweep cleanup, both on the hub goroutine.
func (w *worker) Load() int { return w.tasks }

// Caster routes projectile casts to the least-loaded worker and drives the
// per-tick parallel sweep.
type Caster struct {
	cfg     Config
	clock   logging.Clock
	ray     Raycaster
	logger  telemetry.Logger
	queue   *workqueue.Queue
	workers []*worker

	castsTotal   uint64
	droppedCasts uint64
	deferredLast int
}

// NewCaster builds the worker pool. An unusable pool configuration is a hard
// startup error: the engine cannot run without workers.
func NewCaster(cfg Config, ray Raycaster, clock logging.Clock, logger telemetry.Logger) (*Caster, error) {
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("sim: worker pool size %d is not usable", cfg.Workers)
	}
	if ray == nil {
		return nil, fmt.Errorf("sim: raycaster is required")
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = DefaultConfig().Backlog
	}
	if cfg.BudgetScale <= 0 || cfg.BudgetScale > 1 {
		cfg.BudgetScale = DefaultConfig().BudgetScale
	}
	if clock == nil {
		clock = logging.SystemClock{}
	}
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	c := &Caster{
		cfg:    cfg,
		clock:  clock,
		ray:    ray,
		logger: logger,
		queue:  workqueue.New(),
	}
	for i := 0; i < cfg.Workers; i++ {
		w := &worker{id: i}
		c.workers = append(c.workers, w)
		c.queue.Enqueue(w)
	}
	return c, nil
}

// Cast hands a projectile to the least-loaded worker. Casting is
// fire-and-forget: with no capacity the cast is dropped with a warning.
func (c *Caster) Cast(req CastRequest) bool {
	handle, ok := c.queue.Dequeue()
	if !ok {
		c.droppedCasts++
		c.logger.Printf("sim: no worker available, dropping cast from %s", req.Caster)
		return false
	}
	w := handle.(*worker)

	now := c.clock.Now()
	p := &projectile{
		caster:     req.Caster,
		position:   req.Origin,
		velocity:   req.Velocity,
		gravity:    req.Gravity,
		startedAt:  now,
		lastUpdate: now,
		lifetime:   req.Lifetime,
		filter:     req.Filter,
		onImpact:   req.OnImpact,
	}

	if len(w.inFlight) >= c.cfg.Backlog {
		w.inFlight = w.inFlight[1:]
		w.tasks--
		w.oldestDrop++
		c.logger.Printf("sim: worker %d backlog full, dropping oldest projectile", w.id)
	}
	w.inFlight = append(w.inFlight, p)
	w.tasks++
	c.castsTotal++
	c.queue.Enqueue(w)
	return true
}

// InFlight reports the number of live projectiles across all workers.
func (c *Caster) InFlight() int {
	total := 0
	for _, w := range c.workers {
		total += len(w.inFlight)
	}
	return total
}

// DeferredLastStep reports how many projectiles the previous sweep pushed to
// the next frame because of the time budget.
func (c *Caster) DeferredLastStep() int { return c.deferredLast }

// Stats summarizes dispatcher counters for diagnostics.
type Stats struct {
	CastsTotal   uint64 `json:"castsTotal"`
	DroppedCasts uint64 `json:"droppedCasts"`
	BacklogDrops uint64 `json:"backlogDrops"`
	InFlight     int    `json:"inFlight"`
}

// Stats reports dispatcher counters.
func (c *Caster) Stats() Stats {
	var backlogDrops uint64
	for _, w := range c.workers {
		backlogDrops += uint64(w.oldestDrop)
	}
	return Stats{
		CastsTotal:   c.castsTotal,
		DroppedCasts: c.droppedCasts,
		BacklogDrops: backlogDrops,
		InFlight:     c.InFlight(),
	}
}

// Step runs one simulation sweep. frameDt is the tick interval and
// elapsedThisFrame how much of it the tick has already consumed; the sweep
// may spend BudgetScale of the remainder. Workers run in parallel and rejoin
// before impact callbacks fire, so world mutation stays on the caller's
// goroutine.
func (c *Caster) Step(now time.Time, frameDt, elapsedThisFrame time.Duration) []Impact {
	remaining := frameDt - elapsedThisFrame
	if remaining < 0 {
		remaining = 0
	}
	budget := time.Duration(float64(remaining) * c.cfg.BudgetScale)
	deadline := c.clock.Now().Add(budget)

	var wg sync.WaitGroup
	for _, w := range c.workers {
		if len(w.inFlight) == 0 {
			continue
		}
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			c.sweep(w, now, deadline)
		}(w)
	}
	wg.Wait()

	// Rejoined: collect results and release task counts on the hub goroutine.
	var records []impactRecord
	deferred := 0
	for _, w := range c.workers {
		records = append(records, w.results...)
		w.results = nil
		w.tasks -= w.completed
		w.completed = 0
		deferred += w.deferred
		w.deferred = 0
	}
	c.deferredLast = deferred
	if deferred > 0 {
		c.logger.Printf("sim: time budget exhausted, deferred %d projectiles", deferred)
	}

	impacts := make([]Impact, 0, len(records))
	for _, record := range records {
		impacts = append(impacts, record.impact)
		if record.onImpact != nil {
			record.onImpact(record.impact)
		}
	}
	return impacts
}

// sweep processes each queued projectile exactly once, stopping early when
// the frame budget runs out; unprocessed projectiles carry to the next tick.
func (c *Caster) sweep(w *worker, now time.Time, deadline time.Time) {
	kept := w.inFlight[:0]
	for idx, p := range w.inFlight {
		if !c.clock.Now().Before(deadline) {
			rest := w.inFlight[idx:]
			w.deferred += len(rest)
			kept = append(kept, rest...)
			break
		}

		dt := now.Sub(p.lastUpdate).Seconds()
		if dt <= 0 {
			kept = append(kept, p)
			continue
		}

		next := physics.PositionAt(p.position, p.velocity, p.gravity, dt)
		if hit, ok := c.ray.CastSegment(p.position, next, p.filter); ok {
			w.results = append(w.results, impactRecord{
				impact: Impact{
					Caster:   p.caster,
					Hit:      hit,
					Velocity: physics.VelocityAt(p.velocity, p.gravity, dt),
					At:       now,
				},
				onImpact: p.onImpact,
			})
			w.completed++
			continue
		}
		if now.Sub(p.startedAt) >= p.lifetime {
			w.completed++
			continue
		}

		p.position = next
		p.velocity = physics.VelocityAt(p.velocity, p.gravity, dt)
		p.lastUpdate = now
		kept = append(kept, p)
	}
	// Clear dropped tail references so finished projectiles can be collected.
	for i := len(kept); i < len(w.inFlight); i++ {
		w.inFlight[i] = nil
	}
	w.inFlight = kept
}
