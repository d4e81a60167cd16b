// Package orchestrator re-runs the analysis whenever the edited property or
// the expense mode changes, and publishes each new result once.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/iwvelando/rentability/internal/analysis"
	"github.com/iwvelando/rentability/internal/metrics"
	"github.com/iwvelando/rentability/internal/property"
	"github.com/iwvelando/rentability/internal/reconcile"
	"go.uber.org/zap"
)

// State is the recompute lifecycle state.
type State int

const (
	Idle State = iota
	Scheduled
	Computing
	Superseded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Computing:
		return "computing"
	case Superseded:
		return "superseded"
	}
	return "unknown"
}

// StateContainer is the property owner. ApplyPatch is the only write path.
type StateContainer = reconcile.StateContainer

// Publisher receives each new result. Calls are serialized and follow the
// order of the inputs that triggered them.
type Publisher func(analysis.Result)

// Pipeline computes a result from an input snapshot.
type Pipeline func(property.Property, analysis.ExpenseMode) analysis.Result

// Config configures an Orchestrator. Only State is required.
type Config struct {
	State     StateContainer
	Locked    reconcile.LockedFields
	Engine    *analysis.Engine
	Pipeline  Pipeline
	Publisher Publisher
	Metrics   *metrics.Metrics
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// Orchestrator schedules analysis runs. A run whose inputs were replaced
// before it finished is discarded; a result equal to the last published one
// is not published again.
type Orchestrator struct {
	logger       *zap.Logger
	state        StateContainer
	locked       reconcile.LockedFields
	pipeline     Pipeline
	publish      Publisher
	metrics      *metrics.Metrics
	onTransition func(from, to State)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu              sync.Mutex
	status          State
	generation      uint64
	lastFingerprint string
	latest          *analysis.Result

	// publishMu is held from the staleness check through the publish call.
	publishMu sync.Mutex
}

// New creates an orchestrator.
func New(logger *zap.Logger, cfg Config) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	pipeline := cfg.Pipeline
	if pipeline == nil {
		engine := cfg.Engine
		if engine == nil {
			engine = analysis.NewEngine(logger, analysis.DefaultOptions())
		}
		pipeline = engine.Compute
	}
	publish := cfg.Publisher
	if publish == nil {
		publish = func(analysis.Result) {}
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.New(metrics.Options{})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		logger:       logger,
		state:        cfg.State,
		locked:       cfg.Locked,
		pipeline:     pipeline,
		publish:      publish,
		metrics:      m,
		onTransition: cfg.OnTransition,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Notify reports that the property or the expense mode may have changed.
// Derived fields are reconciled first, then a run is scheduled unless the
// inputs are identical to the last scheduled ones. It reports whether a run
// was scheduled.
func (o *Orchestrator) Notify(mode analysis.ExpenseMode) bool {
	if o.ctx.Err() != nil {
		return false
	}

	if reconcile.Apply(o.state, o.locked) {
		o.metrics.Patches.Inc()
	}
	snapshot := o.state.CurrentValue()

	fingerprint, err := Fingerprint(snapshot, mode)
	if err != nil {
		// Unhashable inputs always schedule.
		o.logger.Warn("failed to fingerprint inputs",
			zap.String("op", "orchestrator.Notify"),
			zap.Error(err),
		)
	}

	o.mu.Lock()
	// Close cancels under mu, so a run is never added once Close is waiting.
	if o.ctx.Err() != nil {
		o.mu.Unlock()
		return false
	}
	if err == nil && fingerprint == o.lastFingerprint {
		o.mu.Unlock()
		o.metrics.Skipped.Inc()
		return false
	}
	o.lastFingerprint = fingerprint
	o.generation++
	gen := o.generation
	if o.status == Computing {
		o.transition(Superseded)
	}
	o.transition(Scheduled)
	o.wg.Add(1)
	o.mu.Unlock()

	o.metrics.Scheduled.Inc()
	o.logger.Debug("analysis scheduled",
		zap.String("op", "orchestrator.Notify"),
		zap.Uint64("generation", gen),
		zap.String("expenseMode", mode.String()),
	)

	go o.run(gen, snapshot, mode)
	return true
}

func (o *Orchestrator) run(gen uint64, snapshot property.Property, mode analysis.ExpenseMode) {
	defer o.wg.Done()

	o.mu.Lock()
	if gen != o.generation || o.ctx.Err() != nil {
		o.mu.Unlock()
		o.discard(gen)
		return
	}
	o.transition(Computing)
	o.mu.Unlock()

	start := time.Now()
	result := o.pipeline(snapshot, mode)
	o.metrics.ComputeDuration.Observe(time.Since(start).Seconds())

	o.publishMu.Lock()
	defer o.publishMu.Unlock()

	o.mu.Lock()
	if gen != o.generation || o.ctx.Err() != nil {
		o.mu.Unlock()
		o.discard(gen)
		return
	}
	unchanged := o.latest != nil && cmp.Equal(*o.latest, result)
	if !unchanged {
		stored := result
		o.latest = &stored
	}
	o.mu.Unlock()

	if unchanged {
		o.metrics.Unchanged.Inc()
		o.logger.Debug("result unchanged, not publishing",
			zap.String("op", "orchestrator.run"),
			zap.Uint64("generation", gen),
		)
	} else {
		o.publish(result)
		o.metrics.Published.Inc()
		o.logger.Debug("result published",
			zap.String("op", "orchestrator.run"),
			zap.Uint64("generation", gen),
			zap.Duration("duration", time.Since(start)),
		)
	}

	o.mu.Lock()
	if gen == o.generation {
		o.transition(Idle)
	}
	o.mu.Unlock()
}

func (o *Orchestrator) discard(gen uint64) {
	o.metrics.Superseded.Inc()
	o.logger.Debug("stale result discarded",
		zap.String("op", "orchestrator.run"),
		zap.Uint64("generation", gen),
	)
}

// transition must be called with mu held.
func (o *Orchestrator) transition(to State) {
	from := o.status
	if from == to {
		return
	}
	o.status = to
	if o.onTransition != nil {
		o.onTransition(from, to)
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Latest returns the last published result.
func (o *Orchestrator) Latest() (analysis.Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.latest == nil {
		return analysis.Result{}, false
	}
	return *o.latest, true
}

// Wait blocks until every scheduled run has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close stops scheduling, discards in-flight runs and waits for them.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.cancel()
	o.mu.Unlock()
	o.wg.Wait()
	o.mu.Lock()
	o.transition(Idle)
	o.mu.Unlock()
}
