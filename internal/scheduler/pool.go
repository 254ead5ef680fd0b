// ============================================================================
// Beaver-DAG Scheduler / Pool - Worker Lifecycle & Loop Bookkeeping
// ============================================================================
//
// Package: internal/scheduler
// File: pool.go
// Function: Owns the worker set, the Ready Queue, loop bookkeeping, and
//           the start/stop protocol.
//
// State machine: Constructed -> Running (after Run) -> Draining (after
// the final terminal) -> Joined (after Join). Terminal is absorbing.
//
// Grounded on a job-queue controller's Start/Stop lifecycle (an external
// stop signal generalized into the Ready Queue's own self-triggered
// shutdown) and a worker pool's started/stopped flags + sync.WaitGroup,
// adapted to a fixed-DAG loop scheduler. The "workers alive" barrier in
// initPool is grounded directly on original_source/graph.c's
// runners_init_pool (atomic_int runners_count busy-wait).
//
// ============================================================================

package scheduler

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChuLiYu/beaver-dag/internal/graph"
	"github.com/ChuLiYu/beaver-dag/internal/queue"
	"github.com/ChuLiYu/beaver-dag/internal/trace"
	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

var log = slog.Default()

// LogConfig gates the scheduler's structured logging, one boolean per
// compile-time flag in original_source/graph.c's OVERALL SETTINGS
// section (GRAPH_PRINT is handled separately, by internal/graph.Print).
type LogConfig struct {
	LogLoops           bool // mark the start/end of a loop
	LogRunnerLifecycle bool // show creation/activation/deactivation of workers
	LogRunnerTask      bool // show which worker is running which node
	LogExecTrace       bool // dump the execution trace at the end of a loop
}

// Config configures a single scheduler run: worker pool size, how many
// loops to run before draining, plus logging.
type Config struct {
	PoolSize    int
	LoopsTarget int
	Log         LogConfig
}

// MetricsSink receives scheduler events for observability. A nil
// interface value passed to NewPool means no metrics are recorded (a
// no-op sink is substituted); a nil *metrics.Collector is not a valid
// sink, since its methods dereference the receiver. Declared here rather than
// imported from internal/metrics to avoid a dependency cycle; the
// concrete *metrics.Collector type satisfies it structurally.
type MetricsSink interface {
	RecordTaskExecution(label string)
	RecordLoopCompleted(durationSeconds float64)
	SetQueueDepth(depth int)
}

// noopSink is used when no MetricsSink is supplied.
type noopSink struct{}

func (noopSink) RecordTaskExecution(string)  {}
func (noopSink) RecordLoopCompleted(float64) {}
func (noopSink) SetQueueDepth(int)           {}

// State is the pool's lifecycle stage.
type State int

// Pool lifecycle states. Terminal (Joined) is absorbing.
const (
	StateConstructed State = iota
	StateRunning
	StateDraining
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Pool owns the worker goroutines, the Ready Queue, and the loop
// bookkeeping for one run of one Graph. A Pool runs a single Graph for a
// single Run/Join lifecycle; construct a new Pool for another run.
type Pool struct {
	g    *graph.Graph
	q    *queue.Queue[*graph.Node]
	tr   *trace.Trace
	cfg  Config
	sink MetricsSink

	workersAlive atomic.Int32
	loopIndex    atomic.Int64
	active       atomic.Bool

	stateMu sync.Mutex
	state   State

	loopMu    sync.Mutex
	loopStart time.Time

	wg sync.WaitGroup
}

// NewPool constructs a Pool for g with the given configuration. It wraps
// g's entry task so that, after the caller-supplied task body runs, the
// pool's loop counter is incremented, instead of requiring the task body
// to reach into scheduler state directly.
func NewPool(g *graph.Graph, cfg MetricsSink, schedCfg Config) *Pool {
	p := &Pool{
		g:    g,
		q:    queue.New[*graph.Node](),
		tr:   trace.New(g.Len()),
		cfg:  schedCfg,
		sink: cfg,
	}
	if p.sink == nil {
		p.sink = noopSink{}
	}
	p.active.Store(true)
	p.wrapEntryTask()
	return p
}

func (p *Pool) wrapEntryTask() {
	entry := p.g.Entry()
	original := entry.Task
	entry.Task = func() {
		if original != nil {
			original()
		}
		p.loopIndex.Add(1)
	}
}

// State returns the pool's current lifecycle state.
func (p *Pool) State() State {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.state
}

func (p *Pool) setState(s State) {
	p.stateMu.Lock()
	p.state = s
	p.stateMu.Unlock()
}

// LoopIndex returns the number of loops started so far (the entry task's
// increments). After Join it equals the configured loop target.
func (p *Pool) LoopIndex() int64 { return p.loopIndex.Load() }

// QueueDepth returns the Ready Queue's current length, for metrics
// sampling.
func (p *Pool) QueueDepth() int { return p.q.Len() }

// TraceEntries returns a copy of the current loop's execution trace, for
// verifying that every edge was respected. Most useful right after Join,
// when the final loop's trace has not yet been reset.
func (p *Pool) TraceEntries() []types.Label { return p.tr.Entries() }

// Run starts cfg.PoolSize worker goroutines, waits for all of them to
// reach their main loop, then transitions to Running and seeds the Ready
// Queue with the entry node.
func (p *Pool) Run() error {
	if p.cfg.PoolSize < 1 {
		return fmt.Errorf("scheduler: pool size must be >= 1, got %d", p.cfg.PoolSize)
	}
	if p.cfg.LoopsTarget < 1 {
		return fmt.Errorf("scheduler: loops target must be >= 1, got %d", p.cfg.LoopsTarget)
	}
	if p.State() != StateConstructed {
		return fmt.Errorf("scheduler: pool already run (state %s)", p.State())
	}

	p.initPool(p.cfg.PoolSize)

	p.tr.Reset()
	p.beginLoopTimer()
	p.setState(StateRunning)
	p.q.Push(p.g.Entry())

	return nil
}

// initPool starts size worker goroutines and busy-waits (bounded,
// benign) until every one of them has reached its main loop,
// guaranteeing none misses the first enqueue.
func (p *Pool) initPool(size int) {
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.runWorker(i)
	}
	for p.workersAlive.Load() != int32(size) {
		runtime.Gosched()
	}
}

// Join blocks until every worker goroutine has exited. Must be called
// after a shutdown has been requested (i.e. after the final loop's
// terminal node has run); otherwise it blocks forever.
func (p *Pool) Join() {
	p.wg.Wait()
	p.setState(StateJoined)
}

// beginLoopTimer starts (or restarts) the wall-clock timer used to
// report dag_loop_duration_seconds.
func (p *Pool) beginLoopTimer() {
	p.loopMu.Lock()
	p.loopStart = time.Now()
	p.loopMu.Unlock()
}

// loopElapsedSeconds reports the elapsed time since the last call to
// beginLoopTimer.
func (p *Pool) loopElapsedSeconds() float64 {
	p.loopMu.Lock()
	defer p.loopMu.Unlock()
	return time.Since(p.loopStart).Seconds()
}
