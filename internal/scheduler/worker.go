// ============================================================================
// Beaver-DAG Worker - Task Execution Unit
// ============================================================================
//
// Package: internal/scheduler
// File: worker.go
// Function: The long-running goroutine that blocks on the Ready Queue,
//           executes one task, records trace events, and advances child
//           dependencies, plus the loop-boundary logic run by whichever
//           worker executes the terminal node.
//
// Grounded on internal/worker/worker.go's Worker.Run main loop,
// generalized from "pop a Task, execute with a timeout, report a
// Result" to "pop a Node, run its task body, append the trace twice,
// reset arrivals, then either notify children or run the loop-boundary
// check" — and, for the loop-boundary and dependency-arrival mechanics
// themselves, directly on original_source/graph.c's runner /
// runner_check_loops / runner_process_children.
//
// ============================================================================

package scheduler

import (
	"github.com/ChuLiYu/beaver-dag/internal/graph"
	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// runWorker is the main loop of one worker goroutine. It increments the
// "workers alive" counter on entry (so Pool.initPool can confirm every
// worker reached the loop before the first enqueue), then repeatedly
// pops a node, runs its task, and advances the graph state, until the
// Ready Queue signals shutdown.
func (p *Pool) runWorker(id int) {
	defer p.wg.Done()

	if p.cfg.Log.LogRunnerLifecycle {
		log.Info("worker start", "worker", id)
	}
	p.workersAlive.Add(1)

	for {
		node, ok := p.q.PopBlocking()
		if !ok {
			break
		}

		if p.cfg.Log.LogRunnerTask {
			log.Info("worker task", "worker", id, "label", string(node.Label))
		}

		p.tr.Append(node.Label)
		node.Task()
		p.tr.Append(node.Label)
		p.sink.RecordTaskExecution(string(node.Label))
		p.sink.SetQueueDepth(p.q.Len())

		// ResetArrivals runs on the worker that just executed this node's
		// task — the unique writer for this node this loop — so the child
		// can start accumulating next loop's arrivals immediately, with no
		// global barrier between loops.
		node.ResetArrivals()

		if node.Role == types.RoleTerminal {
			p.loopBoundary()
			continue
		}

		p.notifyChildren(node)
	}

	if p.cfg.Log.LogRunnerLifecycle {
		log.Info("worker exit", "worker", id)
	}
}

// notifyChildren advances every child's arrival count; a child whose
// arrival makes it fully satisfied is enqueued. Because arrive is
// mutex-guarded and satisfied starts each loop at zero, exactly one
// parent per child observes arrive() == true per loop, so each
// non-entry, non-terminal node is enqueued exactly once per loop.
func (p *Pool) notifyChildren(node *graph.Node) {
	for _, child := range node.Children() {
		if child.Arrive() {
			p.q.Push(child)
		}
	}
}

// loopBoundary runs on the worker that just executed the terminal node.
// If the loop target has been reached it marks the pool inactive and
// shuts down the Ready Queue, which wakes every worker (whether blocked
// in PopBlocking or about to call it) to exit. Otherwise it resets the
// trace and re-seeds the entry node for the next loop.
func (p *Pool) loopBoundary() {
	if p.cfg.Log.LogExecTrace {
		log.Info("exec trace", "entries", p.tr.Entries())
	}

	elapsed := p.loopElapsedSeconds()
	p.sink.RecordLoopCompleted(elapsed)

	loopIndex := p.loopIndex.Load()
	if p.cfg.Log.LogLoops {
		log.Info("loop end", "loop", loopIndex, "duration", elapsed)
	}

	if loopIndex == int64(p.cfg.LoopsTarget) {
		p.active.Store(false)
		p.setState(StateDraining)
		p.q.Shutdown()
		return
	}

	p.tr.Reset()
	p.beginLoopTimer()
	if p.cfg.Log.LogLoops {
		log.Info("loop start", "loop", loopIndex+1)
	}
	p.q.Push(p.g.Entry())
}
