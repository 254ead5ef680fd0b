// ============================================================================
// Beaver-DAG Execution Trace - Loop Correctness Witness
// ============================================================================
//
// Package: internal/trace
// File: trace.go
// Function: Append-only sequence of node labels recorded across one loop,
//           used to verify that every edge p -> c is respected: the
//           second occurrence of p's label precedes the first occurrence
//           of c's label.
//
// Callers append exactly twice per task execution per loop — once
// immediately before invoking the task body, once immediately after.
//
// Grounded on original_source/graph.c's exec_trace / exec_trace_append /
// exec_trace_mtx.
//
// ============================================================================

package trace

import (
	"sync"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// Trace is an append-only sequence of labels for the current loop, plus a
// mutex. It is sized to hold 2*nodeCount labels; callers must Reset it at
// every loop boundary.
type Trace struct {
	mu        sync.Mutex
	entries   []types.Label
	nodeCount int
}

// New returns a Trace pre-sized to hold one loop's worth of entries for a
// graph of nodeCount nodes (two entries per node: task-start, task-end).
func New(nodeCount int) *Trace {
	return &Trace{
		entries:   make([]types.Label, 0, 2*nodeCount),
		nodeCount: nodeCount,
	}
}

// Append adds one label to the trace. Safe for concurrent use by
// multiple workers.
func (t *Trace) Append(label types.Label) {
	t.mu.Lock()
	t.entries = append(t.entries, label)
	t.mu.Unlock()
}

// Reset clears the trace for the next loop, retaining the underlying
// array's capacity.
func (t *Trace) Reset() {
	t.mu.Lock()
	t.entries = t.entries[:0]
	t.mu.Unlock()
}

// Entries returns a copy of the current trace contents, safe to inspect
// without racing further Append calls.
func (t *Trace) Entries() []types.Label {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.Label, len(t.entries))
	copy(out, t.entries)
	return out
}

// RespectsEdge reports whether the trace respects the ordering implied
// by the edge parent -> child: the second occurrence of parent precedes
// the first occurrence of child. A label with fewer than the expected
// number of occurrences (not yet run twice, or not run at all) makes the check
// vacuously true for that label's side — callers are expected to check
// this only against a trace captured after a complete loop.
func (t *Trace) RespectsEdge(parent, child types.Label) bool {
	entries := t.Entries()

	parentSecond := -1
	seenParent := 0
	childFirst := -1

	for i, e := range entries {
		if e == parent {
			seenParent++
			if seenParent == 2 {
				parentSecond = i
			}
		}
		if e == child && childFirst == -1 {
			childFirst = i
		}
	}

	if parentSecond == -1 || childFirst == -1 {
		return true
	}
	return parentSecond < childFirst
}
