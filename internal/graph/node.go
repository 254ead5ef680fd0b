// ============================================================================
// Beaver-DAG Graph Node - Dependency Arrival Protocol
// ============================================================================
//
// Package: internal/graph
// File: node.go
// Function: The mutable unit of the scheduled DAG — carries the task
//           callable, the dependency counters, and the adjacency used to
//           wake children once every parent has reported in.
//
// Dependency arrival protocol:
//   - required is the node's in-degree, fixed at construction.
//   - satisfied counts how many parents have finished this loop; it is
//     mutated only under Node.mu, by Arrive() and ResetArrivals().
//   - Arrive() is called once per (parent, loop) by the worker that just
//     ran the parent's task; it returns true exactly once per loop, for
//     whichever caller observes satisfied == required.
//   - ResetArrivals() runs on the *parent* right after its own task body
//     finishes, not on the child at enqueue time. This lets a child start
//     accumulating loop N+1 arrivals as soon as its last loop-N parent
//     reports in, with no global barrier between loops.
//
// ============================================================================

package graph

import (
	"sync"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// Node is one vertex of the scheduled graph. Nodes are owned by the Graph
// arena that created them and shared by reference with every worker for
// the lifetime of the pool; a worker borrows a reference for the
// duration of one task execution and mutates no field outside mu's
// protection.
type Node struct {
	// Label identifies the node; unique within a graph.
	Label types.Label
	// Task is the callable this node runs once per loop.
	Task types.TaskFunc
	// Role tags entry/terminal/ordinary, set at construction.
	Role types.Role

	// required is the node's in-degree; immutable after construction.
	required int
	// children and parents are immutable after construction.
	children []*Node
	parents  []*Node

	mu        sync.Mutex
	satisfied int
}

// Children returns the node's outgoing edges. The returned slice must not
// be mutated by the caller; it is the node's own adjacency list.
func (n *Node) Children() []*Node { return n.children }

// Parents returns the node's incoming edges, retained for future reverse
// traversal (critical-path analysis) but not otherwise used by the core.
func (n *Node) Parents() []*Node { return n.parents }

// Required returns the node's in-degree.
func (n *Node) Required() int { return n.required }

// Arrive records one parent's arrival for this loop. It returns true
// exactly once per loop — for whichever caller's increment makes
// satisfied equal required — signaling that the node is ready to be
// enqueued. Called by internal/scheduler from outside this package, once
// per (parent, loop), by the worker that just ran the parent's task.
func (n *Node) Arrive() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.satisfied++
	return n.satisfied == n.required
}

// ResetArrivals zeroes the arrival counter after the node's task has run,
// so the node is ready to accumulate arrivals for the next loop. Called
// by the worker that just executed this node's task, before it notifies
// children.
func (n *Node) ResetArrivals() {
	n.mu.Lock()
	n.satisfied = 0
	n.mu.Unlock()
}

// satisfiedCount reports the current arrival count, used only by tests to
// assert that it always stays within [0, required].
func (n *Node) satisfiedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.satisfied
}
