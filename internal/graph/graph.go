// ============================================================================
// Beaver-DAG Graph Construction - External Collaborator
// ============================================================================
//
// Package: internal/graph
// File: graph.go
// Function: Builds the fixed-topology DAG the scheduler runs. Graph
//           construction, node lookup, and textual dumping are routine
//           plumbing — the scheduler only needs the interface this file
//           exposes: an entry node, a terminal node, and each node's
//           children.
//
// Design:
//   Nodes live in an arena — Graph.nodes, a plain slice — addressed by
//   construction order. Adjacency lists store *Node pointers into that
//   arena rather than owning references, so the arena (not the pointers)
//   is what gets dropped as one unit; there is no reference-cycle
//   bookkeeping to do because nothing in this package ever frees a node
//   individually. This mirrors the original C source's never-freed
//   gnode_t graph (rocher/graph-C), translated into Go's garbage-collected
//   arena-of-pointers idiom instead of rocher's manual calloc/never-free.
//
// ============================================================================

package graph

import (
	"fmt"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// Graph is a constructed, immutable-topology DAG with a distinguished
// entry node and a distinguished terminal node. Topology (edges, labels,
// required counts) is read-only after Builder.Build returns and is safe
// to share across goroutines without locking; only each Node's satisfied
// counter is mutated at runtime, under that node's own mutex.
type Graph struct {
	nodes    []*Node
	byLabel  map[types.Label]*Node
	entry    *Node
	terminal *Node
}

// Entry returns the unique node with in-degree zero.
func (g *Graph) Entry() *Node { return g.entry }

// Terminal returns the node that ends a loop.
func (g *Graph) Terminal() *Node { return g.terminal }

// Nodes returns every node in construction order. The returned slice must
// not be mutated.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Get returns the node with the given label, or nil if none exists.
// Grounded on original_source/graph.c's gnode_get, replacing its
// recursive child-walk with an O(1) arena index since construction
// already has every node at hand.
func (g *Graph) Get(label types.Label) *Node {
	return g.byLabel[label]
}

// Builder constructs a Graph incrementally. It rejects duplicate labels
// and a second entry or terminal node (AddNode panics), and a missing
// entry or terminal (Build panics); it performs no cycle detection and no
// reachability check — those construction errors are the caller's
// responsibility, and the scheduler's behavior on such a graph is
// undefined.
type Builder struct {
	nodes    []*Node
	byLabel  map[types.Label]*Node
	entry    *Node
	terminal *Node
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byLabel: make(map[types.Label]*Node)}
}

// AddNode creates a new node with the given label, task body, and role,
// and adds it to the arena. role should be types.RoleEntry for the single
// entry node, types.RoleTerminal for the single terminal node, and
// types.RoleNone otherwise.
//
// Panics on a duplicate label — this is a construction-time programmer
// error, not a runtime condition the scheduler needs to tolerate.
func (b *Builder) AddNode(label types.Label, task types.TaskFunc, role types.Role) *Node {
	if _, exists := b.byLabel[label]; exists {
		panic(fmt.Sprintf("graph: duplicate node label %q", label))
	}

	n := &Node{Label: label, Task: task, Role: role}
	b.nodes = append(b.nodes, n)
	b.byLabel[label] = n

	switch role {
	case types.RoleEntry:
		if b.entry != nil {
			panic(fmt.Sprintf("graph: duplicate entry node (already %q, got %q)", b.entry.Label, label))
		}
		b.entry = n
	case types.RoleTerminal:
		if b.terminal != nil {
			panic(fmt.Sprintf("graph: duplicate terminal node (already %q, got %q)", b.terminal.Label, label))
		}
		b.terminal = n
	}

	return n
}

// AddEdge links parent -> child: child.required is incremented and both
// adjacency lists are extended. Edges may be added in any order relative
// to AddNode, as long as both endpoints already exist.
func (b *Builder) AddEdge(parent, child *Node) {
	parent.children = append(parent.children, child)
	child.parents = append(child.parents, parent)
	child.required++
}

// Build finalizes construction and returns the immutable Graph. It
// panics if no entry or no terminal node was added — a missing
// distinguished node is a construction error the caller must not ignore,
// even though topology validity (acyclicity, reachability) is left
// unchecked.
func (b *Builder) Build() *Graph {
	if b.entry == nil {
		panic("graph: no entry node")
	}
	if b.terminal == nil {
		panic("graph: no terminal node")
	}
	return &Graph{
		nodes:    b.nodes,
		byLabel:  b.byLabel,
		entry:    b.entry,
		terminal: b.terminal,
	}
}
