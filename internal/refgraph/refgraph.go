// ============================================================================
// Beaver-DAG Reference Graph - Demonstration Topology
// ============================================================================
//
// Package: internal/refgraph
// File: refgraph.go
// Function: Builds the fourteen-node demonstration graph used by the
//           dagrun CLI's default run and by scheduler integration tests.
//
// Grounded directly on original_source/graph.c's main(): the same node
// labels, the same edges, and the same per-node sleep durations. A --
// {a, b, c}; a --> {1, 2}; b --> {2}; c --> {3, 4}; 1 --> {i, j};
// 2 --> {k}; 3 --> {k}; 4 --> Z; i --> {x}; j --> {x, y}; k --> {y};
// x --> Z; y --> Z.
//
// ============================================================================

package refgraph

import (
	"time"

	"github.com/ChuLiYu/beaver-dag/internal/graph"
	"github.com/ChuLiYu/beaver-dag/internal/tasks"
	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// Build constructs the reference graph. jitter enables +/-10% randomized
// sleep durations on every non-entry, non-terminal node, matching
// original_source/graph.c's TASK_JITTER flag.
func Build(jitter bool) *graph.Graph {
	b := graph.NewBuilder()

	ms := func(n int) types.TaskFunc { return tasks.Sleep(time.Duration(n)*time.Millisecond, jitter) }

	entry := b.AddNode("A", func() {}, types.RoleEntry)
	term := b.AddNode("Z", func() {}, types.RoleTerminal)

	a := b.AddNode("a", ms(100), types.RoleNone)
	bn := b.AddNode("b", ms(200), types.RoleNone)
	c := b.AddNode("c", ms(100), types.RoleNone)
	n1 := b.AddNode("1", ms(20), types.RoleNone)
	n2 := b.AddNode("2", ms(50), types.RoleNone)
	n3 := b.AddNode("3", ms(50), types.RoleNone)
	n4 := b.AddNode("4", ms(100), types.RoleNone)
	i := b.AddNode("i", ms(100), types.RoleNone)
	j := b.AddNode("j", ms(80), types.RoleNone)
	k := b.AddNode("k", ms(50), types.RoleNone)
	x := b.AddNode("x", ms(50), types.RoleNone)
	y := b.AddNode("y", ms(100), types.RoleNone)

	b.AddEdge(entry, a)
	b.AddEdge(entry, bn)
	b.AddEdge(entry, c)

	b.AddEdge(a, n1)
	b.AddEdge(a, n2)
	b.AddEdge(bn, n2)
	b.AddEdge(c, n3)
	b.AddEdge(c, n4)

	b.AddEdge(n1, i)
	b.AddEdge(n1, j)
	b.AddEdge(n2, k)
	b.AddEdge(n3, k)
	b.AddEdge(n4, term)

	b.AddEdge(i, x)
	b.AddEdge(j, x)
	b.AddEdge(j, y)
	b.AddEdge(k, y)

	b.AddEdge(x, term)
	b.AddEdge(y, term)

	return b.Build()
}
