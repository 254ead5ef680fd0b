package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

// TestNodeArriveSingleParent checks I4: a node with one parent fires on
// the first and only arrival.
func TestNodeArriveSingleParent(t *testing.T) {
	n := &Node{Label: "c", required: 1}
	assert.True(t, n.Arrive())
	assert.Equal(t, 1, n.satisfiedCount())
}

// TestNodeArriveMultiParent checks that Arrive only returns true on the
// last arrival, and that satisfied stays within [0, required] throughout
// (I3).
func TestNodeArriveMultiParent(t *testing.T) {
	n := &Node{Label: "d", required: 3}

	assert.False(t, n.Arrive())
	assert.Equal(t, 1, n.satisfiedCount())

	assert.False(t, n.Arrive())
	assert.Equal(t, 2, n.satisfiedCount())

	assert.True(t, n.Arrive())
	assert.Equal(t, 3, n.satisfiedCount())
}

// TestNodeArriveConcurrent fires required arrivals from concurrent
// goroutines and checks exactly one observes Arrive() == true.
func TestNodeArriveConcurrent(t *testing.T) {
	const required = 64
	n := &Node{Label: "fanin", required: required}

	var wg sync.WaitGroup
	var fired int32
	var mu sync.Mutex

	wg.Add(required)
	for i := 0; i < required; i++ {
		go func() {
			defer wg.Done()
			if n.Arrive() {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fired)
	assert.Equal(t, required, n.satisfiedCount())
}

// TestNodeResetArrivals checks that ResetArrivals zeroes the counter so
// the node can accumulate the next loop's arrivals from scratch.
func TestNodeResetArrivals(t *testing.T) {
	n := &Node{Label: "e", required: 2}

	require.False(t, n.Arrive())
	require.True(t, n.Arrive())
	require.Equal(t, 2, n.satisfiedCount())

	n.ResetArrivals()
	assert.Equal(t, 0, n.satisfiedCount())

	// Next loop behaves identically.
	assert.False(t, n.Arrive())
	assert.True(t, n.Arrive())
}

func TestGraphBuilderBasic(t *testing.T) {
	b := NewBuilder()
	entry := b.AddNode("A", func() {}, types.RoleEntry)
	mid := b.AddNode("m", func() {}, types.RoleNone)
	term := b.AddNode("Z", func() {}, types.RoleTerminal)

	b.AddEdge(entry, mid)
	b.AddEdge(mid, term)

	g := b.Build()

	assert.Same(t, entry, g.Entry())
	assert.Same(t, term, g.Terminal())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 0, entry.Required())
	assert.Equal(t, 1, mid.Required())
	assert.Equal(t, 1, term.Required())
	assert.Same(t, mid, g.Get("m"))
	assert.Nil(t, g.Get("missing"))
	assert.Equal(t, []*Node{mid}, entry.Children())
	assert.Equal(t, []*Node{entry}, mid.Parents())
}

func TestGraphBuilderDuplicateLabelPanics(t *testing.T) {
	b := NewBuilder()
	b.AddNode("A", func() {}, types.RoleEntry)
	assert.Panics(t, func() {
		b.AddNode("A", func() {}, types.RoleNone)
	})
}

func TestGraphBuilderMissingEntryOrTerminalPanics(t *testing.T) {
	b := NewBuilder()
	b.AddNode("Z", func() {}, types.RoleTerminal)
	assert.Panics(t, func() { b.Build() })

	b2 := NewBuilder()
	b2.AddNode("A", func() {}, types.RoleEntry)
	assert.Panics(t, func() { b2.Build() })
}

func TestPrintDisabledIsNoop(t *testing.T) {
	b := NewBuilder()
	entry := b.AddNode("A", func() {}, types.RoleEntry)
	term := b.AddNode("Z", func() {}, types.RoleTerminal)
	b.AddEdge(entry, term)
	g := b.Build()

	var buf sizeRecordingWriter
	require.NoError(t, Print(&buf, g, PrintConfig{Enabled: false}))
	assert.Equal(t, 0, buf.n)

	require.NoError(t, Print(&buf, g, PrintConfig{Enabled: true}))
	assert.Greater(t, buf.n, 0)
}

type sizeRecordingWriter struct{ n int }

func (w *sizeRecordingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
