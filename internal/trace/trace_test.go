package trace

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChuLiYu/beaver-dag/pkg/types"
)

func TestTraceAppendAndEntries(t *testing.T) {
	tr := New(3)
	tr.Append("A")
	tr.Append("A")
	tr.Append("b")
	tr.Append("b")

	assert.Equal(t, []types.Label{"A", "A", "b", "b"}, tr.Entries())
}

func TestTraceReset(t *testing.T) {
	tr := New(3)
	tr.Append("A")
	tr.Reset()
	assert.Empty(t, tr.Entries())

	tr.Append("B")
	assert.Equal(t, []types.Label{"B"}, tr.Entries())
}

func TestTraceRespectsEdgeLinearChain(t *testing.T) {
	tr := New(3)
	for _, l := range []types.Label{"A", "A", "n1", "n1", "n2", "n2"} {
		tr.Append(l)
	}

	assert.True(t, tr.RespectsEdge("A", "n1"))
	assert.True(t, tr.RespectsEdge("n1", "n2"))
	assert.False(t, tr.RespectsEdge("n2", "A"))
}

func TestTraceRespectsEdgeDiamond(t *testing.T) {
	// A A B C B C D D  -- both B and C finish before D starts.
	tr := New(4)
	for _, l := range []types.Label{"A", "A", "B", "C", "B", "C", "D", "D"} {
		tr.Append(l)
	}

	assert.True(t, tr.RespectsEdge("A", "B"))
	assert.True(t, tr.RespectsEdge("A", "C"))
	assert.True(t, tr.RespectsEdge("B", "D"))
	assert.True(t, tr.RespectsEdge("C", "D"))
}

func TestTraceConcurrentAppend(t *testing.T) {
	tr := New(100)
	var wg sync.WaitGroup
	wg.Add(100)
	for i := 0; i < 100; i++ {
		go func() {
			defer wg.Done()
			tr.Append("x")
		}()
	}
	wg.Wait()
	assert.Len(t, tr.Entries(), 100)
}
