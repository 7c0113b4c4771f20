package execution

import (
	"io"
	"log/slog"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/echotree/taskflow/graph"
)

func newTestEngine(t *testing.T, workers int) *Engine {
	t.Helper()
	e := NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)), workers, nil)
	t.Cleanup(func() {
		assert.NoError(t, e.Close())
	})
	return e
}

// diamond builds A(1) -> B(2), A(1) -> C(3), B(2) -> D(4), C(3) -> D(4)
// with the given work attached to every node.
func diamond(t *testing.T, work func(id int) graph.Work) *graph.Graph {
	t.Helper()
	g := graph.New()
	names := map[int]string{1: "A", 2: "B", 3: "C", 4: "D"}
	for id := 1; id <= 4; id++ {
		var w graph.Work
		if work != nil {
			w = work(id)
		}
		assert.NoError(t, g.AddNode(id, names[id], w))
	}
	assert.NoError(t, g.AddDependency(1, 2))
	assert.NoError(t, g.AddDependency(1, 3))
	assert.NoError(t, g.AddDependency(2, 4))
	assert.NoError(t, g.AddDependency(3, 4))
	return g
}
