package graph

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

// diamond builds the four-node graph A(1) -> B(2), A(1) -> C(3),
// B(2) -> D(4), C(3) -> D(4).
func diamond(t *testing.T) *Graph {
	t.Helper()
	g := New()
	for id, name := range map[int]string{1: "A", 2: "B", 3: "C", 4: "D"} {
		assert.NoError(t, g.AddNode(id, name, nil))
	}
	assert.NoError(t, g.AddDependency(1, 2))
	assert.NoError(t, g.AddDependency(1, 3))
	assert.NoError(t, g.AddDependency(2, 4))
	assert.NoError(t, g.AddDependency(3, 4))
	return g
}
