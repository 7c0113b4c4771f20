package graph

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestAddNode(t *testing.T) {
	t.Run("insert and look up", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(1, "A", nil))

		n, ok := g.Node(1)
		assert.True(t, ok)
		assert.Equal(t, "A", n.Name)
		assert.Equal(t, 1, g.Len())
	})

	t.Run("duplicate id keeps the original node", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(5, "X", nil))

		err := g.AddNode(5, "Y", nil)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateNode))

		n, _ := g.Node(5)
		assert.Equal(t, "X", n.Name)
	})

	t.Run("ids come back sorted", func(t *testing.T) {
		g := New()
		for _, id := range []int{4, 1, 3, 2} {
			assert.NoError(t, g.AddNode(id, "n", nil))
		}
		assert.Equal(t, []int{1, 2, 3, 4}, g.NodeIDs())
	})
}

func TestAddDependency(t *testing.T) {
	t.Run("wires parents and children", func(t *testing.T) {
		g := diamond(t)

		a, _ := g.Node(1)
		d, _ := g.Node(4)
		assert.Equal(t, []int{2, 3}, a.Children)
		assert.Equal(t, []int{2, 3}, d.Parents)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(1, "A", nil))

		assert.True(t, errors.Is(g.AddDependency(1, 9), ErrNodeNotFound))
		assert.True(t, errors.Is(g.AddDependency(9, 1), ErrNodeNotFound))
	})

	t.Run("self-loop", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(1, "A", nil))

		assert.True(t, errors.Is(g.AddDependency(1, 1), ErrCycleDetected))
	})

	t.Run("duplicate edge is a no-op", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(1, "A", nil))
		assert.NoError(t, g.AddNode(2, "B", nil))
		assert.NoError(t, g.AddDependency(1, 2))
		assert.NoError(t, g.AddDependency(1, 2))

		a, _ := g.Node(1)
		assert.Equal(t, []int{2}, a.Children)
	})

	t.Run("cycle is rejected without mutation", func(t *testing.T) {
		g := New()
		for id := 1; id <= 3; id++ {
			assert.NoError(t, g.AddNode(id, "n", nil))
		}
		assert.NoError(t, g.AddDependency(1, 2))
		assert.NoError(t, g.AddDependency(2, 3))

		err := g.AddDependency(3, 1)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCycleDetected))

		// Node and edge sets are exactly as they were before the call.
		one, _ := g.Node(1)
		two, _ := g.Node(2)
		three, _ := g.Node(3)
		assert.Equal(t, []int{2}, one.Children)
		assert.Equal(t, 0, len(one.Parents))
		assert.Equal(t, []int{3}, two.Children)
		assert.Equal(t, []int{1}, two.Parents)
		assert.Equal(t, 0, len(three.Children))
		assert.Equal(t, []int{2}, three.Parents)
	})

	t.Run("transitive cycle", func(t *testing.T) {
		g := New()
		for id := 1; id <= 4; id++ {
			assert.NoError(t, g.AddNode(id, "n", nil))
		}
		assert.NoError(t, g.AddDependency(1, 2))
		assert.NoError(t, g.AddDependency(2, 3))
		assert.NoError(t, g.AddDependency(3, 4))

		assert.True(t, errors.Is(g.AddDependency(4, 1), ErrCycleDetected))
		// The reverse of an existing transitive path is also a cycle.
		assert.True(t, errors.Is(g.AddDependency(4, 2), ErrCycleDetected))
	})
}

func TestRunState(t *testing.T) {
	t.Run("mutation while running", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(1, "A", nil))
		assert.NoError(t, g.AddNode(2, "B", nil))

		assert.NoError(t, g.BeginRun())
		assert.True(t, g.Running())

		assert.True(t, errors.Is(g.AddNode(3, "C", nil), ErrGraphInUse))
		assert.True(t, errors.Is(g.AddDependency(1, 2), ErrGraphInUse))

		g.EndRun()
		assert.False(t, g.Running())
		assert.NoError(t, g.AddDependency(1, 2))
	})

	t.Run("second begin fails", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.BeginRun())
		assert.True(t, errors.Is(g.BeginRun(), ErrGraphInUse))
	})
}
