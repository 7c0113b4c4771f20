package graph

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestFromLevelSequence(t *testing.T) {
	t.Run("decodes parent relation", func(t *testing.T) {
		g, err := FromLevelSequence([]int{0, 1, 1, 2})
		assert.NoError(t, err)
		assert.Equal(t, 4, g.Len())

		// Node 0 is the parent of 1 and 2; node 2 is the parent of 3.
		root, _ := g.Node(0)
		assert.Equal(t, []int{1, 2}, root.Children)
		three, _ := g.Node(3)
		assert.Equal(t, []int{2}, three.Parents)
	})

	t.Run("accepts a 1-based root", func(t *testing.T) {
		g, err := FromLevelSequence([]int{1, 2, 2, 3})
		assert.NoError(t, err)

		root, _ := g.Node(0)
		assert.Equal(t, []int{1, 2}, root.Children)
		three, _ := g.Node(3)
		assert.Equal(t, []int{2}, three.Parents)
	})

	t.Run("parent is the nearest preceding ancestor", func(t *testing.T) {
		// Two depth-1 nodes; the depth-2 node attaches to the later one.
		g, err := FromLevelSequence([]int{0, 1, 2, 1, 2})
		assert.NoError(t, err)

		two, _ := g.Node(2)
		assert.Equal(t, []int{1}, two.Parents)
		four, _ := g.Node(4)
		assert.Equal(t, []int{3}, four.Parents)
	})

	t.Run("empty sequence", func(t *testing.T) {
		g, err := FromLevelSequence(nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("root depth above 1", func(t *testing.T) {
		_, err := FromLevelSequence([]int{2})
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedSequence))
	})

	t.Run("depth below root depth", func(t *testing.T) {
		_, err := FromLevelSequence([]int{1, 2, 0})
		assert.True(t, errors.Is(err, ErrMalformedSequence))
	})

	t.Run("depth jump without ancestor", func(t *testing.T) {
		_, err := FromLevelSequence([]int{0, 2})
		assert.True(t, errors.Is(err, ErrMalformedSequence))
	})

	t.Run("second root", func(t *testing.T) {
		_, err := FromLevelSequence([]int{0, 1, 0})
		assert.True(t, errors.Is(err, ErrMalformedSequence))
	})
}

func TestLevelSequence(t *testing.T) {
	t.Run("pre-order with ascending children", func(t *testing.T) {
		g := New()
		for id := 0; id < 5; id++ {
			assert.NoError(t, g.AddNode(id, "n", nil))
		}
		// 0 -> {1, 2}, 2 -> {3, 4}
		assert.NoError(t, g.AddDependency(0, 2))
		assert.NoError(t, g.AddDependency(0, 1))
		assert.NoError(t, g.AddDependency(2, 4))
		assert.NoError(t, g.AddDependency(2, 3))

		seq, err := g.LevelSequence()
		assert.NoError(t, err)
		assert.Equal(t, []int{0, 1, 1, 2, 2}, seq)
	})

	t.Run("empty graph", func(t *testing.T) {
		seq, err := New().LevelSequence()
		assert.NoError(t, err)
		assert.Equal(t, 0, len(seq))
	})

	t.Run("multiple roots", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.AddNode(0, "a", nil))
		assert.NoError(t, g.AddNode(1, "b", nil))

		_, err := g.LevelSequence()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotATree))
	})

	t.Run("node with two parents", func(t *testing.T) {
		g := diamond(t)

		_, err := g.LevelSequence()
		assert.True(t, errors.Is(err, ErrNotATree))
	})
}

func TestLevelSequenceRoundTrip(t *testing.T) {
	cases := [][]int{
		{0},
		{0, 1, 1, 2},
		{0, 1, 2, 3, 1, 2, 2, 1},
		{0, 1, 1, 1, 1},
	}
	for _, seq := range cases {
		g, err := FromLevelSequence(seq)
		assert.NoError(t, err)

		back, err := g.LevelSequence()
		assert.NoError(t, err)
		assert.Equal(t, seq, back)
	}
}
