package graph

import (
	"fmt"
	"slices"
)

// LevelSequence encodes the graph as a flat level sequence: one depth value
// per node, emitted in pre-order from the root, visiting children in
// ascending local-id order. The root is emitted at depth 0.
//
// The encoding only exists for dependency structures that form a single
// rooted tree: exactly one node without parents, and no node with more than
// one parent. Anything else fails with ErrNotATree. An empty graph encodes
// to an empty sequence.
func (g *Graph) LevelSequence() ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.nodes) == 0 {
		return []int{}, nil
	}

	root := -1
	for id, n := range g.nodes {
		switch len(n.Parents) {
		case 0:
			if root != -1 {
				return nil, fmt.Errorf("%w: multiple roots (%d and %d)", ErrNotATree, min(root, id), max(root, id))
			}
			root = id
		case 1:
			// fine
		default:
			return nil, fmt.Errorf("%w: node %d has %d parents", ErrNotATree, id, len(n.Parents))
		}
	}
	if root == -1 {
		return nil, fmt.Errorf("%w: no root", ErrNotATree)
	}

	sequence := make([]int, 0, len(g.nodes))
	var walk func(id, depth int)
	walk = func(id, depth int) {
		sequence = append(sequence, depth)
		children := slices.Clone(g.nodes[id].Children)
		slices.Sort(children)
		for _, child := range children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	if len(sequence) != len(g.nodes) {
		return nil, fmt.Errorf("%w: %d nodes unreachable from root", ErrNotATree, len(g.nodes)-len(sequence))
	}
	return sequence, nil
}

// FromLevelSequence reconstructs a graph from a level sequence. Node local
// ids are positions in the sequence; node i (for i >= 1) is wired below the
// nearest preceding node whose depth is sequence[i]-1.
//
// The first element is the root and must carry the sequence's minimum
// depth; a root depth other than 0 or 1 is rejected, as is any element for
// which no parent exists. An empty sequence yields an empty graph.
func FromLevelSequence(sequence []int) (*Graph, error) {
	g := New()
	if len(sequence) == 0 {
		return g, nil
	}

	root := sequence[0]
	if root != 0 && root != 1 {
		return nil, fmt.Errorf("%w: root depth %d", ErrMalformedSequence, root)
	}
	if root != slices.Min(sequence) {
		return nil, fmt.Errorf("%w: depth below root depth %d", ErrMalformedSequence, root)
	}

	for i := range sequence {
		if err := g.AddNode(i, fmt.Sprintf("task_%d", i), nil); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(sequence); i++ {
		parent := -1
		for j := i - 1; j >= 0; j-- {
			if sequence[j] == sequence[i]-1 {
				parent = j
				break
			}
		}
		if parent == -1 {
			return nil, fmt.Errorf("%w: no parent for element %d at depth %d", ErrMalformedSequence, i, sequence[i])
		}
		if err := g.AddDependency(parent, i); err != nil {
			return nil, err
		}
	}
	return g, nil
}
