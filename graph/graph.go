// Package graph provides the build-time task graph: named units of work
// connected by directed dependency edges. Construction is validated as it
// happens (duplicate ids, dangling endpoints, cycles), so a graph handed to
// the execution engine is structurally sound by the time Run is called.
package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrDuplicateNode     = errors.New("node already exists")
	ErrCycleDetected     = errors.New("cycle detected")
	ErrGraphInUse        = errors.New("graph is currently executing")
	ErrNotATree          = errors.New("graph is not a rooted tree")
	ErrMalformedSequence = errors.New("malformed level sequence")
)

// Work is the unit of work a node carries. The engine invokes it exactly
// once per run. A nil Work is a valid placeholder and completes immediately.
type Work func(ctx context.Context) error

// Node is one schedulable unit in a graph. Parents and Children hold the
// local ids of dependency and dependent nodes; they are maintained by
// AddDependency and must not be mutated directly.
type Node struct {
	ID   int
	Name string
	Work Work

	Parents  []int
	Children []int
}

// Graph owns a set of nodes keyed by caller-supplied local id and the
// directed edges between them.
//
// Construction methods are safe for concurrent use, but construction must
// finish before the graph is run: any structural mutation attempted while a
// run is in flight fails with ErrGraphInUse.
type Graph struct {
	mu      sync.Mutex
	nodes   map[int]*Node
	running bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[int]*Node)}
}

// AddNode inserts a node under the given local id. The name does not need
// to be unique; the id does. work may be nil.
func (g *Graph) AddNode(id int, name string, work Work) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return ErrGraphInUse
	}
	if _, exists := g.nodes[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateNode, id)
	}
	g.nodes[id] = &Node{ID: id, Name: name, Work: work}
	return nil
}

// AddDependency inserts the edge from -> to, meaning to may not start
// before from has completed. Both endpoints must already exist. The edge is
// rejected with ErrCycleDetected if it would close a cycle (a self-loop is
// the degenerate case); a rejected call leaves the graph untouched.
// Re-adding an existing edge is a no-op.
func (g *Graph) AddDependency(from, to int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return ErrGraphInUse
	}
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, to)
	}
	if from == to {
		return fmt.Errorf("%w: self-loop on %d", ErrCycleDetected, from)
	}
	if slices.Contains(src.Children, to) {
		return nil
	}
	// Reject before mutating, so a failed insertion is atomic.
	if g.reaches(to, from) {
		return fmt.Errorf("%w: %d -> %d", ErrCycleDetected, from, to)
	}

	src.Children = append(src.Children, to)
	dst.Parents = append(dst.Parents, from)
	return nil
}

// Node returns the node stored under id.
func (g *Graph) Node(id int) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all local ids in ascending order.
func (g *Graph) NodeIDs() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := maps.Keys(g.nodes)
	slices.Sort(ids)
	return ids
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// BeginRun marks the graph as executing, locking out structural mutation.
// A graph can be part of at most one in-flight run at a time.
func (g *Graph) BeginRun() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return ErrGraphInUse
	}
	g.running = true
	return nil
}

// EndRun releases the executing mark set by BeginRun.
func (g *Graph) EndRun() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.running = false
}

// Running reports whether a run is in flight.
func (g *Graph) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}
