// Package taskflow exposes a handle-indexed task-graph engine: callers
// build directed acyclic graphs of named work units, wire dependency edges
// between them, execute them on a shared worker pool, and convert between
// graphs and a compact level-sequence tree encoding.
//
// Every entity crossing the package boundary is referenced by a plain
// integer handle, so a host that cannot hold Go references (an FFI caller,
// a scripting runtime) can still own long-lived graphs, atoms and tensors
// safely. Handles of different kinds are distinct types and draw from
// independent counters; a tensor handle can never resolve a graph.
package taskflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/echotree/taskflow/cognitive"
	"github.com/echotree/taskflow/graph"
	"github.com/echotree/taskflow/internal/execution"
	"github.com/echotree/taskflow/internal/handles"
)

// ErrGraphNotFound is returned when a graph handle does not resolve.
var ErrGraphNotFound = errors.New("graph not found")

// ErrNotFound is the generic unknown-handle error used for non-graph
// entities (atom spaces, atoms, tensors).
var ErrNotFound = handles.ErrNotFound

// Typed handles for each entity kind the bridge owns.
type (
	GraphHandle     int64
	AtomSpaceHandle int64
	AtomHandle      int64
	TensorHandle    int64
)

// Run is the handle returned by Bridge.Run for joining on a single graph.
type Run = execution.Run

// NodeStatus is the scheduling state of one node within a run.
type NodeStatus = execution.Status

const (
	NodePending   = execution.StatusPending
	NodeRunning   = execution.StatusRunning
	NodeSucceeded = execution.StatusSucceeded
	NodeFailed    = execution.StatusFailed
	NodeSkipped   = execution.StatusSkipped
)

// Work is the unit of work attached to a graph node.
type Work = graph.Work

// Bridge owns the registries for all entity kinds and the execution
// engine. Independent Bridge instances are fully isolated; tearing one
// down releases everything it owns.
type Bridge struct {
	workers int
	log     *slog.Logger
	metrics *execution.Metrics

	engine  *execution.Engine
	graphs  *handles.Registry[*graph.Graph]
	spaces  *handles.Registry[*cognitive.Space]
	atoms   *handles.Registry[*cognitive.Atom]
	tensors *handles.Registry[*cognitive.Tensor]
}

// New creates a bridge and starts its worker pool.
func New(opts ...Option) *Bridge {
	b := &Bridge{
		log:     NullLogger(),
		graphs:  handles.NewRegistry[*graph.Graph](),
		spaces:  handles.NewRegistry[*cognitive.Space](),
		atoms:   handles.NewRegistry[*cognitive.Atom](),
		tensors: handles.NewRegistry[*cognitive.Tensor](),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.engine = execution.NewEngine(b.log.WithGroup("engine"), b.workers, b.metrics)
	b.log.Info("bridge initialized", "workers", b.engine.Workers())
	return b
}

// Close waits for outstanding work to finish and stops the worker pool.
func (b *Bridge) Close() error {
	err := b.engine.Close()
	b.log.Info("bridge closed")
	return err
}

func (b *Bridge) resolveGraph(h GraphHandle) (*graph.Graph, error) {
	g, err := b.graphs.Get(int64(h))
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrGraphNotFound, h)
	}
	return g, nil
}

// CreateGraph allocates a new empty graph and returns its handle.
func (b *Bridge) CreateGraph() GraphHandle {
	h := GraphHandle(b.graphs.Put(graph.New()))
	b.log.Debug("graph created", "graph", h)
	return h
}

// AddNode inserts a node under the caller-supplied local id. work may be
// nil. Fails with ErrGraphNotFound for an invalid handle and with
// graph.ErrDuplicateNode if the id is already taken.
func (b *Bridge) AddNode(h GraphHandle, id int, name string, work Work) error {
	g, err := b.resolveGraph(h)
	if err != nil {
		return err
	}
	return g.AddNode(id, name, work)
}

// AddDependency inserts the edge from -> to into the graph. Fails with
// graph.ErrNodeNotFound for a missing endpoint and graph.ErrCycleDetected
// if the edge would close a cycle; a failed call leaves the graph
// untouched.
func (b *Bridge) AddDependency(h GraphHandle, from, to int) error {
	g, err := b.resolveGraph(h)
	if err != nil {
		return err
	}
	return g.AddDependency(from, to)
}

// Run submits the graph to the worker pool and returns without waiting.
// The returned Run joins on this graph alone; WaitAll joins on everything.
func (b *Bridge) Run(ctx context.Context, h GraphHandle) (*Run, error) {
	g, err := b.resolveGraph(h)
	if err != nil {
		return nil, err
	}
	b.log.Debug("running graph", "graph", h, "nodes", g.Len())
	return b.engine.Run(ctx, g)
}

// WaitAll blocks until every node dispatched by any prior Run call has
// reached a terminal state, or until ctx is done.
func (b *Bridge) WaitAll(ctx context.Context) error {
	return b.engine.WaitAll(ctx)
}

// ReleaseGraph destroys a graph; its handle is invalid afterwards and is
// never reused. A graph cannot be released while a run on it is in flight.
func (b *Bridge) ReleaseGraph(h GraphHandle) error {
	g, err := b.resolveGraph(h)
	if err != nil {
		return err
	}
	if g.Running() {
		return graph.ErrGraphInUse
	}
	if err := b.graphs.Release(int64(h)); err != nil {
		return fmt.Errorf("%w: %d", ErrGraphNotFound, h)
	}
	b.log.Debug("graph released", "graph", h)
	return nil
}

// GraphToLevelSequence encodes the graph's dependency structure as a level
// sequence. Only single-rooted trees encode; see graph.ErrNotATree.
func (b *Bridge) GraphToLevelSequence(h GraphHandle) ([]int, error) {
	g, err := b.resolveGraph(h)
	if err != nil {
		return nil, err
	}
	return g.LevelSequence()
}

// LevelSequenceToGraph synthesizes a full graph (nodes and edges) from a
// level sequence and returns its handle.
func (b *Bridge) LevelSequenceToGraph(sequence []int) (GraphHandle, error) {
	g, err := graph.FromLevelSequence(sequence)
	if err != nil {
		return 0, err
	}
	h := GraphHandle(b.graphs.Put(g))
	b.log.Debug("graph decoded from level sequence", "graph", h, "nodes", g.Len())
	return h, nil
}

// NumGraphs returns the number of live graphs.
func (b *Bridge) NumGraphs() int { return b.graphs.Len() }
