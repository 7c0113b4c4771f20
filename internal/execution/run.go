package execution

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"

	"github.com/echotree/taskflow/graph"
)

// Status is the scheduling state of one node within a run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
	// StatusSkipped marks nodes that never ran: a prerequisite failed, the
	// run was cancelled, or the node was locked in a cycle.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusRunning:
		return "RUNNING"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	case StatusSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

type settlement struct {
	id     int
	status Status
	err    error
}

// Run tracks one graph execution. It is created by Engine.Run and settles
// exactly once; Wait blocks until every node has reached a terminal state.
type Run struct {
	engine *Engine
	graph  *graph.Graph
	ctx    context.Context

	mu        sync.Mutex
	status    map[int]Status
	nodeErrs  map[int]error
	indegree  map[int]int
	doomed    map[int]bool
	remaining int
	inflight  int
	cancelled bool
	order     []int
	err       error
	done      chan struct{}
}

// Run submits a graph for execution. It returns as soon as the initially
// eligible nodes are on the ready queue; use the returned Run or WaitAll to
// join on completion.
//
// The graph is locked against structural mutation for the duration
// (ErrGraphInUse). A graph in which no node is eligible at the outset, yet
// nodes remain, can only be cyclic; that fails immediately with
// ErrCycleDetected instead of deadlocking. Cancelling ctx skips nodes that
// have not started; running nodes finish.
func (e *Engine) Run(ctx context.Context, g *graph.Graph) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := g.BeginRun(); err != nil {
		return nil, err
	}

	ids := g.NodeIDs()
	r := &Run{
		engine:   e,
		graph:    g,
		ctx:      ctx,
		status:   make(map[int]Status, len(ids)),
		nodeErrs: make(map[int]error),
		indegree: make(map[int]int, len(ids)),
		doomed:   make(map[int]bool),
		done:     make(chan struct{}),
	}
	var eligible []int
	for _, id := range ids {
		n, _ := g.Node(id)
		r.status[id] = StatusPending
		r.indegree[id] = len(n.Parents)
		if len(n.Parents) == 0 {
			eligible = append(eligible, id)
		}
	}
	r.remaining = len(ids)

	if len(ids) == 0 {
		g.EndRun()
		close(r.done)
		return r, nil
	}
	if len(eligible) == 0 {
		g.EndRun()
		return nil, fmt.Errorf("%w: no eligible nodes among %d", graph.ErrCycleDetected, len(ids))
	}

	if e.metrics != nil {
		e.metrics.RunsStarted.Inc()
	}
	e.pending.Add(len(ids))
	e.log.Debug("run submitted", "nodes", len(ids), "eligible", len(eligible))

	r.mu.Lock()
	jobs := r.dispatchLocked(eligible)
	r.mu.Unlock()
	e.enqueue(jobs)
	return r, nil
}

// dispatchLocked records the dispatch of the given eligible nodes and
// builds their jobs. ids must be sorted ascending; called with r.mu held.
func (r *Run) dispatchLocked(ids []int) []*job {
	jobs := make([]*job, 0, len(ids))
	for _, id := range ids {
		n, _ := r.graph.Node(id)
		r.order = append(r.order, id)
		jobs = append(jobs, &job{run: r, node: n})
	}
	r.inflight += len(ids)
	return jobs
}

// execute runs one dispatched node on the calling worker.
func (r *Run) execute(n *graph.Node) {
	if r.ctx.Err() != nil {
		// Dispatched but not started when the run was cancelled.
		r.mu.Lock()
		r.cancelled = true
		r.mu.Unlock()
		r.complete(n, StatusSkipped, nil)
		return
	}

	r.mu.Lock()
	r.status[n.ID] = StatusRunning
	r.mu.Unlock()

	err := r.invoke(n)

	status := StatusSucceeded
	if err != nil {
		status = StatusFailed
		r.engine.log.Warn("node failed", "node", n.ID, "name", n.Name, "error", err)
	}
	if r.engine.metrics != nil {
		r.engine.metrics.NodesExecuted.Inc()
		if err != nil {
			r.engine.metrics.NodeFailures.Inc()
		}
	}
	r.complete(n, status, err)
}

func (r *Run) invoke(n *graph.Node) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	if n.Work == nil {
		return nil
	}
	return n.Work(r.ctx)
}

// complete settles a node and releases its successors. Successors of a node
// that did not succeed are doomed: once all their prerequisites settle they
// are skipped rather than dispatched, and the skip cascades. Independent
// branches are unaffected.
func (r *Run) complete(n *graph.Node, status Status, err error) {
	r.mu.Lock()
	r.inflight--

	settled := 0
	var eligible []int
	worklist := []settlement{{id: n.ID, status: status, err: err}}
	for len(worklist) > 0 {
		s := worklist[0]
		worklist = worklist[1:]

		r.status[s.id] = s.status
		if s.err != nil {
			r.nodeErrs[s.id] = s.err
		}
		r.remaining--
		settled++

		node, _ := r.graph.Node(s.id)
		for _, child := range node.Children {
			r.indegree[child]--
			if s.status != StatusSucceeded {
				r.doomed[child] = true
			}
			if r.indegree[child] > 0 {
				continue
			}
			if r.doomed[child] || r.ctx.Err() != nil {
				if r.ctx.Err() != nil {
					r.cancelled = true
				}
				worklist = append(worklist, settlement{id: child, status: StatusSkipped})
			} else {
				eligible = append(eligible, child)
			}
		}
	}

	slices.Sort(eligible)
	jobs := r.dispatchLocked(eligible)

	finished := r.remaining == 0
	if !finished && r.inflight == 0 {
		// Nothing running and nothing dispatchable: the remainder is
		// locked in a cycle. Settle it as skipped and fail the run.
		for _, id := range r.graph.NodeIDs() {
			if r.status[id] == StatusPending {
				r.status[id] = StatusSkipped
				r.remaining--
				settled++
			}
		}
		r.err = multierr.Append(r.err, graph.ErrCycleDetected)
		finished = true
	}
	if finished {
		r.finalizeLocked()
	}
	r.mu.Unlock()

	if len(jobs) > 0 {
		r.engine.enqueue(jobs)
	}
	for i := 0; i < settled; i++ {
		r.engine.pending.Done()
	}
	if finished {
		r.graph.EndRun()
		close(r.done)
	}
}

// finalizeLocked aggregates per-node failures into the run error. Called
// with r.mu held, exactly once.
func (r *Run) finalizeLocked() {
	ids := make([]int, 0, len(r.nodeErrs))
	for id := range r.nodeErrs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		r.err = multierr.Append(r.err, fmt.Errorf("node %d: %w", id, r.nodeErrs[id]))
	}
	if r.cancelled && r.ctx.Err() != nil {
		r.err = multierr.Append(r.err, r.ctx.Err())
	}
	r.engine.log.Debug("run finished", "failed", len(r.nodeErrs))
}

// Wait blocks until the run settles and returns the aggregate error: one
// entry per failed node, plus the context error if the run was cancelled.
func (r *Run) Wait() error {
	<-r.done
	return r.Err()
}

// Err returns the aggregate run error, or nil while the run is in flight.
func (r *Run) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Status returns the current state of one node.
func (r *Run) Status(id int) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status[id]
}

// NodeErr returns the failure captured for one node, if any.
func (r *Run) NodeErr(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nodeErrs[id]
}

// DispatchOrder returns node ids in the order they were handed to the
// pool. Simultaneously eligible nodes appear in ascending id order.
func (r *Run) DispatchOrder() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.order)
}
