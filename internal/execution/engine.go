// Package execution runs task graphs on a fixed worker pool. Nodes are
// dispatched in dependency order by a centrally managed ready queue: a node
// becomes eligible once every prerequisite has completed, and
// simultaneously eligible nodes are dispatched in ascending local-id order
// so scheduling is reproducible.
package execution

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/echotree/taskflow/graph"
)

type job struct {
	run  *Run
	node *graph.Node
}

// Engine is a fixed-size worker pool shared by all graphs submitted to it.
// Workers are started at construction and stopped by Close.
type Engine struct {
	log     *slog.Logger
	workers int
	metrics *Metrics

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*job
	closed bool

	// One count per node of every in-flight run; WaitAll joins on this.
	pending sync.WaitGroup

	grp *errgroup.Group
}

// NewEngine starts an engine with the given number of workers. A count of
// zero or less defaults to the number of available CPUs. metrics may be nil.
func NewEngine(log *slog.Logger, workers int, metrics *Metrics) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Engine{
		log:     log,
		workers: workers,
		metrics: metrics,
		grp:     &errgroup.Group{},
	}
	e.cond = sync.NewCond(&e.mu)

	for i := 0; i < workers; i++ {
		name := fmt.Sprintf("worker-%d", i)
		e.grp.Go(func() error {
			e.workerLoop(name)
			return nil
		})
	}
	log.Info("execution engine started", "workers", workers)
	return e
}

// Workers returns the pool size.
func (e *Engine) Workers() int {
	return e.workers
}

func (e *Engine) workerLoop(name string) {
	for {
		e.mu.Lock()
		for len(e.queue) == 0 && !e.closed {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.mu.Unlock()
			return
		}
		j := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()

		e.log.Debug("executing node", "worker", name, "node", j.node.ID, "name", j.node.Name)
		j.run.execute(j.node)
	}
}

// enqueue appends jobs to the ready queue in the order given. Callers sort
// each batch by ascending node id before handing it over.
func (e *Engine) enqueue(jobs []*job) {
	e.mu.Lock()
	e.queue = append(e.queue, jobs...)
	e.mu.Unlock()
	e.cond.Broadcast()
}

// WaitAll blocks until every node dispatched by any prior Run call on this
// engine has reached a terminal state, or until ctx is done. It is scoped
// to the whole engine, not a single graph; use Run's returned handle to
// wait on one graph.
func (e *Engine) WaitAll(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains the ready queue and stops the workers. In-flight runs finish
// normally; submitting new runs after Close is a caller error.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cond.Broadcast()
	return e.grp.Wait()
}
