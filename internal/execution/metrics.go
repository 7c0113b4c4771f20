package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's prometheus counters. Construct with NewMetrics
// and pass to NewEngine; a nil *Metrics disables instrumentation.
type Metrics struct {
	RunsStarted   prometheus.Counter
	NodesExecuted prometheus.Counter
	NodeFailures  prometheus.Counter
}

// NewMetrics registers the engine counters against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskflow",
			Name:      "runs_started_total",
			Help:      "Number of graph runs submitted to the engine.",
		}),
		NodesExecuted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskflow",
			Name:      "nodes_executed_total",
			Help:      "Number of nodes whose work was invoked.",
		}),
		NodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "taskflow",
			Name:      "node_failures_total",
			Help:      "Number of nodes whose work returned an error.",
		}),
	}
}
