package taskflow

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/echotree/taskflow/internal/execution"
)

// Option is a function that configures a Bridge.
type Option func(*Bridge)

// WithWorkersCount sets the worker pool size. Zero or less means one
// worker per available CPU.
var WithWorkersCount = func(n int) Option {
	return func(b *Bridge) {
		b.workers = n
	}
}

// WithLog sets the logger for the bridge and its engine.
var WithLog = func(log *slog.Logger) Option {
	return func(b *Bridge) {
		b.log = log
	}
}

// WithMetrics registers the engine's prometheus counters against reg.
var WithMetrics = func(reg prometheus.Registerer) Option {
	return func(b *Bridge) {
		b.metrics = execution.NewMetrics(reg)
	}
}

// NullWriter is a writer that discards all data
type NullWriter struct{}

func (NullWriter) Write([]byte) (int, error) { return 0, nil }

// NullLogger creates a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(NullWriter{}, nil))
}
