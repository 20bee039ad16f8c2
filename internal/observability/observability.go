// Package observability records store operation outcomes. Recorders receive
// an operation name, its result and its duration; tracers wrap an operation
// in a span that ends with the operation's error.
package observability

import (
	"context"
	"time"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// MetricsRecorder observes the outcome of one operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended exactly once with the operation's error (nil on success).
type TraceSpan interface {
	End(err error)
}

// NoopMetrics discards observations.
type NoopMetrics struct{}

// Observe implements MetricsRecorder.
func (NoopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// NoopTracer produces spans that record nothing.
type NoopTracer struct{}

// Start implements Tracer.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

func status(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}
