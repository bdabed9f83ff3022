package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordAdd does nothing.
func (NoopMetrics) RecordAdd(_ context.Context, _ string, _ error) {}

// RecordGet does nothing.
func (NoopMetrics) RecordGet(_ context.Context, _ string, _ error) {}

// RecordRemove does nothing.
func (NoopMetrics) RecordRemove(_ context.Context, _ string, _ error) {}

// RecordNotify does nothing.
func (NoopMetrics) RecordNotify(_ context.Context, _ string, _ int) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartOpSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartOpSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
