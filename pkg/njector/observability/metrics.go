package observability

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records njector metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordAdd records a registration attempt. A nil err means the service was stored.
	RecordAdd(ctx context.Context, key string, err error)

	// RecordGet records a lookup.
	RecordGet(ctx context.Context, key string, err error)

	// RecordRemove records a removal attempt. A nil err means the entry was deleted.
	RecordRemove(ctx context.Context, key string, err error)

	// RecordNotify records one notification fan-out and how many handlers ran.
	RecordNotify(ctx context.Context, kind string, handlers int)
}

// reasoner is implemented by errors that carry a short machine-readable cause,
// such as *njector.KeyError.
type reasoner interface {
	Reason() string
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	adds          metric.Int64Counter
	lookups       metric.Int64Counter
	removes       metric.Int64Counter
	errors        metric.Int64Counter
	size          metric.Int64UpDownCounter
	notifications metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance on the global provider.
func newOtelMetrics() (*otelMetrics, error) {
	return newOtelMetricsFrom(otel.GetMeterProvider())
}

func newOtelMetricsFrom(provider metric.MeterProvider) (*otelMetrics, error) {
	meter := provider.Meter("njector")

	adds, err := meter.Int64Counter("njector.service.adds",
		metric.WithDescription("Number of services registered"),
	)
	if err != nil {
		return nil, err
	}

	lookups, err := meter.Int64Counter("njector.service.lookups",
		metric.WithDescription("Number of service lookups"),
	)
	if err != nil {
		return nil, err
	}

	removes, err := meter.Int64Counter("njector.service.removes",
		metric.WithDescription("Number of services removed"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("njector.service.errors",
		metric.WithDescription("Number of failed registry operations"),
	)
	if err != nil {
		return nil, err
	}

	size, err := meter.Int64UpDownCounter("njector.registry.size",
		metric.WithDescription("Number of services currently registered"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("njector.observer.notifications",
		metric.WithDescription("Number of handler invocations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		adds:          adds,
		lookups:       lookups,
		removes:       removes,
		errors:        errs,
		size:          size,
		notifications: notifications,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// NewMetricsRecorderFor returns a MetricsRecorder bound to provider
// instead of the global one.
func NewMetricsRecorderFor(provider metric.MeterProvider) (MetricsRecorder, error) {
	m, err := newOtelMetricsFrom(provider)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAdd records a registration attempt.
func (m *otelMetrics) RecordAdd(ctx context.Context, key string, err error) {
	if err != nil {
		m.recordError(ctx, "add", key, err)
		return
	}
	attrs := metric.WithAttributes(attribute.String("service.key", key))
	m.adds.Add(ctx, 1, attrs)
	m.size.Add(ctx, 1)
}

// RecordGet records a lookup.
func (m *otelMetrics) RecordGet(ctx context.Context, key string, err error) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service.key", key),
		attribute.Bool("found", err == nil),
	))
	if err != nil {
		m.recordError(ctx, "get", key, err)
	}
}

// RecordRemove records a removal attempt.
func (m *otelMetrics) RecordRemove(ctx context.Context, key string, err error) {
	if err != nil {
		m.recordError(ctx, "remove", key, err)
		return
	}
	attrs := metric.WithAttributes(attribute.String("service.key", key))
	m.removes.Add(ctx, 1, attrs)
	m.size.Add(ctx, -1)
}

// RecordNotify records a notification fan-out.
func (m *otelMetrics) RecordNotify(ctx context.Context, kind string, handlers int) {
	if handlers == 0 {
		return
	}
	m.notifications.Add(ctx, int64(handlers), metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

func (m *otelMetrics) recordError(ctx context.Context, op, key string, err error) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("service.key", key),
		attribute.String("reason", errorReason(err)),
	))
}

// errorReason returns the Reason of the first reasoner in err's chain, or "unknown".
func errorReason(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		return r.Reason()
	}
	return "unknown"
}
