package njector

import (
	"io"
	"log/slog"
	"os"

	"github.com/randalmurphal/njector/pkg/njector/config"
	"github.com/randalmurphal/njector/pkg/njector/observability"
)

// Option configures an Injector.
type Option func(*Injector)

// WithLogger sets the logger for registry events.
// Default: slog.Default(). A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(inj *Injector) {
		inj.logger = logger
	}
}

// WithMetrics enables or disables OpenTelemetry metrics.
// Default: disabled.
//
// Metrics use the global meter provider; configure it with
// otel.SetMeterProvider before creating the Injector.
func WithMetrics(enabled bool) Option {
	return func(inj *Injector) {
		if enabled {
			inj.metrics = observability.NewMetricsRecorder()
		} else {
			inj.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
// A nil recorder disables metrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(inj *Injector) {
		if m == nil {
			m = observability.NoopMetrics{}
		}
		inj.metrics = m
	}
}

// WithTracing enables or disables OpenTelemetry spans around Add, Get and Remove.
// Default: disabled.
func WithTracing(enabled bool) Option {
	return func(inj *Injector) {
		if enabled {
			inj.spans = observability.NewSpanManager()
		} else {
			inj.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager.
// A nil manager disables tracing.
func WithSpanManager(s observability.SpanManager) Option {
	return func(inj *Injector) {
		if s == nil {
			s = observability.NoopSpanManager{}
		}
		inj.spans = s
	}
}

// OptionsFromSettings converts loaded settings into Injector options.
// Logs are written as JSON to w, or to os.Stderr if w is nil.
//
// The journal section is not handled here; open it with journal.Open and
// attach it with journal.Attach.
func OptionsFromSettings(s config.Settings, w io.Writer) []Option {
	if w == nil {
		w = os.Stderr
	}
	return []Option{
		WithLogger(observability.NewLogger(w, s.LogLevel)),
		WithMetrics(s.Metrics),
		WithTracing(s.Tracing),
	}
}
