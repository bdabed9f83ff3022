package observability

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors,
// for hosts that scrape instead of exporting through OpenTelemetry.
//
// Series carry no service key label so cardinality stays bounded by the
// number of operations and reasons.
//
// Metrics:
//   - njector_service_adds_total - successful registrations
//   - njector_service_lookups_total{found} - lookups by outcome
//   - njector_service_removes_total - successful removals
//   - njector_service_errors_total{operation,reason} - failed operations
//   - njector_registry_size - services currently registered
//   - njector_observer_notifications_total{kind} - handler invocations
type PrometheusMetrics struct {
	adds          prometheus.Counter
	lookups       *prometheus.CounterVec
	removes       prometheus.Counter
	errors        *prometheus.CounterVec
	size          prometheus.Gauge
	notifications *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer. Registering twice against the
// same registerer fails with prometheus.AlreadyRegisteredError.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		adds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "njector_service_adds_total",
			Help: "Total number of services registered",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "njector_service_lookups_total",
			Help: "Total number of service lookups",
		}, []string{"found"}),
		removes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "njector_service_removes_total",
			Help: "Total number of services removed",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "njector_service_errors_total",
			Help: "Total number of failed registry operations",
		}, []string{"operation", "reason"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "njector_registry_size",
			Help: "Number of services currently registered",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "njector_observer_notifications_total",
			Help: "Total number of observer handler invocations",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.adds, m.lookups, m.removes, m.errors, m.size, m.notifications} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordAdd implements MetricsRecorder.
func (m *PrometheusMetrics) RecordAdd(_ context.Context, _ string, err error) {
	if err != nil {
		m.errors.WithLabelValues("add", errorReason(err)).Inc()
		return
	}
	m.adds.Inc()
	m.size.Inc()
}

// RecordGet implements MetricsRecorder.
func (m *PrometheusMetrics) RecordGet(_ context.Context, _ string, err error) {
	m.lookups.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	if err != nil {
		m.errors.WithLabelValues("get", errorReason(err)).Inc()
	}
}

// RecordRemove implements MetricsRecorder.
func (m *PrometheusMetrics) RecordRemove(_ context.Context, _ string, err error) {
	if err != nil {
		m.errors.WithLabelValues("remove", errorReason(err)).Inc()
		return
	}
	m.removes.Inc()
	m.size.Dec()
}

// RecordNotify implements MetricsRecorder.
func (m *PrometheusMetrics) RecordNotify(_ context.Context, kind string, handlers int) {
	if handlers == 0 {
		return
	}
	m.notifications.WithLabelValues(kind).Add(float64(handlers))
}
