package njector

import (
	"context"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/njector/pkg/njector/event"
	"github.com/randalmurphal/njector/pkg/njector/observability"
	"github.com/randalmurphal/njector/pkg/njector/registry"
)

// Injector is a keyed store of services with add/remove notifications.
// Create one with New; the zero value is not usable.
type Injector struct {
	services *registry.Registry[string, Service]

	added   event.Observers[Service]
	removed event.Observers[string]
	changes event.Observers[Change]

	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// Compile-time interface check.
var _ ServiceLocator = (*Injector)(nil)

// New creates an empty Injector.
func New(opts ...Option) *Injector {
	inj := &Injector{
		services: registry.New[string, Service](),
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(inj)
	}
	return inj
}

// Add registers service under service.Key().
// Returns ErrDuplicateKey if the key is already taken.
// Panics if service is nil.
func (inj *Injector) Add(service Service) error {
	return inj.AddContext(context.Background(), service)
}

// AddContext is Add with a context for tracing and metrics.
func (inj *Injector) AddContext(ctx context.Context, service Service) (err error) {
	if service == nil {
		panic("njector: Add called with nil service")
	}
	key := service.Key()

	ctx, span := inj.spans.StartOpSpan(ctx, OpAdd, key)
	defer func() { inj.spans.EndSpanWithError(span, err) }()

	rev, ok := inj.services.InsertRevision(key, service)
	if !ok {
		err = &KeyError{Op: OpAdd, Key: key, Err: ErrDuplicateKey}
		inj.metrics.RecordAdd(ctx, key, err)
		observability.LogDuplicateKey(inj.logger, key)
		return err
	}
	inj.metrics.RecordAdd(ctx, key, nil)

	// Store lock is released here so handlers can re-enter
	n := inj.added.Emit(service)
	n += inj.changes.Emit(Change{Kind: event.ServiceAdded, Key: key, Service: service, Revision: rev})
	inj.notified(ctx, event.ServiceAdded, n)
	observability.LogServiceAdded(inj.logger, key, n)
	return nil
}

// Get returns the service registered under key, exactly as it was added.
// Returns ErrNotFound if the key is not registered.
func (inj *Injector) Get(key string) (Service, error) {
	return inj.GetContext(context.Background(), key)
}

// GetContext is Get with a context for tracing and metrics.
func (inj *Injector) GetContext(ctx context.Context, key string) (svc Service, err error) {
	ctx, span := inj.spans.StartOpSpan(ctx, OpGet, key)
	defer func() { inj.spans.EndSpanWithError(span, err) }()

	svc, ok := inj.services.Get(key)
	if !ok {
		err = &KeyError{Op: OpGet, Key: key, Err: ErrNotFound}
		inj.metrics.RecordGet(ctx, key, err)
		observability.LogNotFound(inj.logger, OpGet, key)
		return nil, err
	}
	inj.metrics.RecordGet(ctx, key, nil)
	return svc, nil
}

// Remove unregisters the service under key and returns true.
// Returns false and ErrNotFound if the key is not registered.
func (inj *Injector) Remove(key string) (bool, error) {
	return inj.RemoveContext(context.Background(), key)
}

// RemoveContext is Remove with a context for tracing and metrics.
func (inj *Injector) RemoveContext(ctx context.Context, key string) (removed bool, err error) {
	ctx, span := inj.spans.StartOpSpan(ctx, OpRemove, key)
	defer func() { inj.spans.EndSpanWithError(span, err) }()

	_, rev, ok := inj.services.DeleteRevision(key)
	if !ok {
		err = &KeyError{Op: OpRemove, Key: key, Err: ErrNotFound}
		inj.metrics.RecordRemove(ctx, key, err)
		observability.LogNotFound(inj.logger, OpRemove, key)
		return false, err
	}
	inj.metrics.RecordRemove(ctx, key, nil)

	n := inj.removed.Emit(key)
	n += inj.changes.Emit(Change{Kind: event.ServiceRemoved, Key: key, Revision: rev})
	inj.notified(ctx, event.ServiceRemoved, n)
	observability.LogServiceRemoved(inj.logger, key, n)
	return true, nil
}

// OnServiceAdded attaches a handler called with each newly added service.
func (inj *Injector) OnServiceAdded(handler func(Service)) event.Subscription {
	return inj.added.Subscribe(handler)
}

// OnServiceRemoved attaches a handler called with the key of each removed service.
func (inj *Injector) OnServiceRemoved(handler func(key string)) event.Subscription {
	return inj.removed.Subscribe(handler)
}

// Has reports whether a service is registered under key.
func (inj *Injector) Has(key string) bool {
	return inj.services.Has(key)
}

// Keys returns the registered keys in sorted order.
func (inj *Injector) Keys() []string {
	keys := inj.services.Keys()
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered services.
func (inj *Injector) Len() int {
	return inj.services.Len()
}

func (inj *Injector) notified(ctx context.Context, kind event.Kind, handlers int) {
	inj.metrics.RecordNotify(ctx, kind.String(), handlers)
	inj.spans.AddSpanEvent(ctx, "njector.notify",
		attribute.String("kind", kind.String()),
		attribute.Int("handlers", handlers),
	)
}
