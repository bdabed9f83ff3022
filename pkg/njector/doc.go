/*
Package njector provides a minimal service locator.

An Injector stores service instances under unique string keys and notifies
observers whenever a service is added or removed. It does not construct
services, order them, or manage their lifecycle: callers create the values,
register them, and look them up again by key.

# Services

Any value with a Key method can be registered:

	type Database struct{ dsn string }

	func (d *Database) Key() string { return "db" }

The key reported at registration time is the key the service is stored under.
Changing what Key returns afterwards is not detected.

# Basic Usage

	inj := njector.New()

	if err := inj.Add(&Database{dsn: dsn}); err != nil {
	    // errors.Is(err, njector.ErrDuplicateKey)
	}

	svc, err := inj.Get("db")          // the same *Database that was added
	db, err := njector.GetAs[*Database](inj, "db")

	removed, err := inj.Remove("db")   // true, nil

Get and GetAs return the stored value itself, never a copy. GetAs does not
check the requested type: asking for a type the service does not have panics
like any failed type assertion.

# Observers

Handlers can be attached to either notification:

	sub := inj.OnServiceAdded(func(s njector.Service) {
	    log.Printf("added %s", s.Key())
	})
	defer sub.Unsubscribe()

	inj.OnServiceRemoved(func(key string) {
	    log.Printf("removed %s", key)
	})

Handlers run synchronously, in the order they were attached, before Add or
Remove returns. A failed Add or Remove notifies no one. Handlers may call back
into the Injector and will see the state after the mutation that triggered
them.

# Errors

Two sentinel errors cover every failure:

  - ErrDuplicateKey: Add with a key that is already registered.
  - ErrNotFound: Get or Remove with a key that is not registered.

Both are returned wrapped in a *KeyError carrying the operation and key:

	var keyErr *njector.KeyError
	if errors.As(err, &keyErr) {
	    fmt.Println(keyErr.Op, keyErr.Key)
	}

Remove keeps a boolean result for compatibility. It is true whenever err is
nil; a missing key is reported as ErrNotFound rather than false.

# Concurrency

All methods are safe for concurrent use. When two goroutines Add the same key,
exactly one succeeds and the other receives ErrDuplicateKey; the same holds for
Remove and ErrNotFound.

# Observability

	inj := njector.New(
	    njector.WithLogger(logger),
	    njector.WithMetrics(true),
	    njector.WithTracing(true))

Logs are slog records with a service_key field. OpenTelemetry metrics:
njector.service.adds, njector.service.lookups, njector.service.removes,
njector.service.errors, njector.registry.size, njector.observer.notifications.
Spans: njector.add, njector.get, njector.remove. The Context variants of Add,
Get and Remove parent those spans under the caller's trace.

Hosts that scrape Prometheus instead can pass a recorder explicitly:

	prom, err := observability.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	inj := njector.New(njector.WithMetricsRecorder(prom))

# Journal

OnChange delivers every applied add and remove with a revision assigned under
the registry lock. Package journal uses it to record changes to a memory or
SQLite store, and cmd/njector inspects a SQLite journal from the command line.
*/
package njector
