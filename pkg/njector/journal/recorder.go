package journal

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/njector/pkg/njector"
	"github.com/randalmurphal/njector/pkg/njector/config"
	"github.com/randalmurphal/njector/pkg/njector/event"
	"github.com/randalmurphal/njector/pkg/njector/observability"
)

// Recorder appends an Entry to a Store for every change of one Injector.
type Recorder struct {
	store  Store
	logger *slog.Logger
	runID  string
	sub    event.Subscription

	mu   sync.Mutex
	errs []error
}

// Attach subscribes a new Recorder to inj. A nil logger disables logging of
// failed appends; they are still available from Errors.
//
// Each Recorder tags its entries with a fresh run ID and the Injector's
// change revision, which Active uses to settle out-of-order notifications.
func Attach(inj *njector.Injector, store Store, logger *slog.Logger) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		runID:  uuid.New().String(),
	}
	r.sub = inj.OnChange(r.record)
	return r
}

// RunID returns the run ID written to this Recorder's entries.
func (r *Recorder) RunID() string {
	return r.runID
}

// Detach stops recording. The store is left open.
func (r *Recorder) Detach() {
	r.sub.Unsubscribe()
}

// Errors returns the append failures seen so far.
func (r *Recorder) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

func (r *Recorder) record(c njector.Change) {
	e := Entry{
		EventID:   uuid.New().String(),
		RunID:     r.runID,
		Revision:  c.Revision,
		Kind:      c.Kind,
		Key:       c.Key,
		Timestamp: time.Now().UTC(),
	}
	if c.Service != nil {
		e.ServiceType = fmt.Sprintf("%T", c.Service)
	}

	if _, err := r.store.Append(e); err != nil {
		observability.LogJournalError(r.logger, e.Kind.String(), e.Key, err)
		r.mu.Lock()
		r.errs = append(r.errs, err)
		r.mu.Unlock()
	}
}

// Open creates the store selected by settings.
// Returns nil, nil when the journal is disabled.
func Open(s config.JournalSettings) (Store, error) {
	switch s.Driver {
	case config.JournalNone, "":
		return nil, nil
	case config.JournalMemory:
		return NewMemoryStore(), nil
	case config.JournalSQLite:
		if s.Path == "" {
			return nil, fmt.Errorf("%w: sqlite journal requires a path", config.ErrInvalidSettings)
		}
		return NewSQLiteStore(s.Path)
	default:
		return nil, fmt.Errorf("%w: unknown journal driver %q", config.ErrInvalidSettings, s.Driver)
	}
}

// Active replays the journal and returns the keys registered at its end,
// ordered by when they were last added. Each key is settled by its latest
// entry according to Entry.After, not by append order.
func Active(store Store) ([]string, error) {
	entries, err := store.List()
	if err != nil {
		return nil, err
	}

	latest := make(map[string]Entry)
	for _, e := range entries {
		if cur, ok := latest[e.Key]; !ok || e.After(cur) {
			latest[e.Key] = e
		}
	}

	active := make([]Entry, 0, len(latest))
	for _, e := range latest {
		if e.Kind == event.ServiceAdded {
			active = append(active, e)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		return active[j].After(active[i])
	})

	keys := make([]string, len(active))
	for i, e := range active {
		keys[i] = e.Key
	}
	return keys, nil
}
