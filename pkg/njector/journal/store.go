// Package journal records registry notifications so a host can audit which
// services were registered and removed, and in what order.
//
// A Recorder subscribes to an Injector's serviceAdded and serviceRemoved
// notifications and appends one Entry per notification to a Store:
//
//	store, err := journal.NewSQLiteStore("./njector.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := journal.Attach(inj, store, logger)
//	defer rec.Detach()
//
// Journal writes never fail the registry operation that triggered them.
// Failed appends are logged and kept for inspection through Recorder.Errors.
package journal

import (
	"errors"
	"time"

	"github.com/randalmurphal/njector/pkg/njector/event"
)

// Store persists journal entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores e and returns it with Sequence assigned.
	// Sequences start at 1 and increase by one per append.
	Append(e Entry) (Entry, error)

	// List returns all entries ordered by sequence.
	// Returns empty slice (not error) if the journal is empty.
	List() ([]Entry, error)

	// ListByKey returns the entries for one service key, ordered by sequence.
	ListByKey(key string) ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one recorded notification.
//
// Sequence is the append order. Notifications can be delivered out of order
// when handlers re-enter the Injector, so the order the registry applied
// changes is Revision within one RunID.
type Entry struct {
	Sequence    int64      `json:"sequence"`
	EventID     string     `json:"event_id"`
	RunID       string     `json:"run_id,omitempty"`
	Revision    uint64     `json:"revision,omitempty"`
	Kind        event.Kind `json:"kind"`
	Key         string     `json:"key"`
	ServiceType string     `json:"service_type,omitempty"` // Go type of the added service; empty for removals
	Timestamp   time.Time  `json:"timestamp"`
}

// After reports whether e was applied after other. Entries from the same run
// compare by Revision; otherwise, or when either has no revision, by Sequence.
func (e Entry) After(other Entry) bool {
	if e.RunID != "" && e.RunID == other.RunID && e.Revision != 0 && other.Revision != 0 {
		return e.Revision > other.Revision
	}
	return e.Sequence > other.Sequence
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrInvalidEntry indicates an entry with an unknown kind.
	ErrInvalidEntry = errors.New("invalid journal entry")
)
