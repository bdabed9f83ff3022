package journal

import (
	"fmt"
	"sync"
)

// MemoryStore is an in-memory journal.
// Entries are lost when the process exits.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	closed  bool
}

// NewMemoryStore creates a new in-memory journal.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (m *MemoryStore) Append(e Entry) (Entry, error) {
	if !e.Kind.Valid() {
		return Entry{}, fmt.Errorf("%w: kind %q", ErrInvalidEntry, e.Kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Entry{}, ErrStoreClosed
	}

	e.Sequence = int64(len(m.entries)) + 1
	m.entries = append(m.entries, e)
	return e, nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// ListByKey implements Store.
func (m *MemoryStore) ListByKey(key string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Entry, 0)
	for _, e := range m.entries {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the number of entries.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
