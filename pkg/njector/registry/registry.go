package registry

import "sync"

// Registry is a thread-safe map of values indexed by key.
// It uses sync.RWMutex since lookups far outnumber mutations.
type Registry[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]V
	revision uint64
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Insert stores value under key if the key is absent.
// Returns false, leaving the registry unchanged, if the key already exists.
func (r *Registry[K, V]) Insert(key K, value V) bool {
	_, ok := r.InsertRevision(key, value)
	return ok
}

// InsertRevision is Insert that also returns the revision assigned to the
// change. Revisions start at 1 and increase by one per successful Insert or
// Delete; failed calls return 0.
func (r *Registry[K, V]) InsertRevision(key K, value V) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return 0, false
	}
	r.entries[key] = value
	r.revision++
	return r.revision, true
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Delete removes a key and returns the value it held.
// Returns the zero value and false if the key was not present.
func (r *Registry[K, V]) Delete(key K) (V, bool) {
	v, _, ok := r.DeleteRevision(key)
	return v, ok
}

// DeleteRevision is Delete that also returns the revision assigned to the change.
func (r *Registry[K, V]) DeleteRevision(key K) (V, uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.entries[key]
	if !ok {
		return v, 0, false
	}
	delete(r.entries, key)
	r.revision++
	return v, r.revision, true
}

// Revision returns the revision of the most recent change, or 0 if the
// registry was never modified.
func (r *Registry[K, V]) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// Keys returns all keys in the registry.
// The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
