// Package registry provides a generic thread-safe store for values indexed by key.
//
// Registry is the storage layer beneath njector.Injector. Unlike a plain map
// guarded by a mutex, its mutating operations are conditional: Insert only
// succeeds when the key is absent and Delete only succeeds when it is present.
// Each check and its mutation happen under a single write lock, so two
// goroutines racing on the same key can never both win.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//
//	if !r.Insert("one", 1) {
//	    // "one" was already taken
//	}
//
//	value, ok := r.Get("one")
//	if ok {
//	    fmt.Println(value) // Output: 1
//	}
//
//	removed, ok := r.Delete("one")
//
// There is no overwrite and no GetOrCreate. A key that exists must
// be deleted before it can be inserted again.
//
// Every successful Insert or Delete is assigned the next revision under the
// same lock that guards the mutation, so revisions order changes exactly as
// they were applied:
//
//	rev, ok := r.InsertRevision("two", 2)
//	_, next, ok := r.DeleteRevision("two") // next == rev+1
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use.
package registry
