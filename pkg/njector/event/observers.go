package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler receives notifications of type T.
type Handler[T any] func(T)

// Subscription represents an attached handler.
type Subscription interface {
	// ID uniquely identifies the subscription.
	ID() string

	// Unsubscribe detaches the handler. Calling it more than once is a no-op.
	Unsubscribe()
}

// Observers is an ordered, concurrency-safe list of handlers.
// The zero value is ready to use and must not be copied after first use.
type Observers[T any] struct {
	mu      sync.RWMutex
	entries []*subscription[T]
}

// subscription is the Subscription implementation for Observers.
type subscription[T any] struct {
	id       string
	handler  Handler[T]
	detached atomic.Bool
	list     *Observers[T]
}

// Subscribe appends handler to the list.
// A nil handler returns a subscription that is already detached.
func (o *Observers[T]) Subscribe(handler Handler[T]) Subscription {
	sub := &subscription[T]{
		id:      uuid.New().String(),
		handler: handler,
		list:    o,
	}
	if handler == nil {
		sub.detached.Store(true)
		return sub
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = append(o.entries, sub)
	return sub
}

// Emit calls every attached handler with v, in subscription order.
// Returns the number of handlers invoked.
func (o *Observers[T]) Emit(v T) int {
	o.mu.RLock()
	if len(o.entries) == 0 {
		o.mu.RUnlock()
		return 0
	}
	snapshot := make([]*subscription[T], len(o.entries))
	copy(snapshot, o.entries)
	o.mu.RUnlock()

	called := 0
	for _, sub := range snapshot {
		// Detached after the snapshot was taken
		if sub.detached.Load() {
			continue
		}
		sub.handler(v)
		called++
	}
	return called
}

// Len returns the number of attached handlers.
func (o *Observers[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// remove drops sub from the list, preserving the order of the rest.
func (o *Observers[T]) remove(sub *subscription[T]) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, entry := range o.entries {
		if entry == sub {
			o.entries = slices.Delete(o.entries, i, i+1)
			return
		}
	}
}

// ID implements Subscription.
func (s *subscription[T]) ID() string {
	return s.id
}

// Unsubscribe implements Subscription.
func (s *subscription[T]) Unsubscribe() {
	if !s.detached.CompareAndSwap(false, true) {
		return
	}
	s.list.remove(s)
}
