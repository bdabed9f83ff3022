// Package event provides the observer lists njector uses to announce registry
// changes.
//
// # Overview
//
// An Observers[T] is an ordered list of handlers for one kind of notification.
// Handlers are attached with Subscribe and detached through the returned
// Subscription. Emit delivers a value to every attached handler synchronously,
// in the order they subscribed, and returns once the last handler returns.
//
//	var added event.Observers[string]
//
//	sub := added.Subscribe(func(key string) {
//	    log.Printf("registered %s", key)
//	})
//	defer sub.Unsubscribe()
//
//	added.Emit("db") // handler runs before Emit returns
//
// # Delivery Rules
//
//   - Emit takes a snapshot of the handler list, then releases its lock before
//     calling handlers. Handlers may Subscribe, Unsubscribe or Emit again.
//   - A handler attached while an Emit is running is not called for that Emit.
//   - A handler detached before its turn in a running Emit is skipped.
//   - Handler panics are not recovered; they propagate to the Emit caller.
//
// There are no wildcard subscriptions and no RemoveAll: the only way to detach
// a handler is through its own Subscription.
//
// # Kinds
//
// Kind names the two notifications njector emits, ServiceAdded and
// ServiceRemoved. They are used as metric attributes and journal entry types.
package event
