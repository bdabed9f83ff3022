package njector

import "github.com/randalmurphal/njector/pkg/njector/event"

// Change describes one applied registry mutation.
//
// Revision is assigned under the registry lock, so it orders changes as they
// were applied even when handlers re-enter the Injector and notifications
// arrive out of order.
type Change struct {
	Kind     event.Kind
	Key      string
	Service  Service // nil for removals
	Revision uint64
}

// OnChange attaches a handler called for every successful add and remove.
// For a given change it runs after the OnServiceAdded or OnServiceRemoved
// handlers.
func (inj *Injector) OnChange(handler func(Change)) event.Subscription {
	return inj.changes.Subscribe(handler)
}

// Revision returns the revision of the most recent change, or 0 if nothing
// was ever added.
func (inj *Injector) Revision() uint64 {
	return inj.services.Revision()
}
