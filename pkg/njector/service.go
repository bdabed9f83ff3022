package njector

// Service is anything that can be stored in an Injector.
type Service interface {
	// Key returns the unique name the service is registered under.
	Key() string
}

// ServiceLocator is the lookup surface of an Injector.
// Depend on it where only add, get, and remove are needed.
type ServiceLocator interface {
	// Add registers a service under its key.
	Add(service Service) error

	// Get returns the service registered under key.
	Get(key string) (Service, error)

	// Remove unregisters the service under key.
	Remove(key string) (bool, error)
}

// GetAs looks up key and narrows the result to T.
//
// No type check is performed beyond Go's own assertion: if the stored service
// is not a T, GetAs panics. Lookup failures are returned as errors.
func GetAs[T Service](locator ServiceLocator, key string) (T, error) {
	svc, err := locator.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return svc.(T), nil
}
