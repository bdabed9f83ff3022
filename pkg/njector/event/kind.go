package event

// Kind identifies a registry notification.
type Kind string

const (
	// ServiceAdded is emitted after a service is stored. Handlers receive the service.
	ServiceAdded Kind = "serviceAdded"

	// ServiceRemoved is emitted after a service is deleted. Handlers receive its key.
	ServiceRemoved Kind = "serviceRemoved"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case ServiceAdded, ServiceRemoved:
		return true
	default:
		return false
	}
}
