package core

// Environment is a read-only source of named properties.
type Environment interface {
	// Get returns the value of the property and whether it is set at all.
	Get(name string) (string, bool)
}
