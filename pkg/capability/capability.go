// Package capability models optional collaborators as an explicit
// available/unavailable value instead of a nilable reference. Workflows
// check the capability once and degrade to a logged no-op when it is
// absent.
package capability

// Capability wraps a dependency that may be absent at wiring time.
// The zero value is unavailable.
type Capability[T any] struct {
	value     T
	available bool
}

// Available wraps a present dependency.
func Available[T any](v T) Capability[T] {
	return Capability[T]{value: v, available: true}
}

// Unavailable returns an absent capability.
func Unavailable[T any]() Capability[T] {
	return Capability[T]{}
}

// Get returns the wrapped value and whether it is available.
func (c Capability[T]) Get() (T, bool) {
	return c.value, c.available
}

// IsAvailable reports whether the dependency is present.
func (c Capability[T]) IsAvailable() bool {
	return c.available
}
