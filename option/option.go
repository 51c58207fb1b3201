// Package option holds the functional options type shared by every
// configurable component.
package option

// Option configures a value of type T.
type Option[T any] func(*T)
