package scene

import "errors"

var (
	// ErrNotFound indicates an identity with no registered handle.
	ErrNotFound = errors.New("scene: identity not registered")

	// ErrInvalidSize indicates a negative element count or an empty value domain.
	ErrInvalidSize = errors.New("scene: invalid array size or value range")
)
