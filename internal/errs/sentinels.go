// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/client layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyPatch indicates an update request carrying no fields.
	ErrEmptyPatch = errors.New("empty patch")

	// ErrUnsupportedType indicates a card type with no registered configuration.
	ErrUnsupportedType = errors.New("unsupported card type")
)
