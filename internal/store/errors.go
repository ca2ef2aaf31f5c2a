package store

import "errors"

var (
	// ErrNotFound is returned by backends when a key has never been written.
	ErrNotFound = errors.New("store: key not found")

	// ErrCorrupt is returned by Decode when the stored value exists but
	// cannot be parsed into the requested shape.
	ErrCorrupt = errors.New("store: corrupt value")
)
