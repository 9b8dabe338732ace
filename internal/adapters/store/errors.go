package store

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound = errors.New("not found")
)
