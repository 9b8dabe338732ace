package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNoSnapshot   = errors.New("no snapshot yet")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
