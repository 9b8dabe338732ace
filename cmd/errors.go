package main

import "errors"

// Sentinel kinds for CLI argument errors.
var (
	errMissingContest = errors.New("exactly one contest id argument is required")
	errInvalidContest = errors.New("contest id must be a positive integer")
)
