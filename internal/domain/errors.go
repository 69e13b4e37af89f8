package domain

import "errors"

var (
	// ErrConfiguration marks missing or unusable process configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks invalid operator input.
	ErrValidation = errors.New("validation error")
	// ErrUpstream marks a transport failure or unexpected HTTP status from a vendor API.
	ErrUpstream = errors.New("upstream error")
	// ErrNotFound marks a batch lookup that scanned the whole export without a match.
	ErrNotFound = errors.New("not found")
)
