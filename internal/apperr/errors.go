// Package apperr holds the sentinel errors callers branch on with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrResourceUnavailable marks a resource whose underlying file is missing.
	ErrResourceUnavailable = errors.New("resource unavailable")
	ErrInvalidTemplate     = errors.New("invalid template")
	ErrUnknownEvent        = errors.New("unknown event")
)
