// Package common defines shared constants and sentinel errors used across
// the TAXII server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Caller contract violations, surfaced as client errors.
	ErrMissingCollectionID = errors.New("missing collection identifier")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotAcceptable       = errors.New("not acceptable")

	// Pagination errors.
	ErrPageOutOfRange = errors.New("page out of range")
)
