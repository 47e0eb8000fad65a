package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated indicates the caller could not be resolved to a tenant.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidFilters indicates a malformed analytics filter set.
	ErrInvalidFilters = errors.New("invalid filters")
)
