package models

import "errors"

var (
	// ErrNotFound indicates the requested photo or album does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID indicates a malformed object id in the request path.
	ErrInvalidID = errors.New("invalid id")
	// ErrValidation indicates a rejected request body or file (wrap with detail).
	ErrValidation = errors.New("validation error")
	// ErrStoreUnavailable indicates the metadata store cannot be reached.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
)
