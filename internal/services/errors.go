package services

import "errors"

// Error categories surfaced to the HTTP layer.
var (
	// ErrStorage covers connection failures, query errors and constraint
	// violations alike.
	ErrStorage = errors.New("storage operation failed")
	// ErrInvalidRequest is returned for bodies that cannot be decoded or
	// fail validation.
	ErrInvalidRequest = errors.New("invalid request")
)
