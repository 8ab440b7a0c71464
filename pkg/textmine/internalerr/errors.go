package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrColumnNotFound   = errors.New("column not found")
	ErrStoreUnavailable = errors.New("store unavailable")
)
