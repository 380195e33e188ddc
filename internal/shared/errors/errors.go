package errors

import "errors"

// Domain errors
var (
	// Input errors
	ErrInvalidURL    = errors.New("invalid url")
	ErrEmptyURL      = errors.New("url cannot be empty")
	ErrInvalidMethod = errors.New("unsupported probe method")

	// Probe errors
	ErrProbeFailed  = errors.New("probe failed")
	ErrProbeTimeout = errors.New("probe timed out")
)
