package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrSourceUnusable marks a configured source whose payload produced
	// no extractable rows. The ingest run records it and moves on.
	ErrSourceUnusable = errors.New("source unusable")
)
