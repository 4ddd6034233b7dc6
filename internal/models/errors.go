package models

import "errors"

var (
	// ErrInvalidInput reports arguments the refinement engine cannot work
	// with: too few seed points, empty curves, non-positive spacing or
	// negative band/step sizes. No partial work is done when it is returned.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateGeometry reports zero-length segments or tangents. It is
	// recoverable: affected samples carry a zero normal.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
