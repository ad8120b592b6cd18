package core

import "errors"

// Sentinel errors returned by the core types. Callers match them with
// errors.Is after unwrapping.
var (
	// ErrInvalidDimensions reports an image construction with a
	// non-positive size or an unsupported channel count.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrOutOfRange reports a pixel access outside the raster.
	ErrOutOfRange = errors.New("pixel coordinates out of range")

	// ErrNilFilter reports an attempt to add a nil filter to a pipeline.
	ErrNilFilter = errors.New("nil filter")

	// ErrIndexOutOfRange reports a pipeline slot index outside [0, size].
	ErrIndexOutOfRange = errors.New("filter index out of range")

	// ErrFilterNotFound reports a registry lookup for an unknown id.
	ErrFilterNotFound = errors.New("filter not found in registry")

	// ErrNilImage reports a filter invocation with no input image.
	ErrNilImage = errors.New("nil input image")
)
