package core

import "time"

// ExecutionPath records where a filter's last Apply actually ran. Filters
// with an accelerator variant may fall back to the host transparently; the
// path is a diagnostic, never part of the result contract.
type ExecutionPath int

const (
	// PathNone means the filter has not run yet.
	PathNone ExecutionPath = iota
	// PathCPU means the last run executed on the host.
	PathCPU
	// PathAccelerator means the last run executed on the GPU.
	PathAccelerator
)

func (p ExecutionPath) String() string {
	switch p {
	case PathCPU:
		return "cpu"
	case PathAccelerator:
		return "accelerator"
	default:
		return "none"
	}
}

// Filter is a single image transformation. Apply never mutates its input:
// it allocates a fresh output image (same width and height; channel count
// may change, grayscale emits one channel). On error the returned image is
// nil. Implementations must be safe to Apply repeatedly; a Filter instance
// is not required to be safe for concurrent Apply calls.
type Filter interface {
	// Apply transforms input into a newly allocated output image.
	Apply(input *Image) (*Image, error)

	// Name returns a human-readable display name, including any
	// parameters ("Box Blur (radius=3)").
	Name() string

	// Clone returns an independent copy with identical parameters.
	Clone() Filter

	// SupportsAccelerator reports whether this instance dispatches to
	// GPU hardware when available.
	SupportsAccelerator() bool

	// LastExecutionTime returns the wall-clock duration of the most
	// recent Apply, or zero if the filter has not run.
	LastExecutionTime() time.Duration
}

// PathReporter is implemented by filters that can say where their last
// Apply ran. CPU-only filters may omit it.
type PathReporter interface {
	LastExecutionPath() ExecutionPath
}

// Parameterized is implemented by filters with tunable parameters. The
// parameter map uses JSON-compatible values (float64 for all numbers) so
// pipeline documents round-trip without a schema.
type Parameterized interface {
	Parameters() map[string]any
	SetParameters(params map[string]any) error
}

// Timing is an embeddable helper that records the duration of the most
// recent run. Filters call Track at the top of Apply and defer the
// returned stop function.
type Timing struct {
	last time.Duration
}

// Track starts a timer; the returned function stores the elapsed time.
func (t *Timing) Track() func() {
	start := time.Now()
	return func() {
		t.last = time.Since(start)
	}
}

// LastExecutionTime returns the duration of the most recent tracked run.
func (t *Timing) LastExecutionTime() time.Duration {
	return t.last
}
