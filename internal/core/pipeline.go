package core

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ProcessingMode selects how the pipeline and its loaders pick between CPU
// and accelerated filter variants.
type ProcessingMode int

const (
	// ModeAuto uses accelerated variants when the registry offers them.
	ModeAuto ProcessingMode = iota
	// ModeCPUOnly forces host execution for every filter.
	ModeCPUOnly
	// ModeAcceleratorPreferred is ModeAuto with an explicit user intent;
	// it behaves the same but is reported distinctly.
	ModeAcceleratorPreferred
)

func (m ProcessingMode) String() string {
	switch m {
	case ModeCPUOnly:
		return "cpu"
	case ModeAcceleratorPreferred:
		return "accelerator"
	default:
		return "auto"
	}
}

// PreferAccelerator reports whether filter creation under this mode should
// pick accelerated constructors.
func (m ProcessingMode) PreferAccelerator() bool {
	return m != ModeCPUOnly
}

// ProgressFunc receives completion callbacks during ApplyWithProgress.
// percent is in [0, 100]; name is the filter that just finished.
type ProgressFunc func(percent int, name string)

// Metrics captures the timing profile of one pipeline run.
type Metrics struct {
	TotalTime       time.Duration
	FilterNames     []string
	FilterTimes     []time.Duration
	AcceleratorUsed []bool
}

// Pipeline is an ordered, owned sequence of filters applied back to back.
// The pipeline owns its filters: callers hand them over on Add/Insert and
// must not Apply them concurrently elsewhere. Safe for concurrent reads;
// structural mutation and Apply must not overlap.
type Pipeline struct {
	mu      sync.RWMutex
	filters []Filter
	mode    ProcessingMode
	log     *logrus.Logger
}

// NewPipeline returns an empty pipeline in ModeAuto. A nil logger falls
// back to the standard logger.
func NewPipeline(log *logrus.Logger) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{log: log}
}

// SetMode selects the processing mode used by loaders and reported in
// diagnostics.
func (p *Pipeline) SetMode(mode ProcessingMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = mode
}

// Mode returns the current processing mode.
func (p *Pipeline) Mode() ProcessingMode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// AddFilter appends f to the end of the pipeline.
func (p *Pipeline) AddFilter(f Filter) error {
	if f == nil {
		return ErrNilFilter
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.filters = append(p.filters, f)
	p.log.WithFields(logrus.Fields{
		"filter": f.Name(),
		"size":   len(p.filters),
	}).Debug("filter appended")
	return nil
}

// InsertFilter places f at index, shifting later filters right.
// index == Size() appends.
func (p *Pipeline) InsertFilter(index int, f Filter) error {
	if f == nil {
		return ErrNilFilter
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index > len(p.filters) {
		return fmt.Errorf("%w: insert at %d with %d filter(s)",
			ErrIndexOutOfRange, index, len(p.filters))
	}
	p.filters = append(p.filters, nil)
	copy(p.filters[index+1:], p.filters[index:])
	p.filters[index] = f
	return nil
}

// RemoveFilter deletes the filter at index.
func (p *Pipeline) RemoveFilter(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.filters) {
		return fmt.Errorf("%w: remove at %d with %d filter(s)",
			ErrIndexOutOfRange, index, len(p.filters))
	}
	p.filters = append(p.filters[:index], p.filters[index+1:]...)
	return nil
}

// MoveFilterUp swaps the filter at index with its predecessor. Moving the
// first filter up is a no-op.
func (p *Pipeline) MoveFilterUp(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.filters) {
		return fmt.Errorf("%w: move up at %d with %d filter(s)",
			ErrIndexOutOfRange, index, len(p.filters))
	}
	if index == 0 {
		return nil
	}
	p.filters[index-1], p.filters[index] = p.filters[index], p.filters[index-1]
	return nil
}

// MoveFilterDown swaps the filter at index with its successor. Moving the
// last filter down is a no-op.
func (p *Pipeline) MoveFilterDown(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.filters) {
		return fmt.Errorf("%w: move down at %d with %d filter(s)",
			ErrIndexOutOfRange, index, len(p.filters))
	}
	if index == len(p.filters)-1 {
		return nil
	}
	p.filters[index], p.filters[index+1] = p.filters[index+1], p.filters[index]
	return nil
}

// Clear removes every filter.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = nil
}

// Size returns the number of filters.
func (p *Pipeline) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.filters)
}

// IsEmpty reports whether the pipeline holds no filters.
func (p *Pipeline) IsEmpty() bool {
	return p.Size() == 0
}

// FilterAt returns the filter at index.
func (p *Pipeline) FilterAt(index int) (Filter, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if index < 0 || index >= len(p.filters) {
		return nil, fmt.Errorf("%w: at %d with %d filter(s)",
			ErrIndexOutOfRange, index, len(p.filters))
	}
	return p.filters[index], nil
}

// Apply runs every filter in order. Stage outputs are handed forward as the
// next stage's input without copying. An empty pipeline returns a clone of
// the input. The input image is never mutated.
func (p *Pipeline) Apply(input *Image) (*Image, error) {
	return p.ApplyWithProgress(input, nil)
}

// ApplyWithProgress is Apply with a completion callback after each stage.
// A nil callback is allowed.
func (p *Pipeline) ApplyWithProgress(input *Image, progress ProgressFunc) (*Image, error) {
	out, _, err := p.run(input, progress)
	return out, err
}

// ApplyWithMetrics is Apply plus a per-stage timing profile.
func (p *Pipeline) ApplyWithMetrics(input *Image) (*Image, *Metrics, error) {
	return p.run(input, nil)
}

func (p *Pipeline) run(input *Image, progress ProgressFunc) (*Image, *Metrics, error) {
	if input == nil {
		return nil, nil, ErrNilImage
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	total := time.Now()
	metrics := &Metrics{
		FilterNames:     make([]string, 0, len(p.filters)),
		FilterTimes:     make([]time.Duration, 0, len(p.filters)),
		AcceleratorUsed: make([]bool, 0, len(p.filters)),
	}

	if len(p.filters) == 0 {
		metrics.TotalTime = time.Since(total)
		return input.Clone(), metrics, nil
	}

	current := input
	for i, f := range p.filters {
		out, err := f.Apply(current)
		if err != nil {
			return nil, nil, fmt.Errorf("filter %d (%s): %w", i, f.Name(), err)
		}
		current = out

		accelerated := false
		if reporter, ok := f.(PathReporter); ok {
			accelerated = reporter.LastExecutionPath() == PathAccelerator
		}
		metrics.FilterNames = append(metrics.FilterNames, f.Name())
		metrics.FilterTimes = append(metrics.FilterTimes, f.LastExecutionTime())
		metrics.AcceleratorUsed = append(metrics.AcceleratorUsed, accelerated)

		p.log.WithFields(logrus.Fields{
			"filter":      f.Name(),
			"stage":       i + 1,
			"duration_ms": f.LastExecutionTime().Milliseconds(),
			"accelerated": accelerated,
		}).Debug("filter applied")

		if progress != nil {
			progress((i+1)*100/len(p.filters), f.Name())
		}
	}

	metrics.TotalTime = time.Since(total)
	return current, metrics, nil
}

// Describe returns a one-line summary: "Empty pipeline" or
// "3 filter(s): A → B → C".
func (p *Pipeline) Describe() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.filters) == 0 {
		return "Empty pipeline"
	}
	names := make([]string, len(p.filters))
	for i, f := range p.filters {
		names[i] = f.Name()
	}
	return fmt.Sprintf("%d filter(s): %s", len(p.filters), strings.Join(names, " → "))
}

// ToDetailedString returns a numbered multi-line listing of the stages.
func (p *Pipeline) ToDetailedString() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.filters) == 0 {
		return "Empty pipeline"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pipeline (%d filter(s), mode=%s):\n", len(p.filters), p.mode)
	for i, f := range p.filters {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, f.Name())
	}
	return b.String()
}

// Clone returns a deep copy: every filter is cloned so the copy can run
// independently of the original.
func (p *Pipeline) Clone() *Pipeline {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dup := &Pipeline{
		mode:    p.mode,
		log:     p.log,
		filters: make([]Filter, len(p.filters)),
	}
	for i, f := range p.filters {
		dup.filters[i] = f.Clone()
	}
	return dup
}
