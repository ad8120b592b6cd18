package gpu

import (
	"fmt"

	"imageflow/internal/core"
	"imageflow/internal/filters"
)

// BoxBlur is the accelerated neighborhood average. The kernel accumulates
// in integers, so its output may differ from the host path by one level;
// on any dispatch failure it silently produces the host result instead.
type BoxBlur struct {
	core.Timing
	ctx  *Context
	host *filters.BoxBlur
	path core.ExecutionPath
}

// NewBoxBlur returns an accelerated box blur bound to ctx with the given
// kernel radius.
func NewBoxBlur(ctx *Context, radius int) *BoxBlur {
	return &BoxBlur{ctx: ctx, host: filters.NewBoxBlur(radius)}
}

func (f *BoxBlur) ID() string { return "boxblur" }

func (f *BoxBlur) Name() string {
	return fmt.Sprintf("Box Blur GPU (radius=%d)", f.host.Radius())
}

func (f *BoxBlur) Clone() core.Filter {
	return NewBoxBlur(f.ctx, f.host.Radius())
}

func (f *BoxBlur) SupportsAccelerator() bool { return true }

// LastExecutionPath reports where the most recent Apply ran.
func (f *BoxBlur) LastExecutionPath() core.ExecutionPath { return f.path }

// Radius returns the current kernel radius.
func (f *BoxBlur) Radius() int { return f.host.Radius() }

// SetRadius updates the kernel radius, clamped like the host filter.
func (f *BoxBlur) SetRadius(radius int) { f.host.SetRadius(radius) }

func (f *BoxBlur) Parameters() map[string]any {
	return f.host.Parameters()
}

func (f *BoxBlur) SetParameters(params map[string]any) error {
	return f.host.SetParameters(params)
}

func (f *BoxBlur) Apply(input *core.Image) (*core.Image, error) {
	defer f.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}
	if !f.ctx.Ready() {
		return f.fallback(input, nil)
	}

	output := input.CloneEmpty()
	params := kernelParams{
		width:    uint32(input.Width()),
		height:   uint32(input.Height()),
		channels: uint32(input.Channels()),
		radius:   uint32(f.host.Radius()),
	}
	pixels := input.Width() * input.Height()
	if err := f.ctx.run(f.ctx.boxblur, params, input.Data(), output.Data(), pixels); err != nil {
		return f.fallback(input, err)
	}

	f.path = core.PathAccelerator
	return output, nil
}

func (f *BoxBlur) fallback(input *core.Image, cause error) (*core.Image, error) {
	if cause != nil {
		f.ctx.log.WithError(cause).Warn("box blur GPU dispatch failed, retrying on CPU")
	}
	out, err := f.host.Apply(input)
	if err != nil {
		return nil, err
	}
	f.path = core.PathCPU
	return out, nil
}
