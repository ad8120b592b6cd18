package gpu

import (
	"imageflow/internal/core"
	"imageflow/internal/filters"
)

// Grayscale is the accelerated luminance conversion. On any dispatch
// failure it silently produces the host result instead.
type Grayscale struct {
	core.Timing
	ctx  *Context
	host *filters.Grayscale
	path core.ExecutionPath
}

// NewGrayscale returns an accelerated grayscale filter bound to ctx. A
// nil or not-ready context makes every Apply run on the host.
func NewGrayscale(ctx *Context) *Grayscale {
	return &Grayscale{ctx: ctx, host: filters.NewGrayscale()}
}

func (g *Grayscale) ID() string { return "grayscale" }

func (g *Grayscale) Name() string { return "Grayscale (GPU)" }

func (g *Grayscale) Clone() core.Filter {
	return NewGrayscale(g.ctx)
}

func (g *Grayscale) SupportsAccelerator() bool { return true }

// LastExecutionPath reports where the most recent Apply ran.
func (g *Grayscale) LastExecutionPath() core.ExecutionPath { return g.path }

func (g *Grayscale) Apply(input *core.Image) (*core.Image, error) {
	defer g.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}
	// Sub-RGB inputs are already gray; nothing to dispatch.
	if input.Channels() < 3 {
		g.path = core.PathCPU
		return input.Clone(), nil
	}
	if !g.ctx.Ready() {
		return g.fallback(input, nil)
	}

	output, err := input.CloneEmptyWithChannels(1)
	if err != nil {
		return nil, err
	}
	params := kernelParams{
		width:    uint32(input.Width()),
		height:   uint32(input.Height()),
		channels: uint32(input.Channels()),
	}
	pixels := input.Width() * input.Height()
	if err := g.ctx.run(g.ctx.grayscale, params, input.Data(), output.Data(), pixels); err != nil {
		return g.fallback(input, err)
	}

	g.path = core.PathAccelerator
	return output, nil
}

func (g *Grayscale) fallback(input *core.Image, cause error) (*core.Image, error) {
	if cause != nil {
		g.ctx.log.WithError(cause).Warn("grayscale GPU dispatch failed, retrying on CPU")
	}
	out, err := g.host.Apply(input)
	if err != nil {
		return nil, err
	}
	g.path = core.PathCPU
	return out, nil
}
