package gpu

import (
	"imageflow/internal/core"
	"imageflow/internal/filters"
)

// RegisterAccelerated re-registers the filters that have GPU kernels,
// adding accelerated constructors bound to ctx. Call it after
// filters.RegisterBuiltins; registration is last-wins, so these entries
// replace the CPU-only ones. The CPU constructors stay available for
// pipelines running in CPU-only mode.
func RegisterAccelerated(reg *core.Registry, ctx *Context) {
	reg.Register(filters.IDGrayscale, core.Entry{
		Name:           "Grayscale",
		Description:    "Converts the image to grayscale",
		HasAccelerator: true,
		NewCPU:         func() core.Filter { return filters.NewGrayscale() },
		NewAccelerated: func() core.Filter { return NewGrayscale(ctx) },
	})

	reg.Register(filters.IDBoxBlur, core.Entry{
		Name:           "Box Blur",
		Description:    "Applies a box blur to the image",
		HasParameters:  true,
		HasAccelerator: true,
		NewCPU:         func() core.Filter { return filters.NewBoxBlur(2) },
		NewAccelerated: func() core.Filter { return NewBoxBlur(ctx, 2) },
	})
}
