package filters

import (
	"imageflow/internal/core"
)

// Filter ids as registered by RegisterBuiltins.
const (
	IDGrayscale  = "grayscale"
	IDInvert     = "invert"
	IDBrightness = "brightness"
	IDBoxBlur    = "boxblur"
	IDSepia      = "sepia"
)

// RegisterBuiltins registers the built-in CPU filters. Accelerated
// variants are registered separately and replace these entries where
// hardware support exists.
func RegisterBuiltins(reg *core.Registry) {
	reg.Register(IDGrayscale, core.Entry{
		Name:        "Grayscale",
		Description: "Converts the image to grayscale",
		NewCPU:      func() core.Filter { return NewGrayscale() },
	})

	reg.Register(IDInvert, core.Entry{
		Name:        "Invert",
		Description: "Inverts the image colors",
		NewCPU:      func() core.Filter { return NewInvert() },
	})

	reg.Register(IDBrightness, core.Entry{
		Name:          "Brightness",
		Description:   "Adjusts the image brightness",
		HasParameters: true,
		NewCPU:        func() core.Filter { return NewBrightness(1.0) },
	})

	reg.Register(IDBoxBlur, core.Entry{
		Name:          "Box Blur",
		Description:   "Applies a box blur to the image",
		HasParameters: true,
		NewCPU:        func() core.Filter { return NewBoxBlur(2) },
	})

	reg.Register(IDSepia, core.Entry{
		Name:        "Sepia",
		Description: "Applies a vintage sepia tone effect",
		NewCPU:      func() core.Filter { return NewSepia() },
	})
}
