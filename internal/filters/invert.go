package filters

import (
	"imageflow/internal/core"
)

// Invert produces the photographic negative: every byte v becomes 255-v,
// across all channels including alpha.
type Invert struct {
	core.Timing
}

// NewInvert returns a host invert filter.
func NewInvert() *Invert {
	return &Invert{}
}

func (f *Invert) ID() string { return "invert" }

func (f *Invert) Name() string { return "Invert" }

func (f *Invert) Clone() core.Filter {
	dup := *f
	return &dup
}

func (f *Invert) SupportsAccelerator() bool { return false }

func (f *Invert) Apply(input *core.Image) (*core.Image, error) {
	defer f.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}

	output := input.CloneEmpty()
	rowLen := input.Width() * input.Channels()
	src, dst := input.Data(), output.Data()
	forEachRow(input.Height(), func(y int) {
		row := y * rowLen
		for i := row; i < row+rowLen; i++ {
			dst[i] = 255 - src[i]
		}
	})
	return output, nil
}
