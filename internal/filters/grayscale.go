package filters

import (
	"imageflow/internal/core"
)

// Grayscale converts an RGB(A) image to a single-channel luminance image
// using the ITU-R BT.601 weights. Images with fewer than three channels
// are already gray and pass through unchanged.
type Grayscale struct {
	core.Timing
}

// NewGrayscale returns a host grayscale filter.
func NewGrayscale() *Grayscale {
	return &Grayscale{}
}

func (f *Grayscale) ID() string { return "grayscale" }

func (f *Grayscale) Name() string { return "Grayscale" }

func (f *Grayscale) Clone() core.Filter {
	dup := *f
	return &dup
}

func (f *Grayscale) SupportsAccelerator() bool { return false }

func (f *Grayscale) Apply(input *core.Image) (*core.Image, error) {
	defer f.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}
	if input.Channels() < 3 {
		return input.Clone(), nil
	}

	output, err := input.CloneEmptyWithChannels(1)
	if err != nil {
		return nil, err
	}

	width, channels := input.Width(), input.Channels()
	src, dst := input.Data(), output.Data()
	forEachRow(input.Height(), func(y int) {
		for x := 0; x < width; x++ {
			i := (y*width + x) * channels
			r := float32(src[i])
			g := float32(src[i+1])
			b := float32(src[i+2])
			dst[y*width+x] = uint8(0.299*r + 0.587*g + 0.114*b)
		}
	})
	return output, nil
}
