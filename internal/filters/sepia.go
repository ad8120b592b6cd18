package filters

import (
	"imageflow/internal/core"
)

// Sepia applies the classic warm-brown tone matrix to the RGB channels.
// Channels beyond the third (alpha) copy through unchanged; images with
// fewer than three channels pass through as-is.
type Sepia struct {
	core.Timing
}

// NewSepia returns a host sepia filter.
func NewSepia() *Sepia {
	return &Sepia{}
}

func (f *Sepia) ID() string { return "sepia" }

func (f *Sepia) Name() string { return "Sepia Tone" }

func (f *Sepia) Clone() core.Filter {
	dup := *f
	return &dup
}

func (f *Sepia) SupportsAccelerator() bool { return false }

func (f *Sepia) Apply(input *core.Image) (*core.Image, error) {
	defer f.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}
	if input.Channels() < 3 {
		return input.Clone(), nil
	}

	output := input.CloneEmpty()
	width, channels := input.Width(), input.Channels()
	src, dst := input.Data(), output.Data()
	forEachRow(input.Height(), func(y int) {
		for x := 0; x < width; x++ {
			i := (y*width + x) * channels
			r := float32(src[i])
			g := float32(src[i+1])
			b := float32(src[i+2])

			dst[i] = clamp255(0.393*r + 0.769*g + 0.189*b)
			dst[i+1] = clamp255(0.349*r + 0.686*g + 0.168*b)
			dst[i+2] = clamp255(0.272*r + 0.534*g + 0.131*b)
			for c := 3; c < channels; c++ {
				dst[i+c] = src[i+c]
			}
		}
	})
	return output, nil
}

func clamp255(v float32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}
