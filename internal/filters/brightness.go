package filters

import (
	"fmt"

	"imageflow/internal/core"
)

// Brightness scales every channel value by a factor: 1.0 leaves the image
// unchanged, below 1.0 darkens, above 1.0 brightens. Results clamp to
// [0, 255].
type Brightness struct {
	core.Timing
	factor float64
}

// NewBrightness returns a brightness filter with the given factor.
func NewBrightness(factor float64) *Brightness {
	return &Brightness{factor: factor}
}

func (f *Brightness) ID() string { return "brightness" }

func (f *Brightness) Name() string {
	return fmt.Sprintf("Brightness (factor=%.2f)", f.factor)
}

func (f *Brightness) Clone() core.Filter {
	dup := *f
	return &dup
}

func (f *Brightness) SupportsAccelerator() bool { return false }

// Factor returns the current scaling factor.
func (f *Brightness) Factor() float64 { return f.factor }

// SetFactor updates the scaling factor. Negative factors clamp to zero.
func (f *Brightness) SetFactor(factor float64) {
	if factor < 0 {
		factor = 0
	}
	f.factor = factor
}

func (f *Brightness) Parameters() map[string]any {
	return map[string]any{"factor": f.factor}
}

func (f *Brightness) SetParameters(params map[string]any) error {
	if v, ok := params["factor"]; ok {
		n, ok := paramNumber(v)
		if !ok {
			return fmt.Errorf("factor: expected number, got %T", v)
		}
		f.SetFactor(n)
	}
	return nil
}

func (f *Brightness) Apply(input *core.Image) (*core.Image, error) {
	defer f.Track()()
	if input == nil {
		return nil, core.ErrNilImage
	}

	output := input.CloneEmpty()
	rowLen := input.Width() * input.Channels()
	factor := float32(f.factor)
	src, dst := input.Data(), output.Data()
	forEachRow(input.Height(), func(y int) {
		row := y * rowLen
		for i := row; i < row+rowLen; i++ {
			v := float32(src[i]) * factor
			if v > 255 {
				v = 255
			} else if v < 0 {
				v = 0
			}
			dst[i] = uint8(v)
		}
	})
	return output, nil
}
