package codec

import (
	"fmt"
	"image"
	"image/color"

	"imageflow/internal/core"
)

// ToGoImage converts a raster into a standard library image for display
// and resizing. One channel maps to image.Gray, three and four channels
// to image.NRGBA (opaque alpha when none is present).
func ToGoImage(img *core.Image) (image.Image, error) {
	if img == nil {
		return nil, core.ErrNilImage
	}
	w, h, ch := img.Width(), img.Height(), img.Channels()
	src := img.Data()

	switch ch {
	case 1:
		out := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w], src[y*w:(y+1)*w])
		}
		return out, nil
	case 3, 4:
		out := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * ch
				o := y*out.Stride + x*4
				out.Pix[o] = src[i]
				out.Pix[o+1] = src[i+1]
				out.Pix[o+2] = src[i+2]
				if ch == 4 {
					out.Pix[o+3] = src[i+3]
				} else {
					out.Pix[o+3] = 255
				}
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot display %d-channel image", ch)
	}
}

// FromGoImage converts a standard library image into a 3-channel raster,
// flattening any alpha against black.
func FromGoImage(src image.Image) (*core.Image, error) {
	if src == nil {
		return nil, core.ErrNilImage
	}
	bounds := src.Bounds()
	img, err := core.NewImage(bounds.Dx(), bounds.Dy(), 3)
	if err != nil {
		return nil, err
	}

	dst := img.Data()
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			i += 3
		}
	}
	return img, nil
}
