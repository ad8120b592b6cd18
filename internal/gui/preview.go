package gui

import (
	"image"

	"github.com/nfnt/resize"

	"imageflow/internal/codec"
	"imageflow/internal/core"
)

const (
	maxPreviewWidth  = 1280
	maxPreviewHeight = 960
)

// PreviewImage converts a raster for on-screen display, downscaling to
// fit within maxW x maxH while preserving aspect ratio. Images already
// within bounds are returned at full size.
func PreviewImage(img *core.Image, maxW, maxH int) (image.Image, error) {
	goImg, err := codec.ToGoImage(img)
	if err != nil {
		return nil, err
	}
	bounds := goImg.Bounds()
	if bounds.Dx() <= maxW && bounds.Dy() <= maxH {
		return goImg, nil
	}
	return resize.Thumbnail(uint(maxW), uint(maxH), goImg, resize.Bilinear), nil
}
