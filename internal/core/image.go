// Core image data structure: an 8-bit-per-channel raster buffer.
package core

import (
	"fmt"
)

// MaxChannels is the highest channel count an Image may carry
// (grayscale, gray+alpha, RGB, RGBA).
const MaxChannels = 4

// Image owns a contiguous 8-bit raster in row-major, channel-interleaved
// order: pixel (x,y) occupies bytes [(y*width+x)*channels, ...+channels).
//
// An Image has exactly one owner at a time. Filters receive it as read-only
// input and allocate their own output; the pipeline hands the output forward
// to the next stage instead of copying it.
type Image struct {
	width    int
	height   int
	channels int
	pixels   []uint8
}

// NewImage allocates a zero-filled raster. Width and height must be
// positive and channels must be in [1, 4].
func NewImage(width, height, channels int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidDimensions, channels)
	}

	return &Image{
		width:    width,
		height:   height,
		channels: channels,
		pixels:   make([]uint8, width*height*channels),
	}, nil
}

// Width returns the raster width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the raster height in pixels.
func (img *Image) Height() int { return img.height }

// Channels returns the number of interleaved channels per pixel.
func (img *Image) Channels() int { return img.channels }

// Size returns the total byte length (width*height*channels).
func (img *Image) Size() int { return len(img.pixels) }

// Data exposes the raw byte sequence for bulk processing. Callers are
// responsible for respecting the declared dimensions; no per-element
// bounds checks apply on this path.
func (img *Image) Data() []uint8 { return img.pixels }

// Index returns the flat offset of (x, y, channel) without bounds checking.
func (img *Image) Index(x, y, channel int) int {
	return (y*img.width+x)*img.channels + channel
}

// At reads the byte at (x, y, channel) with bounds checking.
func (img *Image) At(x, y, channel int) (uint8, error) {
	if err := img.checkBounds(x, y, channel); err != nil {
		return 0, err
	}
	return img.pixels[img.Index(x, y, channel)], nil
}

// SetAt writes the byte at (x, y, channel) with bounds checking.
func (img *Image) SetAt(x, y, channel int, value uint8) error {
	if err := img.checkBounds(x, y, channel); err != nil {
		return err
	}
	img.pixels[img.Index(x, y, channel)] = value
	return nil
}

func (img *Image) checkBounds(x, y, channel int) error {
	if x < 0 || x >= img.width || y < 0 || y >= img.height ||
		channel < 0 || channel >= img.channels {
		return fmt.Errorf("%w: (%d,%d,%d) outside %dx%dx%d",
			ErrOutOfRange, x, y, channel, img.width, img.height, img.channels)
	}
	return nil
}

// Clone returns an independent deep copy.
func (img *Image) Clone() *Image {
	dup := &Image{
		width:    img.width,
		height:   img.height,
		channels: img.channels,
		pixels:   make([]uint8, len(img.pixels)),
	}
	copy(dup.pixels, img.pixels)
	return dup
}

// CloneEmpty returns a new zero-filled raster with the same dimensions.
// Filters use it to allocate their output before writing.
func (img *Image) CloneEmpty() *Image {
	return &Image{
		width:    img.width,
		height:   img.height,
		channels: img.channels,
		pixels:   make([]uint8, len(img.pixels)),
	}
}

// CloneEmptyWithChannels returns a new zero-filled raster with the same
// width and height but a different channel count (grayscale output).
func (img *Image) CloneEmptyWithChannels(channels int) (*Image, error) {
	return NewImage(img.width, img.height, channels)
}

// String describes the raster for logging.
func (img *Image) String() string {
	return fmt.Sprintf("%dx%dx%d (%d bytes)", img.width, img.height, img.channels, len(img.pixels))
}
