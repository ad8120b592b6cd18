// Package codec loads and saves rasters through OpenCV and converts
// between the engine's image type and Go's image.Image.
package codec

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"imageflow/internal/core"
)

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

// Loader handles image file operations.
type Loader struct {
	log *logrus.Logger
}

// NewLoader returns a file loader. A nil logger falls back to the
// standard logger.
func NewLoader(log *logrus.Logger) *Loader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loader{log: log}
}

// Load reads the image at path as a 3-channel RGB raster.
func (l *Loader) Load(path string) (*core.Image, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return nil, fmt.Errorf("failed to load image: %s", path)
	}
	defer mat.Close()

	img, err := core.NewImage(mat.Cols(), mat.Rows(), mat.Channels())
	if err != nil {
		return nil, err
	}
	copy(img.Data(), mat.ToBytes())
	// OpenCV stores channels as BGR.
	swapRedBlue(img)

	l.log.WithFields(logrus.Fields{
		"path":     path,
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
	}).Info("image loaded")
	return img, nil
}

// Save writes img to path; the encoder is chosen by file extension.
// Two-channel rasters have no encoder representation.
func (l *Loader) Save(path string, img *core.Image) error {
	if img == nil || img.Size() == 0 {
		return fmt.Errorf("cannot save empty image")
	}
	if !IsSupportedFormat(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	var matType gocv.MatType
	switch img.Channels() {
	case 1:
		matType = gocv.MatTypeCV8UC1
	case 3:
		matType = gocv.MatTypeCV8UC3
	case 4:
		matType = gocv.MatTypeCV8UC4
	default:
		return fmt.Errorf("cannot encode %d-channel image", img.Channels())
	}

	// Back to OpenCV's BGR order without touching the caller's raster.
	bgr := img.Clone()
	swapRedBlue(bgr)

	mat, err := gocv.NewMatFromBytes(img.Height(), img.Width(), matType, bgr.Data())
	if err != nil {
		return fmt.Errorf("creating mat: %w", err)
	}
	defer mat.Close()

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	l.log.WithFields(logrus.Fields{
		"path":     path,
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
	}).Info("image saved")
	return nil
}

// SupportedFormats returns the recognized file extensions.
func (l *Loader) SupportedFormats() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}

// IsSupportedFormat reports whether path has a recognized image
// extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(fileExtension(path))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

func fileExtension(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' || path[i] == '\\' {
			break
		}
	}
	return ""
}

// swapRedBlue exchanges the first and third channel in place for 3- and
// 4-channel rasters; others are left alone.
func swapRedBlue(img *core.Image) {
	ch := img.Channels()
	if ch < 3 {
		return
	}
	data := img.Data()
	for i := 0; i < len(data); i += ch {
		data[i], data[i+2] = data[i+2], data[i]
	}
}
