package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageflow/internal/core"
)

func TestPreviewImageKeepsSmallImages(t *testing.T) {
	img, err := core.NewImage(100, 50, 3)
	require.NoError(t, err)

	out, err := PreviewImage(img, 200, 200)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestPreviewImageDownscalesLargeImages(t *testing.T) {
	img, err := core.NewImage(400, 200, 3)
	require.NoError(t, err)

	out, err := PreviewImage(img, 100, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, out.Bounds().Dx(), 100)
	assert.LessOrEqual(t, out.Bounds().Dy(), 100)
	// Aspect ratio survives the downscale.
	assert.Equal(t, out.Bounds().Dx(), out.Bounds().Dy()*2)
}

func TestPreviewImageNilInput(t *testing.T) {
	_, err := PreviewImage(nil, 100, 100)
	assert.ErrorIs(t, err, core.ErrNilImage)
}
