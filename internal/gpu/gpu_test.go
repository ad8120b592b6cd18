package gpu

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageflow/internal/core"
	"imageflow/internal/filters"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func gradientImage(t *testing.T, w, h, ch int) *core.Image {
	t.Helper()
	img, err := core.NewImage(w, h, ch)
	require.NoError(t, err)
	data := img.Data()
	for i := range data {
		data[i] = uint8(i * 7)
	}
	return img
}

// A nil context must behave exactly like the host filter: the fallback
// protocol is the contract, hardware is an optimization.
func TestGrayscaleFallsBackWithoutDevice(t *testing.T) {
	f := NewGrayscale(nil)
	input := gradientImage(t, 8, 8, 3)

	out, err := f.Apply(input)
	require.NoError(t, err)
	assert.Equal(t, core.PathCPU, f.LastExecutionPath())

	want, err := filters.NewGrayscale().Apply(input)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), out.Data())
	assert.Equal(t, 1, out.Channels())
}

func TestBoxBlurFallsBackWithoutDevice(t *testing.T) {
	f := NewBoxBlur(nil, 2)
	input := gradientImage(t, 8, 8, 3)

	out, err := f.Apply(input)
	require.NoError(t, err)
	assert.Equal(t, core.PathCPU, f.LastExecutionPath())

	want, err := filters.NewBoxBlur(2).Apply(input)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), out.Data())
}

func TestNotReadyContextFallsBack(t *testing.T) {
	// A context whose device acquisition failed stays usable.
	ctx := &Context{log: testLogger()}
	assert.False(t, ctx.Ready())

	f := NewGrayscale(ctx)
	out, err := f.Apply(gradientImage(t, 4, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, core.PathCPU, f.LastExecutionPath())
	assert.Equal(t, 1, out.Channels())
}

func TestGrayscaleSingleChannelPassesThrough(t *testing.T) {
	f := NewGrayscale(nil)
	input := gradientImage(t, 4, 4, 1)

	out, err := f.Apply(input)
	require.NoError(t, err)
	assert.Equal(t, input.Data(), out.Data())
}

func TestAcceleratedFiltersRejectNilInput(t *testing.T) {
	_, err := NewGrayscale(nil).Apply(nil)
	assert.ErrorIs(t, err, core.ErrNilImage)
	_, err = NewBoxBlur(nil, 1).Apply(nil)
	assert.ErrorIs(t, err, core.ErrNilImage)
}

func TestBoxBlurParametersDelegate(t *testing.T) {
	f := NewBoxBlur(nil, 3)
	assert.Equal(t, "Box Blur GPU (radius=3)", f.Name())

	require.NoError(t, f.SetParameters(map[string]any{"radius": float64(5)}))
	assert.Equal(t, 5, f.Radius())
	assert.Equal(t, map[string]any{"radius": float64(5)}, f.Parameters())
}

func TestRegisterAcceleratedReplacesEntries(t *testing.T) {
	reg := core.NewRegistry(testLogger())
	filters.RegisterBuiltins(reg)
	RegisterAccelerated(reg, nil)

	info, ok := reg.Info(filters.IDGrayscale)
	require.True(t, ok)
	assert.True(t, info.HasAccelerator)

	f, err := reg.Create(filters.IDGrayscale, true)
	require.NoError(t, err)
	assert.True(t, f.SupportsAccelerator())

	f, err = reg.Create(filters.IDGrayscale, false)
	require.NoError(t, err)
	assert.False(t, f.SupportsAccelerator())

	// Filters without kernels keep their CPU-only entries.
	info, ok = reg.Info(filters.IDSepia)
	require.True(t, ok)
	assert.False(t, info.HasAccelerator)
}

func TestPackUnpackBytes(t *testing.T) {
	src := []uint8{0, 1, 127, 255}
	packed := packBytes(src)
	require.Len(t, packed, 16)

	dst := make([]uint8, len(src))
	unpackBytes(packed, dst)
	assert.Equal(t, src, dst)
}

func TestKernelParamsLayout(t *testing.T) {
	b := kernelParams{width: 2, height: 3, channels: 4, radius: 5}.bytes()
	require.Len(t, b, 16)
	assert.Equal(t, []byte{2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0, 5, 0, 0, 0}, b)
}
