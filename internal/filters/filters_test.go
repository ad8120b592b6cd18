package filters

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageflow/internal/core"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func constantImage(t *testing.T, w, h, ch int, value uint8) *core.Image {
	t.Helper()
	img, err := core.NewImage(w, h, ch)
	require.NoError(t, err)
	data := img.Data()
	for i := range data {
		data[i] = value
	}
	return img
}

func TestRegisterBuiltins(t *testing.T) {
	reg := core.NewRegistry(testLogger())
	RegisterBuiltins(reg)

	assert.Equal(t, []string{"boxblur", "brightness", "grayscale", "invert", "sepia"}, reg.IDs())

	for _, id := range reg.IDs() {
		f, err := reg.Create(id, false)
		require.NoError(t, err)
		assert.NotEmpty(t, f.Name())
	}

	// Defaults: identity brightness, radius-2 blur.
	f, err := reg.Create(IDBrightness, false)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.(*Brightness).Factor())

	f, err = reg.Create(IDBoxBlur, false)
	require.NoError(t, err)
	assert.Equal(t, 2, f.(*BoxBlur).Radius())
}

// A uniform gray image exercises every filter with predictable outputs.
func TestUniformImageScenario(t *testing.T) {
	input := constantImage(t, 4, 4, 3, 100)

	gray, err := NewGrayscale().Apply(input)
	require.NoError(t, err)
	assert.Equal(t, 1, gray.Channels())
	for _, v := range gray.Data() {
		assert.Equal(t, uint8(100), v)
	}

	inverted, err := NewInvert().Apply(input)
	require.NoError(t, err)
	for _, v := range inverted.Data() {
		assert.Equal(t, uint8(155), v)
	}

	half, err := NewBrightness(0.5).Apply(input)
	require.NoError(t, err)
	for _, v := range half.Data() {
		assert.Equal(t, uint8(50), v)
	}

	// A constant image is its own blur.
	blurred, err := NewBoxBlur(2).Apply(input)
	require.NoError(t, err)
	assert.Equal(t, input.Data(), blurred.Data())
}

func TestFiltersNeverMutateInput(t *testing.T) {
	fs := []core.Filter{
		NewGrayscale(), NewInvert(), NewBrightness(2.0), NewBoxBlur(1), NewSepia(),
	}
	for _, f := range fs {
		t.Run(f.Name(), func(t *testing.T) {
			input := constantImage(t, 3, 3, 3, 120)
			before := input.Clone()
			_, err := f.Apply(input)
			require.NoError(t, err)
			assert.Equal(t, before.Data(), input.Data())
		})
	}
}

func TestFiltersRejectNilInput(t *testing.T) {
	fs := []core.Filter{
		NewGrayscale(), NewInvert(), NewBrightness(1.0), NewBoxBlur(1), NewSepia(),
	}
	for _, f := range fs {
		_, err := f.Apply(nil)
		assert.ErrorIs(t, err, core.ErrNilImage)
	}
}

func TestFiltersTrackExecutionTime(t *testing.T) {
	f := NewInvert()
	assert.Zero(t, f.LastExecutionTime())

	_, err := f.Apply(constantImage(t, 64, 64, 3, 7))
	require.NoError(t, err)
	assert.Greater(t, f.LastExecutionTime().Nanoseconds(), int64(0))
}

func TestPipelineWithBuiltins(t *testing.T) {
	reg := core.NewRegistry(testLogger())
	RegisterBuiltins(reg)

	p := core.NewPipeline(testLogger())
	for _, id := range []string{IDGrayscale, IDInvert} {
		f, err := reg.Create(id, false)
		require.NoError(t, err)
		require.NoError(t, p.AddFilter(f))
	}

	out, err := p.Apply(constantImage(t, 4, 4, 3, 100))
	require.NoError(t, err)
	assert.Equal(t, 1, out.Channels())
	for _, v := range out.Data() {
		assert.Equal(t, uint8(155), v)
	}

	assert.Equal(t, "2 filter(s): Grayscale → Invert", p.Describe())
}

func TestPipelineSaveLoadWithBuiltins(t *testing.T) {
	reg := core.NewRegistry(testLogger())
	RegisterBuiltins(reg)

	p := core.NewPipeline(testLogger())
	require.NoError(t, p.AddFilter(NewBoxBlur(3)))
	require.NoError(t, p.AddFilter(NewBrightness(1.25)))
	require.NoError(t, p.AddFilter(NewSepia()))

	path := t.TempDir() + "/pipeline.json"
	require.NoError(t, p.SaveTo(path))

	loaded := core.NewPipeline(testLogger())
	loaded.SetMode(core.ModeCPUOnly)
	require.NoError(t, loaded.LoadFrom(path, reg))

	require.Equal(t, 3, loaded.Size())
	f, _ := loaded.FilterAt(0)
	assert.Equal(t, "Box Blur (radius=3)", f.Name())
	f, _ = loaded.FilterAt(1)
	assert.Equal(t, "Brightness (factor=1.25)", f.Name())
	f, _ = loaded.FilterAt(2)
	assert.Equal(t, "Sepia Tone", f.Name())
}

// A pipeline using every built-in survives a save/load cycle with order
// and parameters intact.
func TestPipelineAllBuiltinsRoundTrip(t *testing.T) {
	reg := core.NewRegistry(testLogger())
	RegisterBuiltins(reg)

	p := core.NewPipeline(testLogger())
	require.NoError(t, p.AddFilter(NewGrayscale()))
	require.NoError(t, p.AddFilter(NewBoxBlur(3)))
	require.NoError(t, p.AddFilter(NewBrightness(1.2)))
	require.NoError(t, p.AddFilter(NewInvert()))
	require.NoError(t, p.AddFilter(NewSepia()))

	path := t.TempDir() + "/pipeline.json"
	require.NoError(t, p.SaveTo(path))

	loaded := core.NewPipeline(testLogger())
	loaded.SetMode(core.ModeCPUOnly)
	require.NoError(t, loaded.LoadFrom(path, reg))

	require.Equal(t, 5, loaded.Size())
	assert.Equal(t, p.Describe(), loaded.Describe())
	assert.Equal(t,
		"5 filter(s): Grayscale → Box Blur (radius=3) → Brightness (factor=1.20) → Invert → Sepia Tone",
		loaded.Describe())

	f, err := loaded.FilterAt(1)
	require.NoError(t, err)
	assert.Equal(t, 3, f.(*BoxBlur).Radius())
	f, err = loaded.FilterAt(2)
	require.NoError(t, err)
	assert.Equal(t, 1.2, f.(*Brightness).Factor())
}
