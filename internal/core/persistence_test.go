package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineSaveLoadRoundTrip(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register("stub", stubEntry("stub", 0))

	p := NewPipeline(testLogger())
	require.NoError(t, p.AddFilter(newStub("stub", 5)))
	require.NoError(t, p.AddFilter(newStub("stub", 12)))

	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, p.SaveTo(path))

	loaded := NewPipeline(testLogger())
	require.NoError(t, loaded.LoadFrom(path, reg))

	require.Equal(t, 2, loaded.Size())
	f, err := loaded.FilterAt(0)
	require.NoError(t, err)
	assert.Equal(t, "stub (offset=5)", f.Name())
	f, err = loaded.FilterAt(1)
	require.NoError(t, err)
	assert.Equal(t, "stub (offset=12)", f.Name())
}

func TestPipelineEmptyRoundTrip(t *testing.T) {
	reg := NewRegistry(testLogger())

	empty := NewPipeline(testLogger())
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, empty.SaveTo(path))

	// Loading an empty document replaces whatever was there before.
	loaded := NewPipeline(testLogger())
	require.NoError(t, loaded.AddFilter(newStub("old", 1)))
	require.NoError(t, loaded.LoadFrom(path, reg))

	assert.True(t, loaded.IsEmpty())
	assert.Equal(t, "Empty pipeline", loaded.Describe())
}

func TestPipelineSaveFormat(t *testing.T) {
	p := NewPipeline(testLogger())
	require.NoError(t, p.AddFilter(newStub("stub", 3)))

	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, p.SaveTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(1), doc["version"])

	stages, ok := doc["pipeline"].([]any)
	require.True(t, ok)
	require.Len(t, stages, 1)

	stage := stages[0].(map[string]any)
	assert.Equal(t, "stub", stage["id"])
	assert.Equal(t, "stub (offset=3)", stage["name"])
	params := stage["parameters"].(map[string]any)
	assert.Equal(t, float64(3), params["offset"])
}

func TestPipelineLoadUnknownFilterLeavesPipelineUntouched(t *testing.T) {
	reg := NewRegistry(testLogger())

	p := NewPipeline(testLogger())
	require.NoError(t, p.AddFilter(newStub("stub", 5)))
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, p.SaveTo(path))

	target := NewPipeline(testLogger())
	require.NoError(t, target.AddFilter(newStub("keep", 1)))

	err := target.LoadFrom(path, reg)
	assert.ErrorIs(t, err, ErrFilterNotFound)

	// Failed load must not disturb the existing filters.
	require.Equal(t, 1, target.Size())
	f, _ := target.FilterAt(0)
	assert.Equal(t, "keep (offset=1)", f.Name())
}

func TestPipelineLoadRejectsBadDocuments(t *testing.T) {
	reg := NewRegistry(testLogger())
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		p := NewPipeline(testLogger())
		assert.Error(t, p.LoadFrom(filepath.Join(dir, "absent.json"), reg))
	})

	t.Run("invalid json", func(t *testing.T) {
		path := filepath.Join(dir, "garbage.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		p := NewPipeline(testLogger())
		assert.Error(t, p.LoadFrom(path, reg))
	})

	t.Run("wrong version", func(t *testing.T) {
		path := filepath.Join(dir, "future.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"pipeline":[]}`), 0o644))
		p := NewPipeline(testLogger())
		assert.Error(t, p.LoadFrom(path, reg))
	})
}

func TestPipelineLoadAppliesParameters(t *testing.T) {
	reg := NewRegistry(testLogger())
	reg.Register("stub", stubEntry("stub", 0))

	path := filepath.Join(t.TempDir(), "pipeline.json")
	doc := `{"version":1,"pipeline":[{"id":"stub","name":"stub","parameters":{"offset":9}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p := NewPipeline(testLogger())
	require.NoError(t, p.LoadFrom(path, reg))
	require.Equal(t, 1, p.Size())
	f, _ := p.FilterAt(0)
	assert.Equal(t, "stub (offset=9)", f.Name())
}
