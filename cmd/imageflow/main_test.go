package main

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

func testRegistry() *core.Registry {
	reg := core.NewRegistry(testLogger())
	filters.RegisterBuiltins(reg)
	return reg
}

func TestBuildPipelineParsesFilterSpec(t *testing.T) {
	p := core.NewPipeline(testLogger())
	p.SetMode(core.ModeCPUOnly)

	err := buildPipeline(p, testRegistry(), "", "grayscale, boxblur:3,brightness:1.2")
	require.NoError(t, err)

	require.Equal(t, 3, p.Size())
	assert.Equal(t, "3 filter(s): Grayscale → Box Blur (radius=3) → Brightness (factor=1.20)", p.Describe())
}

func TestBuildPipelineEmptySpec(t *testing.T) {
	p := core.NewPipeline(testLogger())
	require.NoError(t, buildPipeline(p, testRegistry(), "", ""))
	assert.True(t, p.IsEmpty())
}

func TestBuildPipelineUnknownFilter(t *testing.T) {
	p := core.NewPipeline(testLogger())
	err := buildPipeline(p, testRegistry(), "", "grayscale,nope")
	assert.ErrorIs(t, err, core.ErrFilterNotFound)
}

func TestBuildPipelineRejectsParameterOnParameterlessFilter(t *testing.T) {
	p := core.NewPipeline(testLogger())
	err := buildPipeline(p, testRegistry(), "", "invert:2")
	assert.ErrorContains(t, err, "takes no parameter")
}

func TestBuildPipelineRejectsInvalidParameterValue(t *testing.T) {
	p := core.NewPipeline(testLogger())
	err := buildPipeline(p, testRegistry(), "", "boxblur:huge")
	assert.ErrorContains(t, err, "invalid parameter")
}

// Even if a parameter key is mapped for an id, a registered filter that
// takes no parameters must produce an error instead of a panic.
func TestBuildPipelineParameterKeyWithoutSetter(t *testing.T) {
	reg := testRegistry()
	reg.Register(filters.IDBoxBlur, core.Entry{
		Name:   "Box Blur",
		NewCPU: func() core.Filter { return filters.NewInvert() },
	})

	p := core.NewPipeline(testLogger())
	err := buildPipeline(p, reg, "", "boxblur:3")
	assert.ErrorContains(t, err, "takes no parameter")
}
