// Package gpu provides accelerated variants of selected filters using
// wgpu/hal compute shaders. Every accelerated filter carries the host
// implementation as a fallback: when no device is available or any
// dispatch step fails, the filter runs on the CPU with identical
// parameters and the caller never sees an accelerator error.
package gpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/sirupsen/logrus"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Context owns the shared GPU device and the compiled compute pipelines.
// One Context serves every accelerated filter in the process; it is safe
// for concurrent use (dispatches serialize on the internal mutex).
type Context struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	grayscale *kernel
	boxblur   *kernel

	ready bool
	log   *logrus.Logger
}

// kernel bundles one compiled compute pipeline with its layouts.
type kernel struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewContext acquires a GPU device and compiles the filter kernels. On
// any failure the returned context is still usable: Ready() reports
// false and accelerated filters fall back to the host. A nil logger
// falls back to the standard logger.
func NewContext(log *logrus.Logger) *Context {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &Context{log: log}
	if err := c.init(); err != nil {
		c.log.WithError(err).Warn("GPU unavailable, filters will run on CPU")
		c.release()
	}
	return c
}

// Ready reports whether the device and pipelines are usable.
func (c *Context) Ready() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Close releases the pipelines and the device.
func (c *Context) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.release()
}

func (c *Context) init() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	c.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue

	if c.grayscale, err = c.createKernel("grayscale", grayscaleShaderSource); err != nil {
		return err
	}
	if c.boxblur, err = c.createKernel("boxblur", boxBlurShaderSource); err != nil {
		return err
	}

	c.ready = true
	c.log.WithField("adapter", selected.Info.Name).Info("GPU accelerator initialized")
	return nil
}

func (c *Context) createKernel(label, wgsl string) (*kernel, error) {
	k := &kernel{}

	shader, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", label, err)
	}
	k.shader = shader

	bindLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		c.destroyKernel(k)
		return nil, fmt.Errorf("create %s bind group layout: %w", label, err)
	}
	k.bindLayout = bindLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: label + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		c.destroyKernel(k)
		return nil, fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	k.pipeLayout = pipeLayout

	pipeline, err := c.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: label + "_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		c.destroyKernel(k)
		return nil, fmt.Errorf("create %s compute pipeline: %w", label, err)
	}
	k.pipeline = pipeline

	return k, nil
}

func (c *Context) destroyKernel(k *kernel) {
	if k == nil || c.device == nil {
		return
	}
	if k.pipeline != nil {
		c.device.DestroyComputePipeline(k.pipeline)
	}
	if k.pipeLayout != nil {
		c.device.DestroyPipelineLayout(k.pipeLayout)
	}
	if k.bindLayout != nil {
		c.device.DestroyBindGroupLayout(k.bindLayout)
	}
	if k.shader != nil {
		c.device.DestroyShaderModule(k.shader)
	}
}

func (c *Context) release() {
	c.destroyKernel(c.grayscale)
	c.destroyKernel(c.boxblur)
	c.grayscale = nil
	c.boxblur = nil
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.queue = nil
	c.ready = false
}
