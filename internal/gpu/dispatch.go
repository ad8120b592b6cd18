package gpu

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// kernelParams is the uniform block shared by both kernels. radius is
// ignored by grayscale.
type kernelParams struct {
	width    uint32
	height   uint32
	channels uint32
	radius   uint32
}

func (p kernelParams) bytes() []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint32(out[0:], p.width)
	binary.LittleEndian.PutUint32(out[4:], p.height)
	binary.LittleEndian.PutUint32(out[8:], p.channels)
	binary.LittleEndian.PutUint32(out[12:], p.radius)
	return out
}

// packBytes widens each byte to a little-endian u32 for upload.
func packBytes(src []uint8) []byte {
	out := make([]byte, len(src)*4)
	for i, v := range src {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}

// unpackBytes narrows readback u32 words to bytes.
func unpackBytes(src []byte, dst []uint8) {
	for i := range dst {
		dst[i] = uint8(binary.LittleEndian.Uint32(src[i*4:]) & 0xff)
	}
}

// run uploads src, dispatches one kernel invocation per output pixel, and
// reads the result back into dst. dst length determines the output buffer
// size; pixels is the dispatch width.
func (c *Context) run(k *kernel, params kernelParams, src []uint8, dst []uint8, pixels int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return fmt.Errorf("gpu context not ready")
	}

	paramsBytes := params.bytes()
	inputWords := packBytes(src)
	outputSize := uint64(len(dst) * 4)

	paramsBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_params", Size: uint64(len(paramsBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create params buffer: %w", err)
	}
	defer c.device.DestroyBuffer(paramsBuf)

	inputBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_input", Size: uint64(len(inputWords)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create input buffer: %w", err)
	}
	defer c.device.DestroyBuffer(inputBuf)

	outputBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_output", Size: outputSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create output buffer: %w", err)
	}
	defer c.device.DestroyBuffer(outputBuf)

	stagingBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "filter_staging", Size: outputSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(stagingBuf)

	c.queue.WriteBuffer(paramsBuf, 0, paramsBytes)
	c.queue.WriteBuffer(inputBuf, 0, inputWords)

	bindGroup, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "filter_bind", Layout: k.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Offset: 0, Size: uint64(len(paramsBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: inputBuf.NativeHandle(), Offset: 0, Size: uint64(len(inputWords))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: outputBuf.NativeHandle(), Offset: 0, Size: outputSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer c.device.DestroyBindGroup(bindGroup)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "filter_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("filter"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "filter_pass"})
	pass.SetPipeline(k.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((uint32(pixels)+63)/64, 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(outputBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outputSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)
	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := c.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for GPU: fence not signaled within timeout")
	}

	readback := make([]byte, outputSize)
	if err := c.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackBytes(readback, dst)
	return nil
}
