// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RingSize is the number of staging buffers in a StagingRing.
const RingSize = 3

// WebGPU requires BytesPerRow of buffer copies aligned to 256 bytes.
const copyPitchAlignment = 256

// DefaultWaitTimeout bounds every fence wait.
const DefaultWaitTimeout = 5 * time.Second

func alignedRow(width uint32) uint32 {
	return (width*4 + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
}

type stagingSlot struct {
	buf     hal.Buffer
	fence   hal.Fence
	cmd     hal.CommandBuffer
	value   uint64
	pending bool
}

// StagingRing copies a color texture into map-readable buffers and
// collects the copy issued one call earlier, so the CPU does not wait for
// the frame the GPU is still producing.
type StagingRing struct {
	device  hal.Device
	queue   hal.Queue
	timeout time.Duration

	slots   [RingSize]stagingSlot
	width   uint32
	height  uint32
	stride  uint32
	next    int
	primed  bool
	scratch []byte
}

// NewStagingRing returns an empty ring. Buffers are allocated by Ensure.
func NewStagingRing(device hal.Device, queue hal.Queue) *StagingRing {
	return &StagingRing{device: device, queue: queue, timeout: DefaultWaitTimeout}
}

// Allocated reports whether the ring holds buffers.
func (r *StagingRing) Allocated() bool { return r.slots[0].buf != nil }

// Primed reports whether a copy is in flight from an earlier call.
func (r *StagingRing) Primed() bool { return r.primed }

// Ensure allocates the buffers and fences for a width x height texture.
// A size change reallocates the whole ring and forgets in-flight copies.
func (r *StagingRing) Ensure(width, height uint32) error {
	if r.Allocated() && r.width == width && r.height == height {
		return nil
	}
	r.Release()
	stride := alignedRow(width)
	size := uint64(stride) * uint64(height)
	for i := range r.slots {
		buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("avis_staging_%d", i),
			Size:  size,
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			r.Release()
			return fmt.Errorf("create staging buffer: %w", err)
		}
		r.slots[i].buf = buf
		fence, err := r.device.CreateFence()
		if err != nil {
			r.Release()
			return fmt.Errorf("create fence: %w", err)
		}
		r.slots[i].fence = fence
	}
	r.width, r.height, r.stride = width, height, stride
	r.scratch = make([]byte, size)
	return nil
}

// Download copies tex into the next slot and writes the image collected
// from the previous slot into dst as tightly packed rows. On the first
// call after Ensure the new copy itself is collected.
func (r *StagingRing) Download(tex hal.Texture, dst []byte) error {
	if !r.Allocated() {
		return errors.New("wgpu: staging ring not allocated")
	}
	write := r.next
	if err := r.submitCopy(write, tex); err != nil {
		return err
	}
	read := write
	if r.primed {
		read = (write + RingSize - 1) % RingSize
	}
	r.next = (write + 1) % RingSize
	r.primed = true
	return r.collect(read, dst)
}

func (r *StagingRing) submitCopy(i int, tex hal.Texture) error {
	slot := &r.slots[i]
	if slot.pending {
		if err := r.wait(slot); err != nil {
			return err
		}
	}
	cmdBuf, err := encodeCopy(r.device, tex, slot.buf, r.width, r.height, r.stride)
	if err != nil {
		return err
	}
	slot.value++
	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, slot.fence, slot.value); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	slot.cmd = cmdBuf
	slot.pending = true
	return nil
}

// collect waits for slot i if its copy is still pending and unpacks it.
// A slot that was already collected is read again without waiting.
func (r *StagingRing) collect(i int, dst []byte) error {
	slot := &r.slots[i]
	if slot.pending {
		if err := r.wait(slot); err != nil {
			return err
		}
	}
	if err := r.queue.ReadBuffer(slot.buf, 0, r.scratch); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpad(dst, r.scratch, r.width*4, r.stride, r.height)
	return nil
}

// wait blocks until the slot's copy completes and frees its commands.
func (r *StagingRing) wait(slot *stagingSlot) error {
	ok, err := r.device.Wait(slot.fence, slot.value, r.timeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return ErrTimeout
	}
	slot.pending = false
	if slot.cmd != nil {
		r.device.FreeCommandBuffer(slot.cmd)
		slot.cmd = nil
	}
	return nil
}

// Release waits for in-flight copies and destroys the buffers and fences.
func (r *StagingRing) Release() {
	for i := range r.slots {
		s := &r.slots[i]
		if s.pending {
			_ = r.wait(s)
		}
		if s.cmd != nil {
			r.device.FreeCommandBuffer(s.cmd)
		}
		if s.buf != nil {
			r.device.DestroyBuffer(s.buf)
		}
		if s.fence != nil {
			r.device.DestroyFence(s.fence)
		}
		*s = stagingSlot{}
	}
	r.width, r.height, r.stride = 0, 0, 0
	r.next = 0
	r.primed = false
	r.scratch = nil
}

// encodeCopy records a texture-to-buffer copy bracketed by usage
// transitions. The texture rests in CopyDst between frames so uploads
// need no barrier.
func encodeCopy(device hal.Device, tex hal.Texture, buf hal.Buffer, w, h, stride uint32) (hal.CommandBuffer, error) {
	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "avis_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("avis_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopyDst,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex, buf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: stride, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageCopyDst,
		},
	}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmdBuf, nil
}

// ReadTexture copies tex into a temporary staging buffer, waits for the
// GPU and writes tightly packed rows into dst.
func ReadTexture(device hal.Device, queue hal.Queue, tex hal.Texture, w, h uint32, dst []byte) error {
	stride := alignedRow(w)
	size := uint64(stride) * uint64(h)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "avis_staging_sync",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(buf)

	cmdBuf, err := encodeCopy(device, tex, buf, w, h, stride)
	if err != nil {
		return err
	}
	defer device.FreeCommandBuffer(cmdBuf)

	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, DefaultWaitTimeout)
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !ok {
		return ErrTimeout
	}
	readback := make([]byte, size)
	if err := queue.ReadBuffer(buf, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpad(dst, readback, w*4, stride, h)
	return nil
}

// unpad strips per-row padding from src into tightly packed dst.
func unpad(dst, src []byte, rowBytes, stride, rows uint32) {
	if rowBytes == stride {
		copy(dst, src[:int(rowBytes)*int(rows)])
		return
	}
	for row := range rows {
		s := int(row) * int(stride)
		d := int(row) * int(rowBytes)
		copy(dst[d:d+int(rowBytes)], src[s:s+int(rowBytes)])
	}
}
