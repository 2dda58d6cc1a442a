// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu renders visualizer frames through the gogpu/wgpu HAL.
//
// The output is always offscreen: a WebGPU device has no default
// framebuffer to fall back to. Engines draw into a CPU staging pixmap
// exposed by [TextureTarget]; on Read the pixmap is uploaded into an
// RGBA8 color texture and copied back through a [StagingRing] of
// map-readable buffers.
//
// # Devices
//
// [OpenDevice] opens the first discrete or integrated Vulkan adapter.
// Hosts that already own a device pass it through
// [NewOutputFromProvider] with a gpucontext.DeviceProvider that also
// exposes HalDevice() and HalQueue().
//
//	dev, err := wgpu.OpenDevice()
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//	out := wgpu.NewOutput(dev)
//	session, err := avis.NewSession(cfg, avis.WithOutput(out), ...)
//
// # Readback
//
// Like the OpenGL output, the ring returns the frame rendered one call
// earlier. The very first read copies and collects the same slot, so the
// first frame is never blank. When the ring cannot be allocated the
// output warns once and reads synchronously from then on.
package wgpu
