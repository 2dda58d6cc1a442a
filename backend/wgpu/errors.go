// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import "errors"

var (
	// ErrBackendUnavailable is returned when the Vulkan HAL backend is not
	// registered.
	ErrBackendUnavailable = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when the instance reports no adapters.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrProvider is returned when a device provider does not expose HAL
	// device and queue objects.
	ErrProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrInvalidDimensions is returned for non-positive target sizes.
	ErrInvalidDimensions = errors.New("wgpu: invalid dimensions")

	// ErrNotPrepared is returned by Read before Prepare.
	ErrNotPrepared = errors.New("wgpu: read before prepare")

	// ErrFrameSize is returned when a frame does not match the target.
	ErrFrameSize = errors.New("wgpu: frame does not match target size")

	// ErrTimeout is returned when a fence wait does not complete.
	ErrTimeout = errors.New("wgpu: timed out waiting for GPU")
)
