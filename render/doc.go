// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render defines the surfaces a visualization engine draws into.
//
// A [Target] only promises its size and color format. Engines discover
// what they can do with a target through optional interfaces such as
// [RectFiller]; output backends (OpenGL framebuffers, WebGPU textures and
// plain CPU images) implement the ones their hardware path supports.
//
// # Coordinates
//
// All drawing coordinates have their origin at the top-left corner with y
// growing downwards, whatever the underlying API uses. Backends convert.
package render
