// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device is a HAL device and its queue.
type Device struct {
	Device hal.Device
	Queue  hal.Queue

	instance hal.Instance
	name     string
	external bool
}

// OpenDevice opens a device on the Vulkan backend, preferring a discrete
// or integrated adapter over software ones.
func OpenDevice() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrBackendUnavailable
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	return openOn(instance)
}

func openOn(instance hal.Instance) (*Device, error) {
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	return &Device{
		Device:   openDev.Device,
		Queue:    openDev.Queue,
		instance: instance,
		name:     selected.Info.Name,
	}, nil
}

// DeviceFromProvider borrows the HAL device of a host application. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Close on the result does not destroy the
// borrowed device.
func DeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrProvider)
	}
	return &Device{Device: device, Queue: queue, name: "external", external: true}, nil
}

// Name returns the adapter name.
func (d *Device) Name() string { return d.name }

// Provider exposes the device as a gpucontext.DeviceProvider for other
// gogpu components. Only the HAL accessors are populated.
func (d *Device) Provider() gpucontext.DeviceProvider { return halHandle{d} }

// Close destroys the device unless it was borrowed from a provider.
func (d *Device) Close() {
	if d.external {
		return
	}
	if d.Device != nil {
		d.Device.Destroy()
		d.Device = nil
		d.Queue = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
}

type halHandle struct{ d *Device }

func (halHandle) Device() gpucontext.Device   { return nil }
func (halHandle) Queue() gpucontext.Queue     { return nil }
func (halHandle) Adapter() gpucontext.Adapter { return nil }

func (halHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

func (h halHandle) HalDevice() any { return h.d.Device }
func (h halHandle) HalQueue() any  { return h.d.Queue }

var _ gpucontext.DeviceProvider = halHandle{}
