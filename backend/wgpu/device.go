package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gr"
)

// ErrNoAdapter is returned by Open when no registered backend exposes an
// adapter.
var ErrNoAdapter = errors.New("wgpu: no GPU adapter available")

// backendPriority is the order Open tries registered backends in.
var backendPriority = []gputypes.Backend{
	gputypes.BackendVulkan,
	gputypes.BackendMetal,
	gputypes.BackendDX12,
	gputypes.BackendGL,
	gputypes.BackendEmpty,
}

// GPUInfo describes the adapter an executor runs on.
type GPUInfo struct {
	Name       string
	Vendor     string
	DeviceType gputypes.DeviceType
	Backend    gputypes.Backend
	Driver     string
}

// String returns a human-readable description of the GPU.
func (g GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

func gpuInfo(info gputypes.AdapterInfo) GPUInfo {
	return GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

// selectAdapter prefers a discrete or integrated GPU and falls back to the
// first adapter.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	if len(adapters) == 0 {
		return nil
	}
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU, gputypes.DeviceTypeIntegratedGPU:
			return &adapters[i]
		}
	}
	return &adapters[0]
}

// Open creates an executor on the first registered backend, in priority
// order, that yields a device. Backends register themselves when their
// package is imported, for example github.com/gogpu/wgpu/hal/vulkan.
func Open() (*Executor, error) {
	var errs []error
	for _, variant := range backendPriority {
		backend, ok := hal.GetBackend(variant)
		if !ok {
			continue
		}
		e, err := openBackend(backend)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", variant, err))
			continue
		}
		return e, nil
	}
	if len(errs) == 0 {
		return nil, ErrNoAdapter
	}
	return nil, errors.Join(append([]error{ErrNoAdapter}, errs...)...)
}

func openBackend(backend hal.Backend) (*Executor, error) {
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	selected := selectAdapter(instance.EnumerateAdapters(nil))
	if selected == nil {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	dev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}
	e := New(dev.Device, dev.Queue)
	e.instance = instance
	e.info = gpuInfo(selected.Info)
	gr.Logger().Info("wgpu: executor ready", "gpu", e.info.String(), "driver", e.info.Driver)
	return e, nil
}
