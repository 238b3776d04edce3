package gr

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ShaderCaps describes shader features consumed by path renderer
// capability checks.
type ShaderCaps struct {
	// PathRenderingSupport enables the stencil-and-cover path renderer.
	PathRenderingSupport bool
	// DualSourceBlending allows coverage to be blended separately from color.
	DualSourceBlending bool
	// FloatPrecision reports full precision fragment math, needed by
	// analytic oval and rounded rect batches at large radii.
	FloatPrecision bool
}

// Caps answers the backend capability questions the draw core asks.
type Caps struct {
	maxTextureDimension   int
	maxSampleCount        int
	fullClearIsFree       bool
	useDrawInsteadOfClear bool
	instancedSupport      bool
	shader                ShaderCaps
	renderable            map[gputypes.TextureFormat]bool
	adapter               gpucontext.AdapterInfo
}

// CapsOption configures Caps during creation.
type CapsOption func(*Caps)

// WithLimits takes the maximum texture dimension from device limits.
func WithLimits(l gputypes.Limits) CapsOption {
	return func(c *Caps) {
		if l.MaxTextureDimension2D > 0 {
			c.maxTextureDimension = int(l.MaxTextureDimension2D)
		}
	}
}

// WithPathRenderingSupport toggles the hardware path rendering capability.
func WithPathRenderingSupport(on bool) CapsOption {
	return func(c *Caps) { c.shader.PathRenderingSupport = on }
}

// WithDrawInsteadOfClear makes clears go through a discard plus a draw, for
// drivers that drop a clear issued as the only operation on a target.
func WithDrawInsteadOfClear(on bool) CapsOption {
	return func(c *Caps) { c.useDrawInsteadOfClear = on }
}

// WithFullClearIsFree marks full-target clears as cheaper than partial ones.
func WithFullClearIsFree(on bool) CapsOption {
	return func(c *Caps) { c.fullClearIsFree = on }
}

// WithInstancedSupport toggles the instanced rendering facility.
func WithInstancedSupport(on bool) CapsOption {
	return func(c *Caps) { c.instancedSupport = on }
}

// WithMaxSampleCount sets the largest supported MSAA sample count.
func WithMaxSampleCount(n int) CapsOption {
	return func(c *Caps) { c.maxSampleCount = n }
}

// WithAdapterInfo records the adapter the caps describe.
func WithAdapterInfo(info gpucontext.AdapterInfo) CapsOption {
	return func(c *Caps) { c.adapter = info }
}

// NewCaps returns caps for a typical WebGPU device: default limits, 4x
// MSAA, no path rendering, no instanced facility.
func NewCaps(opts ...CapsOption) *Caps {
	c := &Caps{
		maxTextureDimension: int(gputypes.DefaultLimits().MaxTextureDimension2D),
		maxSampleCount:      4,
		shader:              ShaderCaps{FloatPrecision: true},
		renderable: map[gputypes.TextureFormat]bool{
			gputypes.TextureFormatRGBA8Unorm:     true,
			gputypes.TextureFormatRGBA8UnormSrgb: true,
			gputypes.TextureFormatBGRA8Unorm:     true,
			gputypes.TextureFormatBGRA8UnormSrgb: true,
			gputypes.TextureFormatRGBA16Float:    true,
			gputypes.TextureFormatR8Unorm:        true,
			gputypes.TextureFormatRG8Unorm:       true,
		},
		adapter: gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CapsFromProvider derives caps from a device provider. Software adapters
// get downlevel limits and lose the instanced facility; the surface format
// is always renderable.
func CapsFromProvider(p gpucontext.DeviceProvider, opts ...CapsOption) *Caps {
	info := p.AdapterInfo()
	base := []CapsOption{WithAdapterInfo(info)}
	switch info.Type {
	case gpucontext.AdapterTypeSoftware:
		base = append(base,
			WithLimits(gputypes.DownlevelLimits()),
			WithInstancedSupport(false),
			WithMaxSampleCount(1),
		)
	case gpucontext.AdapterTypeDiscrete, gpucontext.AdapterTypeIntegrated:
		base = append(base, WithInstancedSupport(true), WithFullClearIsFree(true))
	}
	c := NewCaps(append(base, opts...)...)
	if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		c.renderable[f] = true
	}
	Logger().Info("gr: caps from provider",
		"adapter", info.Name, "type", info.Type.String(),
		"maxTexture", c.maxTextureDimension, "instanced", c.instancedSupport)
	return c
}

// MaxTextureDimension returns the largest render target edge in pixels.
func (c *Caps) MaxTextureDimension() int { return c.maxTextureDimension }

// MaxSampleCount returns the largest MSAA sample count.
func (c *Caps) MaxSampleCount() int { return c.maxSampleCount }

// SupportsFullClearAtNoCost reports whether a full-target clear is no more
// expensive than a partial one.
func (c *Caps) SupportsFullClearAtNoCost() bool { return c.fullClearIsFree }

// MustSubstituteDrawForClear reports whether clears must be expressed as
// a discard plus a rect draw.
func (c *Caps) MustSubstituteDrawForClear() bool { return c.useDrawInsteadOfClear }

// InstancedSupport reports whether the instanced facility is available.
func (c *Caps) InstancedSupport() bool { return c.instancedSupport }

// ShaderCaps returns the shader capability descriptor.
func (c *Caps) ShaderCaps() *ShaderCaps { return &c.shader }

// AdapterInfo returns the adapter the caps describe.
func (c *Caps) AdapterInfo() gpucontext.AdapterInfo { return c.adapter }

// IsConfigRenderable reports whether a render target of format f can be
// created, optionally multisampled.
func (c *Caps) IsConfigRenderable(f gputypes.TextureFormat, withMSAA bool) bool {
	if !c.renderable[f] {
		return false
	}
	if withMSAA && c.maxSampleCount <= 1 {
		return false
	}
	return true
}
