// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

var renderTargetIDs atomic.Uint64

// RenderTargetDesc describes a render target to create.
type RenderTargetDesc struct {
	Width, Height int
	Format        gputypes.TextureFormat

	// SampleCount is the color sample count; 0 or 1 means no MSAA.
	SampleCount int

	// StencilFormat is the stencil attachment format. Undefined means the
	// target has no stencil buffer.
	StencilFormat gputypes.TextureFormat

	// StencilSampleCount is the stencil sample count. It is forced to the
	// color sample count when the color buffer is multisampled; a
	// multisampled stencil on a single-sampled color buffer is a
	// mixed-samples target.
	StencilSampleCount int

	Label string
}

// RenderTarget is a handle to a physical surface. Its geometry and sample
// configuration never change. Render contexts reference it; they do not
// own it.
type RenderTarget struct {
	id             uint64
	label          string
	width, height  int
	format         gputypes.TextureFormat
	sampleCount    int
	stencilFormat  gputypes.TextureFormat
	stencilSamples int

	// Written only by the DrawingManager.
	lastRecording *RecordingTarget
	lastEpoch     uint64
}

// NewRenderTarget validates desc against caps and creates a target.
func NewRenderTarget(caps *Caps, desc RenderTargetDesc) (*RenderTarget, error) {
	if caps == nil {
		return nil, ErrNilCaps
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidRenderTarget, desc.Width, desc.Height)
	}
	if desc.Width > caps.MaxTextureDimension() || desc.Height > caps.MaxTextureDimension() {
		return nil, fmt.Errorf("%w: size %dx%d exceeds max dimension %d",
			ErrInvalidRenderTarget, desc.Width, desc.Height, caps.MaxTextureDimension())
	}
	samples := desc.SampleCount
	if samples <= 1 {
		samples = 0
	}
	if !caps.IsConfigRenderable(desc.Format, samples > 0) {
		return nil, fmt.Errorf("%w: format %s not renderable (msaa=%t)",
			ErrInvalidRenderTarget, desc.Format, samples > 0)
	}
	if samples > caps.MaxSampleCount() {
		return nil, fmt.Errorf("%w: %d samples exceeds max %d",
			ErrInvalidRenderTarget, samples, caps.MaxSampleCount())
	}
	rt := &RenderTarget{
		id:            renderTargetIDs.Add(1),
		label:         desc.Label,
		width:         desc.Width,
		height:        desc.Height,
		format:        desc.Format,
		sampleCount:   samples,
		stencilFormat: desc.StencilFormat,
	}
	if desc.StencilFormat != gputypes.TextureFormatUndefined {
		if !desc.StencilFormat.HasStencil() {
			return nil, fmt.Errorf("%w: %s has no stencil aspect", ErrInvalidRenderTarget, desc.StencilFormat)
		}
		rt.stencilSamples = desc.StencilSampleCount
		if rt.stencilSamples <= 1 {
			rt.stencilSamples = 0
		}
		if samples > 0 {
			rt.stencilSamples = samples
		}
	}
	return rt, nil
}

// ID returns a process-unique identifier.
func (rt *RenderTarget) ID() uint64 { return rt.id }

// Label returns the debug label.
func (rt *RenderTarget) Label() string { return rt.label }

// Width returns the width in pixels.
func (rt *RenderTarget) Width() int { return rt.width }

// Height returns the height in pixels.
func (rt *RenderTarget) Height() int { return rt.height }

// Format returns the color format.
func (rt *RenderTarget) Format() gputypes.TextureFormat { return rt.format }

// Bounds returns the target bounds as a float rect.
func (rt *RenderTarget) Bounds() Rect { return RectWH(float64(rt.width), float64(rt.height)) }

// IBounds returns the target bounds.
func (rt *RenderTarget) IBounds() IRect { return IRectWH(rt.width, rt.height) }

// SampleCount returns the color sample count; 0 means no MSAA.
func (rt *RenderTarget) SampleCount() int { return rt.sampleCount }

// HasStencil reports whether the target has a stencil attachment.
func (rt *RenderTarget) HasStencil() bool { return rt.stencilFormat != gputypes.TextureFormatUndefined }

// StencilFormat returns the stencil attachment format.
func (rt *RenderTarget) StencilFormat() gputypes.TextureFormat { return rt.stencilFormat }

// IsUnifiedMultisampled reports whether color (and stencil, if present)
// are multisampled. Hardware AA is only used on such targets.
func (rt *RenderTarget) IsUnifiedMultisampled() bool { return rt.sampleCount > 0 }

// IsStencilBufferMultisampled reports whether the stencil buffer is
// multisampled.
func (rt *RenderTarget) IsStencilBufferMultisampled() bool { return rt.stencilSamples > 0 }

// IsMixedSampled reports whether stencil is multisampled but color is not.
func (rt *RenderTarget) IsMixedSampled() bool {
	return rt.sampleCount == 0 && rt.stencilSamples > 0
}

// LastRecordingTarget returns the most recently issued recording target
// and its epoch, or nil.
func (rt *RenderTarget) LastRecordingTarget() (*RecordingTarget, uint64) {
	return rt.lastRecording, rt.lastEpoch
}

// multisampleState returns the pipeline multisample state. The sample
// count always matches the color attachment.
func (rt *RenderTarget) multisampleState() gputypes.MultisampleState {
	ms := gputypes.DefaultMultisampleState()
	if rt.sampleCount > 0 {
		ms.Count = uint32(rt.sampleCount)
	}
	return ms
}
