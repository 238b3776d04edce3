package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gr"
)

// targetTextures are the attachments backing one render target. A
// multisampled target renders into msaa and resolves into color; the
// stencil texture always matches the color sample count.
type targetTextures struct {
	width, height uint32
	format        gputypes.TextureFormat
	stencilFormat gputypes.TextureFormat
	samples       uint32

	color     hal.Texture
	colorView hal.TextureView
	msaa      hal.Texture
	msaaView  hal.TextureView
	stencil   hal.Texture
	stencView hal.TextureView

	// fresh is set until the first frame is submitted; fresh attachments
	// are cleared rather than loaded.
	fresh bool
}

func newTargetTextures(device hal.Device, rt *gr.RenderTarget) (*targetTextures, error) {
	t := &targetTextures{
		width:         uint32(rt.Width()),
		height:        uint32(rt.Height()),
		format:        rt.Format(),
		stencilFormat: rt.StencilFormat(),
		samples:       max(uint32(rt.SampleCount()), 1),
		fresh:         true,
	}
	var err error
	label := rt.Label()

	t.color, t.colorView, err = t.create(device, label+"_color", t.format, 1,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		t.destroy(device)
		return nil, err
	}
	if t.samples > 1 {
		t.msaa, t.msaaView, err = t.create(device, label+"_msaa", t.format, t.samples,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			t.destroy(device)
			return nil, err
		}
	}
	if t.stencilFormat != gputypes.TextureFormatUndefined {
		t.stencil, t.stencView, err = t.create(device, label+"_stencil", t.stencilFormat, t.samples,
			gputypes.TextureUsageRenderAttachment)
		if err != nil {
			t.destroy(device)
			return nil, err
		}
	}
	return t, nil
}

func (t *targetTextures) create(device hal.Device, label string, format gputypes.TextureFormat, samples uint32, usage gputypes.TextureUsage) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create texture %s: %w", label, err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: label + "_view"})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, fmt.Errorf("create texture view %s: %w", label, err)
	}
	return tex, view, nil
}

func (t *targetTextures) resolve() hal.Texture { return t.color }

func (t *targetTextures) destroy(device hal.Device) {
	for _, v := range []*hal.TextureView{&t.stencView, &t.msaaView, &t.colorView} {
		if *v != nil {
			device.DestroyTextureView(*v)
			*v = nil
		}
	}
	for _, tex := range []*hal.Texture{&t.stencil, &t.msaa, &t.color} {
		if *tex != nil {
			device.DestroyTexture(*tex)
			*tex = nil
		}
	}
}

// baseKey is the pipeline key of a premultiplied source-over draw that
// leaves the stencil alone.
func (t *targetTextures) baseKey() pipelineKey {
	k := pipelineKey{
		format:        t.format,
		stencilFormat: t.stencilFormat,
		samples:       t.samples,
		blend:         gputypes.BlendStatePremultiplied(),
		writeMask:     gputypes.ColorWriteMaskAll,
	}
	if t.stencilFormat != gputypes.TextureFormatUndefined {
		k.stencil = passthroughStencil(t.stencilFormat)
	}
	return k
}

// key is the pipeline key of a recorded batch.
func (t *targetTextures) key(pl *gr.PipelineState) pipelineKey {
	k := t.baseKey()
	k.blend = pl.Blend
	k.writeMask = pl.WriteMask
	if pl.Stencil != nil && t.stencilFormat != gputypes.TextureFormatUndefined {
		k.stencil = *pl.Stencil
		k.stencil.Format = t.stencilFormat
	}
	return k
}

// passDescriptor describes the single render pass of a frame. The stencil
// buffer persists across frames except on a fresh target.
func (t *targetTextures) passDescriptor(load gputypes.LoadOp, clear gputypes.Color) *hal.RenderPassDescriptor {
	color := hal.RenderPassColorAttachment{
		View:       t.colorView,
		LoadOp:     load,
		StoreOp:    gputypes.StoreOpStore,
		ClearValue: clear,
	}
	if t.msaaView != nil {
		color.View = t.msaaView
		color.ResolveTarget = t.colorView
	}
	desc := &hal.RenderPassDescriptor{
		Label:            "gr_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{color},
	}
	if t.stencView != nil {
		stencilLoad := gputypes.LoadOpLoad
		if t.fresh {
			stencilLoad = gputypes.LoadOpClear
		}
		ds := &hal.RenderPassDepthStencilAttachment{
			View:              t.stencView,
			StencilLoadOp:     stencilLoad,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		}
		if t.stencilFormat != gputypes.TextureFormatStencil8 {
			ds.DepthLoadOp = gputypes.LoadOpClear
			ds.DepthStoreOp = gputypes.StoreOpDiscard
			ds.DepthClearValue = 1.0
		}
		desc.DepthStencilAttachment = ds
	}
	return desc
}
