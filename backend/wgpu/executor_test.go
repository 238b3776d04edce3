package wgpu

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gr"
)

// recordingDevice wraps a noop device and keeps every render pass.
type recordingDevice struct {
	hal.Device
	passes []*recordingPass
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, dev: d}, nil
}

type recordingEncoder struct {
	hal.CommandEncoder
	dev *recordingDevice
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	p := &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: desc}
	e.dev.passes = append(e.dev.passes, p)
	return p
}

type recordingPass struct {
	hal.RenderPassEncoder
	desc  *hal.RenderPassDescriptor
	draws []uint32
	refs  []uint32
}

func (p *recordingPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.draws = append(p.draws, vertexCount)
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recordingPass) SetStencilReference(ref uint32) {
	p.refs = append(p.refs, ref)
	p.RenderPassEncoder.SetStencilReference(ref)
}

// newNoopExecutor creates an executor on a noop device.
func newNoopExecutor(t *testing.T) (*Executor, *recordingDevice) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	dev := &recordingDevice{Device: openDev.Device}
	e := New(dev, openDev.Queue)
	t.Cleanup(func() {
		e.Destroy()
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return e, dev
}

func setup(t *testing.T, samples int, stencil bool) (*Executor, *recordingDevice, *gr.DrawingManager, *gr.RenderContext) {
	t.Helper()
	e, dev := newNoopExecutor(t)
	caps := gr.NewCaps()
	mgr, err := gr.NewDrawingManager(caps, gr.WithExecutor(e), gr.WithFlushThreshold(0))
	if err != nil {
		t.Fatalf("NewDrawingManager() error = %v", err)
	}
	desc := gr.RenderTargetDesc{
		Width:       64,
		Height:      64,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		SampleCount: samples,
		Label:       "test",
	}
	if stencil {
		desc.StencilFormat = gputypes.TextureFormatDepth24PlusStencil8
	}
	rt, err := gr.NewRenderTarget(caps, desc)
	if err != nil {
		t.Fatalf("NewRenderTarget() error = %v", err)
	}
	rc, err := mgr.NewRenderContext(rt, gr.NewOwnerToken(), gr.SurfaceProps{})
	if err != nil {
		t.Fatalf("NewRenderContext() error = %v", err)
	}
	return e, dev, mgr, rc
}

func flush(t *testing.T, mgr *gr.DrawingManager) {
	t.Helper()
	if err := mgr.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func concavePath() *gr.Path {
	p := gr.NewPath()
	p.MoveTo(10, 10)
	p.LineTo(50, 10)
	p.LineTo(50, 20)
	p.LineTo(20, 20)
	p.LineTo(20, 50)
	p.LineTo(10, 50)
	p.Close()
	return p
}

func TestExecuteClearFoldsIntoLoadOp(t *testing.T) {
	e, dev, mgr, rc := setup(t, 0, false)
	rc.Clear(nil, gputypes.ColorRed, true)
	rc.DrawRect(gr.NoClip{}, gr.NewPaint(gputypes.ColorBlue), gr.Identity(), gr.RectLTRB(4, 4, 20, 20), nil)
	flush(t, mgr)

	if len(dev.passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(dev.passes))
	}
	p := dev.passes[0]
	ca := p.desc.ColorAttachments[0]
	if ca.LoadOp != gputypes.LoadOpClear || ca.ClearValue != gputypes.ColorRed {
		t.Errorf("load = %v %+v, want clear to red", ca.LoadOp, ca.ClearValue)
	}
	if len(p.draws) != 1 || p.draws[0] != 6 {
		t.Errorf("draws = %v, want [6]", p.draws)
	}
	if s := e.Stats(); s.Frames != 1 || s.Draws != 1 {
		t.Errorf("Stats() = %+v, want 1 frame, 1 draw", s)
	}
}

func TestExecutePartialClearIsScissoredDraw(t *testing.T) {
	_, dev, mgr, rc := setup(t, 0, false)
	rc.Clear(&gr.IRect{Left: 0, Top: 0, Right: 10, Bottom: 10}, gputypes.ColorRed, false)
	flush(t, mgr)

	if len(dev.passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(dev.passes))
	}
	p := dev.passes[0]
	if got := p.desc.ColorAttachments[0].ClearValue; got != (gputypes.Color{}) {
		t.Errorf("ClearValue = %+v, want transparent for a fresh target", got)
	}
	if len(p.draws) != 1 {
		t.Errorf("draws = %v, want one scissored quad", p.draws)
	}
}

func TestExecuteLoadsAfterFirstFrame(t *testing.T) {
	_, dev, mgr, rc := setup(t, 0, false)
	paint := gr.NewPaint(gputypes.ColorBlue)
	for i := 0; i < 2; i++ {
		rc.DrawRect(gr.NoClip{}, paint, gr.Identity(), gr.RectLTRB(4, 4, 20, 20), nil)
		flush(t, mgr)
	}
	if len(dev.passes) != 2 {
		t.Fatalf("passes = %d, want 2", len(dev.passes))
	}
	want := []gputypes.LoadOp{gputypes.LoadOpClear, gputypes.LoadOpLoad}
	for i, p := range dev.passes {
		if got := p.desc.ColorAttachments[0].LoadOp; got != want[i] {
			t.Errorf("pass %d LoadOp = %v, want %v", i, got, want[i])
		}
	}
}

func TestExecuteStencilThenCover(t *testing.T) {
	e, dev, mgr, rc := setup(t, 0, true)
	rc.DrawPath(gr.NoClip{}, gr.NewPaint(gputypes.ColorBlue), gr.Identity(), concavePath(), gr.SimpleFill())
	flush(t, mgr)

	if len(dev.passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(dev.passes))
	}
	p := dev.passes[0]
	if p.desc.DepthStencilAttachment == nil {
		t.Fatal("DepthStencilAttachment = nil, want the target stencil")
	}
	if len(p.draws) != 2 {
		t.Fatalf("draws = %v, want stencil and cover", p.draws)
	}
	if p.draws[1] != 6 {
		t.Errorf("cover vertices = %d, want 6", p.draws[1])
	}
	if len(p.refs) != 2 {
		t.Errorf("stencil references = %v, want one per draw", p.refs)
	}
	if got := e.pipelines.Len(); got != 2 {
		t.Errorf("pipelines = %d, want 2", got)
	}
}

func TestExecuteSkipsTexturedBatches(t *testing.T) {
	e, dev, mgr, rc := setup(t, 0, false)
	// Anti-aliased concave fills fall back to a software mask.
	rc.DrawPath(gr.NoClip{}, gr.NewPaint(gputypes.ColorBlue).WithAntiAlias(true), gr.Identity(), concavePath(), gr.SimpleFill())
	flush(t, mgr)

	if got := e.Stats().Skipped[gr.BatchMask]; got != 1 {
		t.Errorf("Skipped[mask] = %d, want 1", got)
	}
	if len(dev.passes) != 1 || len(dev.passes[0].draws) != 0 {
		t.Errorf("passes = %d, want one pass with no draws", len(dev.passes))
	}
}

func TestExecuteMultisampledResolves(t *testing.T) {
	_, dev, mgr, rc := setup(t, 4, true)
	rc.DrawOval(gr.NoClip{}, gr.NewPaint(gputypes.ColorBlue).WithAntiAlias(true), gr.Identity(), gr.RectLTRB(8, 8, 40, 40), gr.SimpleFill())
	flush(t, mgr)

	if len(dev.passes) != 1 {
		t.Fatalf("passes = %d, want 1", len(dev.passes))
	}
	ca := dev.passes[0].desc.ColorAttachments[0]
	if ca.ResolveTarget == nil {
		t.Error("ResolveTarget = nil, want the single-sample color view")
	}
	if len(dev.passes[0].draws) != 1 {
		t.Errorf("draws = %v, want the oval fan", dev.passes[0].draws)
	}
}

func TestExecuteErrors(t *testing.T) {
	e, _, _, rc := setup(t, 0, false)
	frame := gr.Frame{Target: rc.RenderTarget()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Execute(ctx, frame); !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() with cancelled ctx = %v, want %v", err, context.Canceled)
	}
	if err := e.Execute(context.Background(), gr.Frame{}); err == nil {
		t.Error("Execute() without target succeeded, want error")
	}
	if e.Texture(rc.RenderTarget().ID()) != nil {
		t.Error("Texture() before any frame != nil")
	}
	if err := e.Execute(context.Background(), frame); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if e.Texture(rc.RenderTarget().ID()) == nil {
		t.Error("Texture() after a frame = nil")
	}

	e.Destroy()
	e.Destroy()
	if err := e.Execute(context.Background(), frame); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Execute() after Destroy = %v, want %v", err, ErrDestroyed)
	}
}

func TestOpenUsesRegisteredBackend(t *testing.T) {
	// The noop backend registers itself when imported.
	e, err := Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer e.Destroy()
	if got := e.Info().Backend; got != gputypes.BackendEmpty {
		t.Errorf("Info().Backend = %v, want %v", got, gputypes.BackendEmpty)
	}
	if e.Info().Name == "" {
		t.Error("Info().Name is empty")
	}
}

func TestExecutorIsRegistered(t *testing.T) {
	exec, err := gr.NewExecutor("wgpu")
	if err != nil {
		t.Fatalf("NewExecutor(wgpu) error = %v", err)
	}
	if e, ok := exec.(*Executor); ok {
		e.Destroy()
	}
}
