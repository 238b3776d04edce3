package wgpu

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gr"
)

// ErrDestroyed is returned by Execute after Destroy.
var ErrDestroyed = errors.New("wgpu: executor destroyed")

func init() {
	gr.RegisterExecutor("wgpu", func() gr.Executor {
		e, err := Open()
		if err != nil {
			gr.Logger().Warn("wgpu: executor unavailable", "err", err)
			return gr.ExecutorFunc(func(context.Context, gr.Frame) error { return err })
		}
		return e
	})
}

// Stats counts the work an executor submitted.
type Stats struct {
	Frames  int
	Draws   int
	Skipped map[gr.BatchKind]int
}

// Executor draws frames on a HAL device. It is safe for concurrent use;
// frames are encoded and submitted one at a time.
type Executor struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	info     GPUInfo

	mu        sync.Mutex
	pipelines *PipelineCache
	targets   map[uint64]*targetTextures
	stats     Stats
	destroyed bool
}

var _ gr.Executor = (*Executor)(nil)

// New creates an executor on an open device. The caller keeps ownership of
// the device and queue.
func New(device hal.Device, queue hal.Queue) *Executor {
	return &Executor{
		device:    device,
		queue:     queue,
		pipelines: NewPipelineCache(device),
		targets:   make(map[uint64]*targetTextures),
		stats:     Stats{Skipped: make(map[gr.BatchKind]int)},
	}
}

// Info returns the adapter the executor was opened on. It is zero for
// executors created with New.
func (e *Executor) Info() GPUInfo { return e.info }

// Stats returns a snapshot of the submitted work.
func (e *Executor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Skipped = make(map[gr.BatchKind]int, len(e.stats.Skipped))
	for k, v := range e.stats.Skipped {
		s.Skipped[k] = v
	}
	return s
}

// Texture returns the single-sample color texture holding the contents of
// the render target with the given ID, or nil if no frame was executed for
// it.
func (e *Executor) Texture(id uint64) hal.Texture {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.targets[id]; ok {
		return t.resolve()
	}
	return nil
}

// Release drops the textures of a render target.
func (e *Executor) Release(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.targets[id]; ok {
		t.destroy(e.device)
		delete(e.targets, id)
	}
}

// Destroy releases every GPU resource. Devices opened by Open are
// destroyed too. Destroy is idempotent.
func (e *Executor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	e.destroyed = true
	for id, t := range e.targets {
		t.destroy(e.device)
		delete(e.targets, id)
	}
	e.pipelines.Destroy()
	if e.instance != nil {
		e.device.Destroy()
		e.instance.Destroy()
		e.instance = nil
	}
}

// draw is one Draw call of a frame.
type draw struct {
	key       pipelineKey
	first     uint32
	count     uint32
	scissor   *gr.IRect
	reference uint32
}

// frameData is a frame lowered to vertices and draw calls.
type frameData struct {
	load       gputypes.LoadOp
	clearColor gputypes.Color
	verts      []vertex
	draws      []draw
}

// Execute encodes f in one render pass, submits it and waits for the
// device to go idle.
func (e *Executor) Execute(ctx context.Context, f gr.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Target == nil {
		return fmt.Errorf("wgpu: frame %d has no target", f.Sequence)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.pipelines.init(f.Programs); err != nil {
		return fmt.Errorf("wgpu: %w", err)
	}
	tt, err := e.target(f.Target)
	if err != nil {
		return fmt.Errorf("wgpu: target %q: %w", f.Target.Label(), err)
	}

	fd := e.lower(f, tt)
	if err := e.submit(ctx, f, tt, fd); err != nil {
		return fmt.Errorf("wgpu: frame %d: %w", f.Sequence, err)
	}
	tt.fresh = false
	e.stats.Frames++
	e.stats.Draws += len(fd.draws)
	return nil
}

func (e *Executor) target(rt *gr.RenderTarget) (*targetTextures, error) {
	if t, ok := e.targets[rt.ID()]; ok {
		return t, nil
	}
	t, err := newTargetTextures(e.device, rt)
	if err != nil {
		return nil, err
	}
	e.targets[rt.ID()] = t
	return t, nil
}

// lower turns the batches of f into vertices and draw calls. A leading
// full-target clear or discard becomes the pass load op.
func (e *Executor) lower(f gr.Frame, tt *targetTextures) *frameData {
	fd := &frameData{load: gputypes.LoadOpLoad}
	if tt.fresh {
		fd.load = gputypes.LoadOpClear
	}
	batches := f.Batches
loadOps:
	for len(batches) > 0 {
		switch b := batches[0].(type) {
		case *gr.ClearBatch:
			if !b.FullTarget {
				break loadOps
			}
			fd.load, fd.clearColor = b.LoadOp(), b.Color
		case *gr.DiscardBatch:
			fd.load, fd.clearColor = gputypes.LoadOpClear, gputypes.Color{}
		default:
			break loadOps
		}
		batches = batches[1:]
	}

	for _, b := range batches {
		switch b := b.(type) {
		case *gr.ClearBatch:
			fd.add(e.clearDraw(tt, b))
			continue
		case *gr.ClearStencilClipBatch:
			if tt.stencilFormat != gputypes.TextureFormatUndefined {
				fd.add(e.stencilClipDraw(tt, b))
			}
			continue
		case *gr.DiscardBatch:
			continue
		}

		pl := b.Pipeline()
		m := mesh{color: pl.Color}
		if !tessellate(&m, b) {
			e.stats.Skipped[b.Kind()]++
			gr.Logger().Debug("wgpu: batch skipped", "batch", b.Kind().String())
			continue
		}
		fd.add(draw{key: tt.key(pl), scissor: pl.Scissor, reference: pl.StencilReference}, m.verts)
	}
	return fd
}

func (fd *frameData) add(d draw, verts []vertex) {
	if len(verts) == 0 {
		return
	}
	d.first = uint32(len(fd.verts))
	d.count = uint32(len(verts))
	fd.verts = append(fd.verts, verts...)
	fd.draws = append(fd.draws, d)
}

// clearDraw replaces the pixels of a partial clear with a scissored quad.
func (e *Executor) clearDraw(tt *targetTextures, b *gr.ClearBatch) (draw, []vertex) {
	key := tt.baseKey()
	key.blend = gputypes.BlendStateReplace()
	m := mesh{color: b.Color}
	m.quad(gr.Identity().MapRectToQuad(b.Rect.Rect()))
	r := b.Rect
	return draw{key: key, scissor: &r}, m.verts
}

// stencilClipDraw sets or clears the clip bit under a quad without
// touching color.
func (e *Executor) stencilClipDraw(tt *targetTextures, b *gr.ClearStencilClipBatch) (draw, []vertex) {
	const clipBit = 0x80
	key := tt.baseKey()
	key.writeMask = gputypes.ColorWriteMaskNone
	face := gputypes.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      gputypes.StencilOperationReplace,
	}
	key.stencil = gputypes.DepthStencilState{
		Format:           tt.stencilFormat,
		DepthCompare:     gputypes.CompareFunctionAlways,
		StencilFront:     face,
		StencilBack:      face,
		StencilReadMask:  clipBit,
		StencilWriteMask: clipBit,
	}
	var ref uint32
	if b.InsideClip {
		ref = clipBit
	}
	m := mesh{}
	m.quad(gr.Identity().MapRectToQuad(b.Rect.Rect()))
	r := b.Rect
	return draw{key: key, scissor: &r, reference: ref}, m.verts
}

func (e *Executor) submit(ctx context.Context, f gr.Frame, tt *targetTextures, fd *frameData) error {
	var (
		vb, ub hal.Buffer
		bg     hal.BindGroup
		err    error
	)
	defer func() {
		if bg != nil {
			e.device.DestroyBindGroup(bg)
		}
		if ub != nil {
			e.device.DestroyBuffer(ub)
		}
		if vb != nil {
			e.device.DestroyBuffer(vb)
		}
	}()

	if len(fd.draws) > 0 {
		data := encodeVertices(fd.verts)
		vb, err = e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "gr_vertices",
			Size:  uint64(len(data)),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create vertex buffer: %w", err)
		}
		if err := e.queue.WriteBuffer(vb, 0, data); err != nil {
			return fmt.Errorf("write vertex buffer: %w", err)
		}
		ub, err = e.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "gr_uniforms",
			Size:  uniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create uniform buffer: %w", err)
		}
		if err := e.queue.WriteBuffer(ub, 0, encodeUniforms(tt.width, tt.height)); err != nil {
			return fmt.Errorf("write uniform buffer: %w", err)
		}
		bg, err = e.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:  "gr_uniforms",
			Layout: e.pipelines.uniformLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: uniformSize}},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group: %w", err)
		}
	}

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gr_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(f.Target.Label()); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(tt.passDescriptor(fd.load, fd.clearColor))
	for _, d := range fd.draws {
		if err := ctx.Err(); err != nil {
			rp.End()
			encoder.DiscardEncoding()
			return err
		}
		p, err := e.pipelines.Get(d.key)
		if err != nil {
			rp.End()
			encoder.DiscardEncoding()
			return err
		}
		rp.SetPipeline(p)
		rp.SetBindGroup(0, bg, nil)
		rp.SetVertexBuffer(0, vb, 0)
		if d.scissor != nil {
			s := clampScissor(*d.scissor, tt.width, tt.height)
			rp.SetScissorRect(s.x, s.y, s.w, s.h)
		} else {
			rp.SetScissorRect(0, 0, tt.width, tt.height)
		}
		if tt.stencilFormat != gputypes.TextureFormatUndefined {
			rp.SetStencilReference(d.reference)
		}
		rp.Draw(d.count, 1, d.first, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	if _, err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := e.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}
	return nil
}

type scissorRect struct{ x, y, w, h uint32 }

func clampScissor(r gr.IRect, w, h uint32) scissorRect {
	l := uint32(min(max(r.Left, 0), int(w)))
	t := uint32(min(max(r.Top, 0), int(h)))
	rr := uint32(min(max(r.Right, 0), int(w)))
	b := uint32(min(max(r.Bottom, 0), int(h)))
	if rr < l {
		rr = l
	}
	if b < t {
		b = t
	}
	return scissorRect{l, t, rr - l, b - t}
}

func putFloat(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(v)))
}

func encodeVertices(verts []vertex) []byte {
	b := make([]byte, len(verts)*vertexStride)
	for i, v := range verts {
		o := i * vertexStride
		putFloat(b, o, v.pos.X)
		putFloat(b, o+4, v.pos.Y)
		putFloat(b, o+8, v.color.R)
		putFloat(b, o+12, v.color.G)
		putFloat(b, o+16, v.color.B)
		putFloat(b, o+20, v.color.A)
	}
	return b
}

// encodeUniforms writes an identity view, the viewport size and a white
// color: vertices are already in device space and carry their color.
func encodeUniforms(width, height uint32) []byte {
	b := make([]byte, uniformSize)
	putFloat(b, 0, 1)
	putFloat(b, 20, 1)
	putFloat(b, 40, 1)
	putFloat(b, 48, float64(width))
	putFloat(b, 52, float64(height))
	for i := 0; i < 4; i++ {
		putFloat(b, 64+4*i, 1)
	}
	return b
}
