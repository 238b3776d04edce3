// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/gogpu/gr/internal/cache"
	"github.com/gogpu/gr/program"
	"github.com/gogpu/gr/text"
)

// DrawingManager owns the recording targets of one device, the path
// renderer chain and the flush policy. It hands out render contexts and is
// driven by a single owner at a time.
type DrawingManager struct {
	caps      *Caps
	opts      managerOptions
	chain     *PathRendererChain
	instanced InstancedRendering
	programs  *program.Cache
	glyphs    text.GlyphAtlas
	masks     *cache.LRU[maskKey, cachedMask]

	abandoned  atomic.Bool
	recordings []*RecordingTarget
	pending    int
	flushing   bool

	guard ownerGuard
}

// NewDrawingManager creates a drawing manager for caps.
func NewDrawingManager(caps *Caps, opts ...ManagerOption) (*DrawingManager, error) {
	if caps == nil {
		return nil, ErrNilCaps
	}
	o := defaultManagerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := &DrawingManager{caps: caps, opts: o, programs: o.programs}
	if o.instanced && caps.InstancedSupport() {
		m.instanced = defaultInstanced{}
	}
	if o.maskCacheSize > 0 {
		m.masks = cache.New[maskKey, cachedMask](o.maskCacheSize)
	}
	Logger().Info("gr: drawing manager created",
		"adapter", caps.AdapterInfo().Name,
		"instanced", m.instanced != nil,
		"flushThreshold", o.flushThreshold)
	return m, nil
}

// Caps returns the capabilities the manager was created with.
func (m *DrawingManager) Caps() *Caps { return m.caps }

// NewRenderContext returns a context that draws into rt on behalf of
// owner. The zero token is rejected.
func (m *DrawingManager) NewRenderContext(rt *RenderTarget, owner OwnerToken, props SurfaceProps) (*RenderContext, error) {
	if m.IsAbandoned() {
		return nil, ErrAbandoned
	}
	if owner == 0 {
		return nil, ErrOwnerMismatch
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: nil render target", ErrInvalidRenderTarget)
	}
	return &RenderContext{manager: m, rt: rt, owner: owner, props: props}, nil
}

// AcquireRecordingTarget returns the open recording target of rt, creating
// a new one when rt has none or its last one was closed. A new target
// becomes rt's last target and receives a fresh epoch.
func (m *DrawingManager) AcquireRecordingTarget(rt *RenderTarget) *RecordingTarget {
	if last, _ := rt.LastRecordingTarget(); last != nil && !last.IsClosed() {
		return last
	}
	t := newRecordingTarget(rt, m.instanced)
	rt.lastRecording, rt.lastEpoch = t, t.epoch
	m.recordings = append(m.recordings, t)
	Logger().Debug("gr: recording target opened",
		"target", rt.Label(), "sequence", t.seq, "epoch", t.epoch)
	return t
}

// Recordings returns the recording targets that have not been flushed yet,
// in creation order.
func (m *DrawingManager) Recordings() []*RecordingTarget {
	out := make([]*RecordingTarget, len(m.recordings))
	copy(out, m.recordings)
	return out
}

// PathRendererChain returns the chain, building it on first use.
func (m *DrawingManager) PathRendererChain() *PathRendererChain {
	if m.chain == nil {
		m.chain = NewPathRendererChain(m.opts.pathRenderers...)
	}
	return m.chain
}

// FindPathRenderer returns the first renderer in the chain that accepts
// args, or nil.
func (m *DrawingManager) FindPathRenderer(args *CanDrawPathArgs, allowSoftware bool, drawType DrawType) PathRenderer {
	pr := m.PathRendererChain().Find(args, allowSoftware, drawType)
	if pr != nil {
		Logger().Debug("gr: path renderer selected", "renderer", pr.Name(), "software", allowSoftware)
	}
	return pr
}

// Programs returns the program cache, creating one on first use.
func (m *DrawingManager) Programs() *program.Cache {
	if m.programs == nil {
		m.programs = program.NewCache()
	}
	return m.programs
}

func (m *DrawingManager) glyphAtlas() text.GlyphAtlas {
	if m.glyphs == nil {
		m.glyphs = text.NewShelfAtlas(1024, 1024, 4)
	}
	return m.glyphs
}

// MaskCacheStats reports the traffic of the software mask cache. It is
// zero when the cache is disabled.
func (m *DrawingManager) MaskCacheStats() CacheStats {
	if m.masks == nil {
		return CacheStats{}
	}
	return m.masks.Stats()
}

// IsAbandoned reports whether the device was lost or released.
func (m *DrawingManager) IsAbandoned() bool { return m.abandoned.Load() }

// Abandon marks the manager unusable and drops all recorded work. Every
// later draw is a no-op.
func (m *DrawingManager) Abandon() {
	if m.abandoned.Swap(true) {
		return
	}
	dropped := len(m.recordings)
	for _, t := range m.recordings {
		t.Close()
	}
	m.recordings = nil
	m.pending = 0
	if m.masks != nil {
		m.masks.Clear()
	}
	Logger().Info("gr: drawing manager abandoned", "droppedRecordings", dropped)
}

// DrawCompleted is called after every draw that recorded work. It flushes
// when the number of completed draws reaches the flush threshold.
func (m *DrawingManager) DrawCompleted() {
	m.pending++
	if m.opts.flushThreshold <= 0 || m.pending < m.opts.flushThreshold || m.flushing {
		return
	}
	if err := m.Flush(context.Background()); err != nil {
		Logger().Warn("gr: automatic flush failed", "err", err)
	}
}

// Flush closes every open recording target and passes each non-empty one
// to the executor in creation order. Executor errors do not stop the
// flush; they are joined into the returned error. A cancelled ctx stops
// the flush and the remaining work is dropped.
func (m *DrawingManager) Flush(ctx context.Context) error {
	if m.IsAbandoned() {
		return ErrAbandoned
	}
	if m.flushing {
		return nil
	}
	m.flushing = true
	defer func() { m.flushing = false }()

	recs := m.recordings
	m.recordings = nil
	m.pending = 0
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	var errs []error
	executed := 0
	for _, t := range recs {
		t.Close()
		if t.Len() == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		f := Frame{Target: t.rt, Sequence: t.seq, Batches: t.Batches(), Programs: m.Programs()}
		if err := m.opts.executor.Execute(ctx, f); err != nil {
			errs = append(errs, fmt.Errorf("gr: execute recording %d: %w", t.seq, err))
			continue
		}
		executed++
	}
	err := errors.Join(errs...)
	if err != nil {
		Logger().Warn("gr: flush", "recordings", len(recs), "executed", executed, "err", err)
	} else {
		Logger().Debug("gr: flush", "recordings", len(recs), "executed", executed)
	}
	return err
}
