// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr/text"
)

// SurfaceProps are per-surface rendering properties.
type SurfaceProps struct {
	// GammaCorrect requests linear blending for text and images.
	GammaCorrect bool
}

// RenderContext records draws into one render target. Every draw picks
// the cheapest batch that renders the primitive correctly and appends it
// to the target's open recording target.
//
// A RenderContext belongs to the owner it was created with; it is not safe
// for concurrent use. Draws never return errors: invalid or fully clipped
// draws are dropped, and after the manager is abandoned every draw is a
// no-op.
type RenderContext struct {
	manager *DrawingManager
	rt      *RenderTarget
	owner   OwnerToken
	props   SurfaceProps
	handle  RecordingHandle
	text    *text.Context
	pending bool
}

// RenderTarget returns the target the context draws into.
func (rc *RenderContext) RenderTarget() *RenderTarget { return rc.rt }

// Manager returns the drawing manager that created the context.
func (rc *RenderContext) Manager() *DrawingManager { return rc.manager }

// Owner returns the owner token the context was created with.
func (rc *RenderContext) Owner() OwnerToken { return rc.owner }

// SurfaceProps returns the surface properties.
func (rc *RenderContext) SurfaceProps() SurfaceProps { return rc.props }

// Width returns the target width in pixels.
func (rc *RenderContext) Width() int { return rc.rt.width }

// Height returns the target height in pixels.
func (rc *RenderContext) Height() int { return rc.rt.height }

// RecordingHandle returns the handle of the recording target the context
// last appended to.
func (rc *RenderContext) RecordingHandle() RecordingHandle { return rc.handle }

// Validate checks the context's recording state: the recording target it
// holds must be bound to its render target and, while open, must still be
// the target's last recording target under the same epoch.
func (rc *RenderContext) Validate() error {
	if rc.rt == nil || rc.manager == nil {
		return fmt.Errorf("%w: context has no render target", ErrInvalidState)
	}
	t := rc.handle.Target()
	if t == nil {
		return nil
	}
	if t.rt != rc.rt {
		return fmt.Errorf("%w: recording target %d belongs to render target %d, context draws to %d",
			ErrInvalidState, t.seq, t.rt.ID(), rc.rt.ID())
	}
	if t.IsClosed() {
		return nil
	}
	last, epoch := rc.rt.LastRecordingTarget()
	if last != t || epoch != rc.handle.epoch {
		return fmt.Errorf("%w: open recording target %d is not the last target of render target %d",
			ErrInvalidState, t.seq, rc.rt.ID())
	}
	return nil
}

// begin starts a public operation. It reports false when the draw must be
// skipped.
func (rc *RenderContext) begin() bool {
	if rc.manager.IsAbandoned() {
		return false
	}
	if debugChecks {
		rc.manager.guard.enter(rc.owner)
		if err := rc.Validate(); err != nil {
			rc.manager.guard.exit()
			panic(err)
		}
	}
	return true
}

func (rc *RenderContext) end() {
	if debugChecks {
		rc.manager.guard.exit()
	}
	if rc.pending {
		rc.pending = false
		rc.manager.DrawCompleted()
	}
}

// recordingTarget returns the open recording target, re-acquiring one when
// the held handle went stale.
func (rc *RenderContext) recordingTarget() *RecordingTarget {
	if rc.handle.Stale() {
		rc.handle = newRecordingHandle(rc.manager.AcquireRecordingTarget(rc.rt))
	}
	return rc.handle.Target()
}

func (rc *RenderContext) instancedRendering() InstancedRendering {
	return rc.recordingTarget().InstancedRendering()
}

func (rc *RenderContext) appendBatch(b Batch) {
	if err := rc.recordingTarget().Append(b); err != nil {
		Logger().Debug("gr: batch dropped", "batch", b.Kind().String(), "err", err)
		return
	}
	rc.pending = true
}

// aaMode decides how a paint's antialiasing is realized on the target:
// multisampling on a unified MSAA target, coverage AA otherwise.
func (rc *RenderContext) aaMode(p Paint) (useHWAA, coverageAA bool) {
	if !p.AntiAlias() {
		return false, false
	}
	if rc.rt.IsUnifiedMultisampled() {
		return true, false
	}
	return false, true
}

func (rc *RenderContext) mustUseHWAA(p Paint) bool {
	return p.AntiAlias() && rc.rt.IsUnifiedMultisampled()
}

// drawBatch finalizes b's pipeline from the paint, clip and stencil
// settings and records it. Batches entirely outside the clip are dropped
// and count as drawn. It returns false when the draw needs a stencil buffer
// the target does not have.
func (rc *RenderContext) drawBatch(p Paint, useHWAA bool, ss *StencilSettings, clip Clip, b Batch) bool {
	if clip == nil {
		clip = NoClip{}
	}
	w, h := rc.rt.width, rc.rt.height
	if !overlapsClip(b.Bounds(), clip.ConservativeBounds(w, h)) {
		Logger().Debug("gr: draw clipped out", "batch", b.Kind().String())
		return true
	}
	ac := clip.applied(w, h)
	if (ss != nil || ac.stencilClip) && !rc.rt.HasStencil() {
		Logger().Debug("gr: stencil draw on target without stencil", "batch", b.Kind().String())
		return false
	}

	pl := &b.state().pipeline
	pl.Color = p.Color()
	pl.Blend = p.BlendState()
	pl.WriteMask = p.WriteMask()
	pl.HWAA = useHWAA && rc.rt.IsUnifiedMultisampled()
	pl.Multisample = rc.rt.multisampleState()
	pl.Scissor = ac.scissor
	pl.ClipStencil = ac.stencilClip
	if n := len(p.Coverage()) + len(ac.coverage); n > 0 {
		pl.Coverage = make([]CoverageEffect, 0, n)
		pl.Coverage = append(pl.Coverage, p.Coverage()...)
		pl.Coverage = append(pl.Coverage, ac.coverage...)
	}
	switch {
	case ss != nil:
		pl.Stencil = ss.depthStencilState(rc.rt.stencilFormat, ac.stencilClip)
		pl.StencilReference = ss.Reference
		if ac.stencilClip {
			pl.StencilReference &^= clipStencilBit
		}
	case ac.stencilClip:
		pl.Stencil = clipStencilState(rc.rt.stencilFormat)
		pl.StencilReference = clipStencilBit
	}
	rc.appendBatch(b)
	return true
}

// overlapsClip reports whether bounds can touch a pixel of clip. Zero-area
// bounds (lines, points) touching the clip still overlap.
func overlapsClip(b Rect, clip IRect) bool {
	if clip.IsEmpty() {
		return false
	}
	c := clip.Rect()
	if b.Right < c.Left || b.Left > c.Right || b.Bottom < c.Top || b.Top > c.Bottom {
		return false
	}
	if b.Width() > 0 && b.Height() > 0 {
		return b.Right > c.Left && b.Left < c.Right && b.Bottom > c.Top && b.Top < c.Bottom
	}
	return true
}

// AddDependency closes the open recording target of src so that work
// recorded later into this context observes everything drawn into src.
func (rc *RenderContext) AddDependency(src *RenderTarget) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.recordingTarget().addDependency(src)
}

// Clear fills r (the whole target when nil) with c, ignoring the clip.
// With canIgnoreRect set, a backend that clears the whole target for free
// may do so instead.
func (rc *RenderContext) Clear(r *IRect, c gputypes.Color, canIgnoreRect bool) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.clear(r, c, canIgnoreRect)
}

func (rc *RenderContext) clear(r *IRect, c gputypes.Color, canIgnoreRect bool) {
	caps := rc.manager.caps
	rtRect := rc.rt.IBounds()
	clearRect := rtRect
	full := r == nil || (canIgnoreRect && caps.SupportsFullClearAtNoCost()) || r.Contains(rtRect)
	if !full {
		cr, ok := r.Intersect(rtRect)
		if !ok {
			return
		}
		clearRect = cr
	}

	if caps.MustSubstituteDrawForClear() {
		if full {
			rc.discard()
		}
		p := NewPaint(c).WithBlend(BlendSrc)
		rc.drawFilledRect(NoClip{}, p, Identity(), clearRect.Rect(), nil)
		return
	}
	rc.appendBatch(newClearBatch(clearRect, c, full))
}

// Discard marks the target contents as undefined.
func (rc *RenderContext) Discard() {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.discard()
}

func (rc *RenderContext) discard() {
	rc.appendBatch(&DiscardBatch{batchBase{kind: BatchDiscard, bounds: rc.rt.Bounds()}})
}

// DrawPaint fills the whole clip with paint. Antialiasing is turned off.
func (rc *RenderContext) DrawPaint(clip Clip, paint Paint, m Matrix) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.drawPaint(clip, paint, m)
}

func (rc *RenderContext) drawPaint(clip Clip, paint Paint, m Matrix) {
	inv, ok := m.Invert()
	if !ok {
		Logger().Debug("gr: drawPaint with non-invertible matrix")
		return
	}
	r := inv.MapRect(rc.rt.Bounds())
	rc.drawRect(clip, paint.WithAntiAlias(false), m, r, nil)
}

// DrawRect draws r with style (nil for a simple fill).
func (rc *RenderContext) DrawRect(clip Clip, paint Paint, m Matrix, r Rect, style *Style) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.drawRect(clip, paint, m, r, style)
}

func (rc *RenderContext) drawRect(clip Clip, paint Paint, m Matrix, r Rect, style *Style) {
	if clip == nil {
		clip = NoClip{}
	}
	st := SimpleFill()
	if style != nil {
		st = *style
	}
	if st.HasPathEffect() {
		rc.internalDrawPath(clip, paint, m, NewShapeFromPath(PathFromRect(r, DirectionCW), st))
		return
	}

	if st.IsFill() {
		if rc.fillCoversTarget(clip, m, r) {
			if c, ok := paint.IsConstantBlendedColor(); ok {
				if !rc.manager.caps.MustSubstituteDrawForClear() {
					rc.clear(nil, c, true)
					return
				}
				// The fill overwrites every pixel, so the old contents
				// need not be loaded.
				rc.discard()
			}
		}
		if rc.drawFilledRect(clip, paint, m, r, nil) {
			return
		}
	} else {
		if st.IsStroke() && (r.Width() == 0 || r.Height() == 0) {
			rc.drawZeroAreaStrokeRect(clip, paint, m, r, st)
			return
		}
		useHWAA, coverageAA := rc.aaMode(paint)
		var b Batch
		if coverageAA {
			if m.RectStaysRect() {
				b = newStrokeRectBatch(true, m, r, st, false)
			}
		} else {
			snap := st.IsHairline() && !rc.rt.IsUnifiedMultisampled()
			b = newStrokeRectBatch(false, m, r, st, snap)
		}
		if b != nil {
			rc.drawBatch(paint, useHWAA, nil, clip, b)
			return
		}
	}

	rc.internalDrawPath(clip, paint, m, NewShapeFromPath(PathFromRect(r, DirectionCW), st))
}

// fillCoversTarget reports whether filling r under m with clip touches
// every pixel of the target.
func (rc *RenderContext) fillCoversTarget(clip Clip, m Matrix, r Rect) bool {
	rtRect := rc.rt.Bounds()
	if !clip.QuickContains(rtRect) {
		return false
	}
	inv, ok := m.Invert()
	if !ok {
		return false
	}
	for _, p := range inv.MapRectToQuad(rtRect) {
		if p.X < r.Left || p.X > r.Right || p.Y < r.Top || p.Y > r.Bottom {
			return false
		}
	}
	return true
}

// drawZeroAreaStrokeRect draws a stroked rect with zero width or height as
// the fill the stroke sweeps out, which depends on the join.
func (rc *RenderContext) drawZeroAreaStrokeRect(clip Clip, paint Paint, m Matrix, r Rect, st Style) {
	rad := st.Width() / 2
	switch st.Join() {
	case JoinMiter:
		rc.drawRect(clip, paint, m, r.Outset(rad, rad), nil)
		return
	case JoinRound:
		if r.Width() != 0 || r.Height() != 0 {
			rr := RRectFromRectXY(r.Outset(rad, rad), rad, rad)
			rc.drawRRect(clip, paint, m, rr, SimpleFill())
			return
		}
	}
	if r.Width() == 0 {
		rc.drawRect(clip, paint, m, RectLTRB(r.Left-rad, r.Top, r.Right+rad, r.Bottom), nil)
	} else {
		rc.drawRect(clip, paint, m, RectLTRB(r.Left, r.Top-rad, r.Right, r.Bottom+rad), nil)
	}
}

// drawFilledRect records a fill of r. It returns false when no rect batch
// can draw it and the caller must fall back to a path.
func (rc *RenderContext) drawFilledRect(clip Clip, paint Paint, m Matrix, r Rect, ss *StencilSettings) bool {
	cropped := r
	if !cropFilledRect(rc.rt.width, rc.rt.height, clip, m, &cropped, nil) {
		return true
	}

	if ir := rc.instancedRendering(); ir != nil {
		b := ir.Record(InstancedRequest{
			Shape:      InstancedRect,
			Rect:       cropped,
			ViewMatrix: m,
			Color:      paint.Color(),
			AntiAlias:  paint.AntiAlias(),
			Info:       instancedInfo(rc.rt),
		})
		if b != nil {
			rc.drawBatch(paint, b.UsesHWAA(), ss, clip, b)
			return true
		}
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA {
		if !m.PreservesRightAngles() {
			return false
		}
		rc.drawBatch(paint, useHWAA, ss, clip, newFillRectBatch(true, m, cropped, nil, nil))
		return true
	}
	rc.drawBatch(paint, useHWAA, ss, clip, newFillRectBatch(false, m, cropped, nil, nil))
	return true
}

// cropFilledRect shrinks rect (and local proportionally) to the part that
// can touch the clip. It returns false when nothing is left. Matrices that
// do not keep rects rects are left alone.
func cropFilledRect(width, height int, clip Clip, m Matrix, rect, local *Rect) bool {
	if !m.RectStaysRect() {
		return true
	}
	inv, ok := m.Invert()
	if !ok {
		return false
	}
	cb := inv.MapRect(clip.ConservativeBounds(width, height).Rect())

	if local == nil {
		r, ok := rect.Intersect(cb)
		if !ok {
			return false
		}
		*rect = r
		return true
	}

	if !rect.Intersects(cb) {
		return false
	}
	dx := local.Width() / rect.Width()
	dy := local.Height() / rect.Height()
	if cb.Left > rect.Left {
		local.Left += (cb.Left - rect.Left) * dx
		rect.Left = cb.Left
	}
	if cb.Top > rect.Top {
		local.Top += (cb.Top - rect.Top) * dy
		rect.Top = cb.Top
	}
	if cb.Right < rect.Right {
		local.Right -= (rect.Right - cb.Right) * dx
		rect.Right = cb.Right
	}
	if cb.Bottom < rect.Bottom {
		local.Bottom -= (rect.Bottom - cb.Bottom) * dy
		rect.Bottom = cb.Bottom
	}
	return !math.IsNaN(local.Left + local.Top + local.Right + local.Bottom)
}

// FillRectToRect fills rectToDraw with local coordinates given by
// localRect.
func (rc *RenderContext) FillRectToRect(clip Clip, paint Paint, m Matrix, rectToDraw, localRect Rect) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}

	cropped, local := rectToDraw, localRect
	if !cropFilledRect(rc.rt.width, rc.rt.height, clip, m, &cropped, &local) {
		return
	}

	if ir := rc.instancedRendering(); ir != nil {
		b := ir.Record(InstancedRequest{
			Shape:      InstancedRect,
			Rect:       cropped,
			LocalRect:  &local,
			ViewMatrix: m,
			Color:      paint.Color(),
			AntiAlias:  paint.AntiAlias(),
			Info:       instancedInfo(rc.rt),
		})
		if b != nil {
			rc.drawBatch(paint, b.UsesHWAA(), nil, clip, b)
			return
		}
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA && m.PreservesRightAngles() {
		rc.drawBatch(paint, useHWAA, nil, clip, newFillRectBatch(true, m, cropped, &local, nil))
		return
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, newFillRectBatch(false, m, cropped, &local, nil))
}

// FillRectWithLocalMatrix fills r with local coordinates produced by
// localMatrix.
func (rc *RenderContext) FillRectWithLocalMatrix(clip Clip, paint Paint, m Matrix, r Rect, localMatrix Matrix) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.fillRectWithLocalMatrix(clip, paint, m, r, localMatrix)
}

func (rc *RenderContext) fillRectWithLocalMatrix(clip Clip, paint Paint, m Matrix, r Rect, localMatrix Matrix) {
	if clip == nil {
		clip = NoClip{}
	}
	if ir := rc.instancedRendering(); ir != nil {
		b := ir.Record(InstancedRequest{
			Shape:       InstancedRect,
			Rect:        r,
			LocalMatrix: &localMatrix,
			ViewMatrix:  m,
			Color:       paint.Color(),
			AntiAlias:   paint.AntiAlias(),
			Info:        instancedInfo(rc.rt),
		})
		if b != nil {
			rc.drawBatch(paint, b.UsesHWAA(), nil, clip, b)
			return
		}
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA && m.PreservesRightAngles() {
		rc.drawBatch(paint, useHWAA, nil, clip, newFillRectBatch(true, m, r, nil, &localMatrix))
		return
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, newFillRectBatch(false, m, r, nil, &localMatrix))
}
