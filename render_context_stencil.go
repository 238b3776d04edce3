package gr

import "github.com/gogpu/gputypes"

// The methods in this file build clip masks: they write coverage with
// region operations or touch the stencil buffer directly.

// ClearStencilClip sets (insideClip) or clears the stencil clip bit inside
// rect.
func (rc *RenderContext) ClearStencilClip(rect IRect, insideClip bool) {
	if !rc.begin() {
		return
	}
	defer rc.end()

	r, ok := rect.Intersect(rc.rt.IBounds())
	if !ok || !rc.rt.HasStencil() {
		return
	}
	rc.appendBatch(&ClearStencilClipBatch{
		batchBase:  batchBase{kind: BatchClearStencilClip, bounds: r.Rect()},
		Rect:       r,
		InsideClip: insideClip,
	})
}

// StencilRect writes ss into the stencil buffer under rect. No color is
// written.
func (rc *RenderContext) StencilRect(clip Clip, ss *StencilSettings, useHWAA bool, m Matrix, rect Rect) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}
	p := NewPaint(gputypes.ColorWhite).WithAntiAlias(useHWAA).WithBlend(BlendDisableColor)
	rc.drawFilledRect(clip, p, m, rect, ss)
}

// StencilPath renders path's fill into the stencil buffer without writing
// color. It returns false when no renderer can stencil the path.
func (rc *RenderContext) StencilPath(clip Clip, useHWAA bool, m Matrix, path *Path) bool {
	if !rc.begin() {
		return false
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}
	if path == nil || !rc.rt.HasStencil() {
		return false
	}

	shape := NewShapeFromPath(path, SimpleFill())
	args := &CanDrawPathArgs{
		ShaderCaps:          rc.manager.caps.ShaderCaps(),
		ViewMatrix:          m,
		Shape:               &shape,
		IsStencilBufferMSAA: rc.rt.IsStencilBufferMultisampled(),
		HasStencil:          rc.rt.HasStencil(),
	}
	pr := rc.manager.FindPathRenderer(args, false, DrawTypeStencil)
	if pr == nil {
		return false
	}
	p := NewPaint(gputypes.ColorWhite).WithAntiAlias(useHWAA).WithBlend(BlendDisableColor)
	return pr.DrawPath(&DrawPathArgs{
		Context:    rc,
		Paint:      p,
		Clip:       clip,
		ViewMatrix: m,
		Shape:      &shape,
		UseHWAA:    useHWAA && rc.rt.IsUnifiedMultisampled(),
	})
}

// DrawAndStencilRect draws rect's coverage combined with the destination
// by op, honoring ss. It reports whether the draw was recorded.
func (rc *RenderContext) DrawAndStencilRect(clip Clip, ss *StencilSettings, op RegionOp, invert, doAA bool, m Matrix, rect Rect) bool {
	if !rc.begin() {
		return false
	}
	defer rc.end()
	return rc.drawAndStencilRect(clip, ss, op, invert, doAA, m, rect)
}

func (rc *RenderContext) drawAndStencilRect(clip Clip, ss *StencilSettings, op RegionOp, invert, doAA bool, m Matrix, rect Rect) bool {
	if clip == nil {
		clip = NoClip{}
	}
	if ss != nil && !rc.rt.HasStencil() {
		return false
	}
	p := NewPaint(gputypes.ColorWhite).WithAntiAlias(doAA).WithCoverageSetOp(op, invert)
	if rc.drawFilledRect(clip, p, m, rect, ss) {
		return true
	}
	return rc.drawAndStencilPath(clip, ss, op, invert, doAA, m, PathFromRect(rect, DirectionCW))
}

// DrawAndStencilPath draws path's coverage combined with the destination
// by op, honoring ss. The software renderer is never used; false means no
// renderer could draw the path.
func (rc *RenderContext) DrawAndStencilPath(clip Clip, ss *StencilSettings, op RegionOp, invert, doAA bool, m Matrix, path *Path) bool {
	if !rc.begin() {
		return false
	}
	defer rc.end()
	if path == nil {
		return false
	}
	return rc.drawAndStencilPath(clip, ss, op, invert, doAA, m, path)
}

func (rc *RenderContext) drawAndStencilPath(clip Clip, ss *StencilSettings, op RegionOp, invert, doAA bool, m Matrix, path *Path) bool {
	if clip == nil {
		clip = NoClip{}
	}
	if path.IsEmpty() && path.IsInverseFill() {
		return rc.drawAndStencilRect(clip, ss, op, invert, false, Identity(), rc.rt.Bounds())
	}

	coverageAA := doAA && !rc.rt.IsUnifiedMultisampled()
	shape := NewShapeFromPath(path, SimpleFill())
	args := &CanDrawPathArgs{
		ShaderCaps:             rc.manager.caps.ShaderCaps(),
		ViewMatrix:             m,
		Shape:                  &shape,
		AntiAlias:              coverageAA,
		HasUserStencilSettings: ss != nil,
		IsStencilBufferMSAA:    rc.rt.IsStencilBufferMultisampled(),
		HasStencil:             rc.rt.HasStencil(),
	}
	pr := rc.manager.FindPathRenderer(args, false, DrawTypeColor)
	if pr == nil {
		return false
	}
	p := NewPaint(gputypes.ColorWhite).WithAntiAlias(doAA).WithCoverageSetOp(op, invert)
	return pr.DrawPath(&DrawPathArgs{
		Context:     rc,
		Paint:       p,
		UserStencil: ss,
		Clip:        clip,
		ViewMatrix:  m,
		Shape:       &shape,
		AntiAlias:   coverageAA,
		UseHWAA:     doAA && rc.rt.IsUnifiedMultisampled(),
	})
}
