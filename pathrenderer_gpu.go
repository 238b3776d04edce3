package gr

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr/internal/stroke"
	"github.com/gogpu/gr/internal/tess"
)

// DashLinePathRenderer draws a dash effect on a single axis-aligned line
// without flattening it into a path.
type DashLinePathRenderer struct{}

func (DashLinePathRenderer) Name() string { return "dash_line" }

func (DashLinePathRenderer) CanDrawPath(a *CanDrawPathArgs) bool {
	st := a.Shape.Style()
	d := st.Dash()
	if d == nil || len(d.Intervals) != 2 || st.IsFill() || st.Cap() == CapRound {
		return false
	}
	p0, p1, ok := a.Shape.AsLine()
	if !ok || (p0.X != p1.X && p0.Y != p1.Y) {
		return false
	}
	return a.ViewMatrix.PreservesRightAngles()
}

func (DashLinePathRenderer) StencilSupport(*Shape) StencilSupport { return StencilNoSupport }

func (DashLinePathRenderer) DrawPath(a *DrawPathArgs) bool {
	p0, p1, ok := a.Shape.AsLine()
	if !ok {
		return false
	}
	st := a.Shape.Style()
	d := st.Dash()
	line := []stroke.Contour{{Points: []stroke.Point{{X: p0.X, Y: p0.Y}, {X: p1.X, Y: p1.Y}}}}
	dashes := stroke.Dash(line, d.Intervals, d.Phase)
	segs := make([][2]Point, 0, len(dashes))
	for _, c := range dashes {
		if len(c.Points) < 2 {
			continue
		}
		first, last := c.Points[0], c.Points[len(c.Points)-1]
		segs = append(segs, [2]Point{{first.X, first.Y}, {last.X, last.Y}})
	}
	if len(segs) == 0 {
		return true
	}
	return a.Emit(a.Paint, a.UserStencil, NewDashLineBatch(a.ViewMatrix, segs, st.Width(), st.Cap(), a.AntiAlias))
}

// StencilAndCoverPathRenderer uses native path rendering: the path is
// stenciled as a whole and then covered. It has no per-path coverage AA
// and relies on a multisampled stencil buffer for anti-aliasing.
type StencilAndCoverPathRenderer struct{}

func (StencilAndCoverPathRenderer) Name() string { return "stencil_and_cover" }

func (StencilAndCoverPathRenderer) CanDrawPath(a *CanDrawPathArgs) bool {
	if a.ShaderCaps == nil || !a.ShaderCaps.PathRenderingSupport {
		return false
	}
	st := a.Shape.Style()
	if !a.HasStencil || st.IsHairline() || st.HasNonDashPathEffect() || a.HasUserStencilSettings {
		return false
	}
	if a.AntiAlias {
		return a.IsStencilBufferMSAA
	}
	return true
}

func (StencilAndCoverPathRenderer) StencilSupport(*Shape) StencilSupport { return StencilOnly }

func (StencilAndCoverPathRenderer) DrawPath(a *DrawPathArgs) bool {
	shape := *a.Shape
	if shape.Style().Applies() {
		shape = shape.ApplyStyle(ApplyPathEffectAndStroke, styleScaleFactor(a.ViewMatrix))
		if shape.IsEmpty() {
			return true
		}
	}
	return stencilThenCover(a, shape, a.UseHWAA || a.AntiAlias)
}

// AAConvexPathRenderer fills convex paths with analytic edge coverage.
type AAConvexPathRenderer struct{}

func (AAConvexPathRenderer) Name() string { return "aa_convex" }

func (AAConvexPathRenderer) CanDrawPath(a *CanDrawPathArgs) bool {
	return a.AntiAlias &&
		a.Shape.Style().IsSimpleFill() &&
		!a.Shape.IsInverseFilled() &&
		a.Shape.IsConvex()
}

func (AAConvexPathRenderer) StencilSupport(*Shape) StencilSupport { return StencilNoSupport }

func (AAConvexPathRenderer) DrawPath(a *DrawPathArgs) bool {
	cs := a.Shape.Path().Flatten(flattenTolerance(a.ViewMatrix))
	if len(cs) == 0 {
		return true
	}
	tris := fromTess(tess.ConvexFan(tessContours(cs[:1])[0]))
	if len(tris) == 0 {
		return true
	}
	return a.Emit(a.Paint, a.UserStencil, NewConvexPathBatch(a.ViewMatrix, tris, true))
}

// AAHairlinePathRenderer draws hairlines, and strokes thin enough to be
// hairlines, as anti-aliased one-pixel quads.
type AAHairlinePathRenderer struct{}

func (AAHairlinePathRenderer) Name() string { return "aa_hairline" }

func (AAHairlinePathRenderer) CanDrawPath(a *CanDrawPathArgs) bool {
	if !a.AntiAlias {
		return false
	}
	_, ok := hairlineCoverage(a.Shape.Style(), a.ViewMatrix)
	return ok
}

func (AAHairlinePathRenderer) StencilSupport(*Shape) StencilSupport { return StencilNoSupport }

func (AAHairlinePathRenderer) DrawPath(a *DrawPathArgs) bool {
	cov, ok := hairlineCoverage(a.Shape.Style(), a.ViewMatrix)
	if !ok {
		return false
	}
	quads := deviceHairlineQuads(a.Shape, a.ViewMatrix)
	if len(quads) == 0 {
		return true
	}
	return a.Emit(a.Paint, a.UserStencil, NewHairlineBatch(quads, cov))
}

func deviceHairlineQuads(s *Shape, m Matrix) []Point {
	cs := s.deviceContours(m)
	closed := make([]bool, len(cs))
	for i, c := range cs {
		closed[i] = c.Closed
	}
	return fromTess(tess.HairlineQuads(tessContours(cs), closed))
}

// DefaultPathRenderer fills paths without coverage AA by stencil-then-cover
// over fan tessellations, and draws non-AA hairlines as lines. Convex
// non-inverse fills skip the stencil pass.
type DefaultPathRenderer struct{}

func (DefaultPathRenderer) Name() string { return "default" }

func (DefaultPathRenderer) CanDrawPath(a *CanDrawPathArgs) bool {
	if a.AntiAlias {
		return false
	}
	if a.HasUserStencilSettings && !singlePassShape(a.Shape) {
		return false
	}
	if a.Shape.Style().IsSimpleFill() {
		return a.HasStencil || singlePassShape(a.Shape)
	}
	_, ok := hairlineCoverage(a.Shape.Style(), a.ViewMatrix)
	return ok
}

func (DefaultPathRenderer) StencilSupport(s *Shape) StencilSupport {
	if singlePassShape(s) {
		return StencilNoRestriction
	}
	return StencilOnly
}

func singlePassShape(s *Shape) bool {
	if s.IsInverseFilled() {
		return false
	}
	return s.Style().IsSimpleHairline() || s.IsConvex()
}

func (DefaultPathRenderer) DrawPath(a *DrawPathArgs) bool {
	st := a.Shape.Style()
	tol := flattenTolerance(a.ViewMatrix)
	ss := a.UserStencil
	if ss == nil && a.Paint.Blend() == BlendDisableColor {
		ss = &StencilDirect
	}
	if !st.IsFill() {
		cov, ok := hairlineCoverage(st, a.ViewMatrix)
		if !ok {
			return false
		}
		var lines []Point
		for _, c := range a.Shape.Path().Flatten(tol) {
			for i := 0; i+1 < len(c.Points); i++ {
				lines = append(lines, c.Points[i], c.Points[i+1])
			}
			if c.Closed {
				lines = append(lines, c.Points[len(c.Points)-1], c.Points[0])
			}
		}
		if len(lines) == 0 {
			return true
		}
		b := NewVerticesBatch(a.ViewMatrix, gputypes.PrimitiveTopologyLineList, lines)
		b.bounds = b.bounds.Outset(0.5, 0.5)
		p := a.Paint
		if cov < 1 {
			c := p.Color()
			p = p.WithColor(c.WithAlpha(c.A * cov))
		}
		return a.Emit(p, ss, b)
	}
	if singlePassShape(a.Shape) {
		cs := a.Shape.Path().Flatten(tol)
		if len(cs) == 0 {
			return true
		}
		tris := fromTess(tess.ConvexFan(tessContours(cs[:1])[0]))
		if len(tris) == 0 {
			return true
		}
		return a.Emit(a.Paint, ss, NewConvexPathBatch(a.ViewMatrix, tris, false))
	}
	return stencilThenCover(a, *a.Shape, a.UseHWAA)
}

// stencilThenCover writes the winding of shape into the stencil buffer and
// covers it. A stencil-only draw (color writes disabled) stops after the
// stencil pass. It returns false if either pass was rejected.
func stencilThenCover(a *DrawPathArgs, shape Shape, hwaa bool) bool {
	rc := a.Context
	tol := flattenTolerance(a.ViewMatrix)
	ft := tess.NewFanTessellator()
	ft.Tessellate(tessContours(shape.Path().Flatten(tol)))
	tris := fromTess(ft.Vertices())
	fill := shape.fillType()

	fillStencil := &StencilNonZeroFill
	if fill.IsEvenOdd() {
		fillStencil = &StencilEvenOddFill
	}
	stencilPaint := a.Paint.WithBlend(BlendDisableColor)
	if len(tris) > 0 {
		if !rc.drawBatch(stencilPaint, hwaa, fillStencil, a.Clip, NewStencilPathBatch(a.ViewMatrix, tris, fill)) {
			return false
		}
	}
	if a.Paint.Blend() == BlendDisableColor {
		return true
	}
	if fill.IsInverse() {
		dev := a.Clip.ConservativeBounds(rc.rt.width, rc.rt.height).Rect()
		return rc.drawBatch(a.Paint, hwaa, &StencilInverseCover, a.Clip, NewCoverBatch(Identity(), dev, true))
	}
	if len(tris) == 0 {
		return true
	}
	return rc.drawBatch(a.Paint, hwaa, &StencilCover, a.Clip, NewCoverBatch(a.ViewMatrix, boundsOf(tris), false))
}
