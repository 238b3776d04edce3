package gr

import "math"

// newNestedRectsBatch fills the band between rects[0] (outer) and rects[1]
// (inner) with coverage AA. The matrix must keep rects rects.
func newNestedRectsBatch(m Matrix, rects [2]Rect) *NestedRectsBatch {
	if !m.RectStaysRect() {
		return nil
	}
	return &NestedRectsBatch{
		batchBase:  batchBase{kind: BatchAAFillNestedRects, bounds: m.MapRect(rects[0]).Outset(0.5, 0.5)},
		ViewMatrix: m,
		Outer:      rects[0],
		Inner:      rects[1],
	}
}

// newOvalBatch returns an analytic oval batch, or nil when the oval, style
// and matrix combination has no analytic form. Circles need a similarity
// matrix; ellipses need a matrix that keeps rects rects.
func newOvalBatch(m Matrix, oval Rect, st Style) *OvalBatch {
	if st.HasPathEffect() || !oval.IsFinite() || oval.IsEmpty() {
		return nil
	}
	circle := m.IsSimilarity() && nearlyEqual(oval.Width(), oval.Height())
	if !circle {
		if !m.RectStaysRect() {
			return nil
		}
		dev := m.MapRect(oval)
		if !ellipseStrokeOK(dev.Width()/2, dev.Height()/2, st, m) {
			return nil
		}
	}
	return &OvalBatch{
		batchBase:  batchBase{kind: BatchOval, bounds: analyticBounds(m, oval, st)},
		ViewMatrix: m,
		Oval:       oval,
		Style:      st,
		Circle:     circle,
	}
}

// newRRectBatch returns an analytic rounded rect batch for simple rounded
// rects under rect-preserving matrices, or nil. Oval-typed rounded rects are
// routed to the oval batch.
func newRRectBatch(m Matrix, rr RRect, st Style) Batch {
	if rr.IsOval() {
		if b := newOvalBatch(m, rr.Rect(), st); b != nil {
			return b
		}
		return nil
	}
	if st.HasPathEffect() || !m.RectStaysRect() || !rr.IsSimple() {
		return nil
	}
	dev, ok := rr.Transform(m)
	if !ok {
		return nil
	}
	rad := dev.Radii(0)
	if st.IsStroke() {
		if !ellipseStrokeOK(rad.X, rad.Y, st, m) {
			return nil
		}
		_, scale := m.ScaleFactors()
		if st.Width()*scale/2 > math.Min(rad.X, rad.Y) {
			return nil
		}
	}
	return &RRectBatch{
		batchBase:  batchBase{kind: BatchRRect, bounds: analyticBounds(m, rr.Rect(), st)},
		ViewMatrix: m,
		RRect:      rr,
		Style:      st,
	}
}

// ellipseStrokeOK rejects strokes the analytic ellipse shader cannot draw:
// thick strokes on strongly eccentric ellipses and strokes whose curvature
// is less than the ellipse's own.
func ellipseStrokeOK(rx, ry float64, st Style, m Matrix) bool {
	if !st.IsStroke() {
		return true
	}
	_, scale := m.ScaleFactors()
	sw := st.Width() * scale / 2
	if sw > 0.5 && (0.5*rx > ry || 0.5*ry > rx) {
		return false
	}
	if sw*ry*ry < sw*sw*rx || sw*rx*rx < sw*sw*ry {
		return false
	}
	return true
}

// analyticBounds is the device bounds of the styled geometry plus half a
// pixel of AA ramp.
func analyticBounds(m Matrix, r Rect, st Style) Rect {
	in := st.Inflation()
	return m.MapRect(r.Outset(in, in)).Outset(0.5, 0.5)
}
