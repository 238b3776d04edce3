package gr

import "math"

// shapeDetectTolerance is the maximum allowed error for shape detection.
const shapeDetectTolerance = 1e-3

// IsRect reports whether the path is a single closed axis-aligned rectangle
// and returns it with its winding direction.
func (p *Path) IsRect() (Rect, Direction, bool) {
	if p.hint.kind == hintRect {
		return p.hint.rrect.Rect(), p.hint.dir, true
	}
	contours := splitContours(p.elements)
	if len(contours) != 1 {
		return Rect{}, 0, false
	}
	return contourRect(contours[0])
}

// IsOval reports whether the path is exactly one ellipse.
func (p *Path) IsOval() (Rect, Direction, bool) {
	if p.hint.kind == hintOval {
		return p.hint.rrect.Rect(), p.hint.dir, true
	}
	contours := splitContours(p.elements)
	if len(contours) != 1 {
		return Rect{}, 0, false
	}
	return contourOval(contours[0])
}

// IsRRect reports whether the path was built from exactly one rounded rect.
func (p *Path) IsRRect() (RRect, Direction, bool) {
	switch p.hint.kind {
	case hintRRect, hintRect, hintOval:
		return p.hint.rrect, p.hint.dir, true
	}
	return RRect{}, 0, false
}

// IsNestedFillRects reports whether the path consists of two closed
// axis-aligned rectangles where the first contains the second. The outer
// rect is returned first.
func (p *Path) IsNestedFillRects() ([2]Rect, [2]Direction, bool) {
	var rects [2]Rect
	var dirs [2]Direction
	contours := splitContours(p.elements)
	if len(contours) != 2 {
		return rects, dirs, false
	}
	for i, c := range contours {
		r, d, ok := contourRect(c)
		if !ok {
			return rects, dirs, false
		}
		rects[i], dirs[i] = r, d
	}
	if !rects[0].ContainsRect(rects[1]) {
		if !rects[1].ContainsRect(rects[0]) {
			return rects, dirs, false
		}
		rects[0], rects[1] = rects[1], rects[0]
		dirs[0], dirs[1] = dirs[1], dirs[0]
	}
	return rects, dirs, true
}

// splitContours splits elements at each MoveTo. Empty contours are dropped.
func splitContours(elems []PathElement) [][]PathElement {
	var out [][]PathElement
	start := -1
	for i, e := range elems {
		if _, ok := e.(MoveTo); ok {
			if start >= 0 && i-start > 1 {
				out = append(out, elems[start:i])
			}
			start = i
		}
	}
	if start >= 0 && len(elems)-start > 1 {
		out = append(out, elems[start:])
	}
	return out
}

// contourRect checks for MoveTo, three or four LineTo (the fourth returning
// to the start), and a Close.
func contourRect(elems []PathElement) (Rect, Direction, bool) {
	move, ok := elems[0].(MoveTo)
	if !ok || len(elems) < 5 || len(elems) > 6 {
		return Rect{}, 0, false
	}
	if _, ok := elems[len(elems)-1].(Close); !ok {
		return Rect{}, 0, false
	}
	corners := []Point{move.Point}
	for _, e := range elems[1 : len(elems)-1] {
		l, ok := e.(LineTo)
		if !ok {
			return Rect{}, 0, false
		}
		corners = append(corners, l.Point)
	}
	if len(corners) == 5 {
		if corners[4].Sub(corners[0]).Length() > shapeDetectTolerance {
			return Rect{}, 0, false
		}
		corners = corners[:4]
	}

	// Each edge must be horizontal or vertical, and edges must alternate.
	horizontal := make([]bool, 4)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		dx := math.Abs(corners[i].X - corners[j].X)
		dy := math.Abs(corners[i].Y - corners[j].Y)
		switch {
		case dy <= shapeDetectTolerance && dx > shapeDetectTolerance:
			horizontal[i] = true
		case dx <= shapeDetectTolerance && dy > shapeDetectTolerance:
		default:
			return Rect{}, 0, false
		}
		if i > 0 && horizontal[i] == horizontal[i-1] {
			return Rect{}, 0, false
		}
	}

	r := boundsOf(corners)
	dir := DirectionCW
	if signedArea(corners) < 0 {
		dir = DirectionCCW
	}
	return r, dir, true
}

// contourOval recognizes the four-cubic ellipse emitted by AddOval.
func contourOval(elems []PathElement) (Rect, Direction, bool) {
	if len(elems) != 6 {
		return Rect{}, 0, false
	}
	move, ok := elems[0].(MoveTo)
	if !ok {
		return Rect{}, 0, false
	}
	if _, ok := elems[5].(Close); !ok {
		return Rect{}, 0, false
	}
	pts := []Point{move.Point}
	cubics := make([]CubicTo, 4)
	for i := 0; i < 4; i++ {
		c, ok := elems[i+1].(CubicTo)
		if !ok {
			return Rect{}, 0, false
		}
		cubics[i] = c
		pts = append(pts, c.Point)
	}
	if pts[4].Sub(pts[0]).Length() > shapeDetectTolerance {
		return Rect{}, 0, false
	}
	r := boundsOf(pts[:4])
	if r.IsEmpty() {
		return Rect{}, 0, false
	}
	cx, cy := r.CenterX(), r.CenterY()

	// Every segment must run between two adjacent extreme points with
	// control points at kappa along the tangents.
	for i, c := range cubics {
		a, b := pts[i], pts[i+1]
		corner := Point{b.X, a.Y}
		if math.Abs(a.Y-cy) <= shapeDetectTolerance {
			corner = Point{a.X, b.Y}
		}
		want1 := a.Lerp(corner, kappa)
		want2 := b.Lerp(corner, kappa)
		if c.Control1.Sub(want1).Length() > shapeDetectTolerance*math.Max(1, r.Width()) ||
			c.Control2.Sub(want2).Length() > shapeDetectTolerance*math.Max(1, r.Width()) {
			return Rect{}, 0, false
		}
		onAxisA := math.Abs(a.X-cx) <= shapeDetectTolerance || math.Abs(a.Y-cy) <= shapeDetectTolerance
		if !onAxisA {
			return Rect{}, 0, false
		}
	}
	dir := DirectionCW
	if signedArea(pts[:4]) < 0 {
		dir = DirectionCCW
	}
	return r, dir, true
}
