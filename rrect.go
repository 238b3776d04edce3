package gr

import "math"

// Corner indexes into RRect.Radii.
const (
	CornerUpperLeft = iota
	CornerUpperRight
	CornerLowerRight
	CornerLowerLeft
)

// RRectType classifies a rounded rect.
type RRectType int

const (
	RRectEmpty RRectType = iota
	RRectRect
	RRectOval
	RRectSimple // all corners share the same radii
	RRectComplex
)

// RRect is a rectangle with elliptical corners. Radii are stored per corner
// as (x, y) pairs and are always normalized so adjacent radii fit the side.
type RRect struct {
	rect  Rect
	radii [4]Point
}

// RRectFromRect creates a rounded rect with square corners.
func RRectFromRect(r Rect) RRect {
	return RRect{rect: r.Sorted()}
}

// RRectFromOval creates the rounded rect that exactly covers the oval
// inscribed in r.
func RRectFromOval(r Rect) RRect {
	r = r.Sorted()
	rx, ry := r.Width()/2, r.Height()/2
	return RRectFromRectXY(r, rx, ry)
}

// RRectFromRectXY creates a rounded rect with the same radii at every corner.
func RRectFromRectXY(r Rect, rx, ry float64) RRect {
	p := Point{rx, ry}
	return RRectFromRectRadii(r, [4]Point{p, p, p, p})
}

// RRectFromRectRadii creates a rounded rect with per-corner radii. Negative
// radii are clamped to zero; radii that overflow a side are scaled down
// uniformly.
func RRectFromRectRadii(r Rect, radii [4]Point) RRect {
	rr := RRect{rect: r.Sorted()}
	if rr.rect.IsEmpty() || !rr.rect.IsFinite() {
		return rr
	}
	for i := range radii {
		if radii[i].X <= 0 || radii[i].Y <= 0 || !radii[i].isFinite() {
			radii[i] = Point{}
		}
	}
	w, h := rr.rect.Width(), rr.rect.Height()
	scale := 1.0
	scale = clampScale(scale, radii[CornerUpperLeft].X+radii[CornerUpperRight].X, w)
	scale = clampScale(scale, radii[CornerUpperRight].Y+radii[CornerLowerRight].Y, h)
	scale = clampScale(scale, radii[CornerLowerRight].X+radii[CornerLowerLeft].X, w)
	scale = clampScale(scale, radii[CornerLowerLeft].Y+radii[CornerUpperLeft].Y, h)
	if scale < 1 {
		for i := range radii {
			radii[i] = radii[i].Mul(scale)
		}
	}
	rr.radii = radii
	return rr
}

func clampScale(scale, sum, limit float64) float64 {
	if sum > limit && sum > 0 {
		return math.Min(scale, limit/sum)
	}
	return scale
}

// Rect returns the bounds of the rounded rect.
func (rr RRect) Rect() Rect { return rr.rect }

// Radii returns the radii of corner i.
func (rr RRect) Radii(i int) Point { return rr.radii[i] }

// Type classifies the rounded rect.
func (rr RRect) Type() RRectType {
	switch {
	case rr.rect.IsEmpty():
		return RRectEmpty
	case rr.radii == [4]Point{}:
		return RRectRect
	}
	r0 := rr.radii[0]
	if rr.radii[1] != r0 || rr.radii[2] != r0 || rr.radii[3] != r0 {
		return RRectComplex
	}
	const eps = 1e-9
	if math.Abs(r0.X-rr.rect.Width()/2) < eps && math.Abs(r0.Y-rr.rect.Height()/2) < eps {
		return RRectOval
	}
	return RRectSimple
}

// IsEmpty reports whether the rounded rect has no area.
func (rr RRect) IsEmpty() bool { return rr.Type() == RRectEmpty }

// IsRect reports whether every corner is square.
func (rr RRect) IsRect() bool { return rr.Type() == RRectRect }

// IsOval reports whether the rounded rect is an ellipse.
func (rr RRect) IsOval() bool { return rr.Type() == RRectOval }

// IsSimple reports whether all corners share the same non-zero radii.
func (rr RRect) IsSimple() bool { return rr.Type() == RRectSimple }

// Outset grows the rect by d on each side and the radii by d.
func (rr RRect) Outset(dx, dy float64) RRect {
	radii := rr.radii
	for i := range radii {
		if radii[i] != (Point{}) {
			radii[i] = Point{math.Max(0, radii[i].X+dx), math.Max(0, radii[i].Y+dy)}
		}
	}
	return RRectFromRectRadii(rr.rect.Outset(dx, dy), radii)
}

// Inset shrinks the rounded rect by d on each side.
func (rr RRect) Inset(dx, dy float64) RRect {
	return rr.Outset(-dx, -dy)
}

// Contains reports whether p lies inside the rounded rect.
func (rr RRect) Contains(p Point) bool {
	r := rr.rect
	if !r.ContainsPoint(p) {
		return false
	}
	var cx, cy float64
	var rad Point
	switch {
	case p.X < r.Left+rr.radii[CornerUpperLeft].X && p.Y < r.Top+rr.radii[CornerUpperLeft].Y:
		rad = rr.radii[CornerUpperLeft]
		cx, cy = r.Left+rad.X, r.Top+rad.Y
	case p.X > r.Right-rr.radii[CornerUpperRight].X && p.Y < r.Top+rr.radii[CornerUpperRight].Y:
		rad = rr.radii[CornerUpperRight]
		cx, cy = r.Right-rad.X, r.Top+rad.Y
	case p.X > r.Right-rr.radii[CornerLowerRight].X && p.Y > r.Bottom-rr.radii[CornerLowerRight].Y:
		rad = rr.radii[CornerLowerRight]
		cx, cy = r.Right-rad.X, r.Bottom-rad.Y
	case p.X < r.Left+rr.radii[CornerLowerLeft].X && p.Y > r.Bottom-rr.radii[CornerLowerLeft].Y:
		rad = rr.radii[CornerLowerLeft]
		cx, cy = r.Left+rad.X, r.Bottom-rad.Y
	default:
		return true
	}
	dx := (p.X - cx) / rad.X
	dy := (p.Y - cy) / rad.Y
	return dx*dx+dy*dy <= 1
}

// Transform maps the rounded rect through m. Only scale/translate matrices
// with non-zero scale keep a rounded rect a rounded rect; ok is false
// otherwise.
func (rr RRect) Transform(m Matrix) (RRect, bool) {
	if !m.IsScaleTranslate() || m.A == 0 || m.E == 0 {
		return RRect{}, false
	}
	dst := m.MapRect(rr.rect)
	if dst.IsEmpty() || !dst.IsFinite() {
		return RRect{}, false
	}
	sx, sy := math.Abs(m.A), math.Abs(m.E)
	var radii [4]Point
	for i, r := range rr.radii {
		radii[i] = Point{r.X * sx, r.Y * sy}
	}
	// A mirrored axis swaps the corners along that axis.
	if m.A < 0 {
		radii[0], radii[1] = radii[1], radii[0]
		radii[2], radii[3] = radii[3], radii[2]
	}
	if m.E < 0 {
		radii[0], radii[3] = radii[3], radii[0]
		radii[1], radii[2] = radii[2], radii[1]
	}
	return RRectFromRectRadii(dst, radii), true
}
