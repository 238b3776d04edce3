package gr

import "math"

// Rect is an axis-aligned rectangle in floating point coordinates.
// Left/Top are inclusive, Right/Bottom exclusive. A rect whose Right <= Left
// or Bottom <= Top is empty.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectXYWH creates a rect from its origin and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// RectLTRB creates a rect from its edges.
func RectLTRB(l, t, r, b float64) Rect {
	return Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// RectWH creates a rect at the origin.
func RectWH(w, h float64) Rect {
	return Rect{Right: w, Bottom: h}
}

// Width returns Right - Left.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) * 0.5 }

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) * 0.5 }

// IsEmpty reports whether the rect encloses no area. NaN edges count as empty.
func (r Rect) IsEmpty() bool {
	return !(r.Left < r.Right && r.Top < r.Bottom)
}

// IsFinite reports whether all edges are finite.
func (r Rect) IsFinite() bool {
	for _, v := range [4]float64{r.Left, r.Top, r.Right, r.Bottom} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sorted returns the rect with Left <= Right and Top <= Bottom.
func (r Rect) Sorted() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

// Outset grows the rect by dx horizontally and dy vertically on each side.
func (r Rect) Outset(dx, dy float64) Rect {
	return Rect{Left: r.Left - dx, Top: r.Top - dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Inset shrinks the rect by dx and dy on each side.
func (r Rect) Inset(dx, dy float64) Rect {
	return r.Outset(-dx, -dy)
}

// Offset translates the rect.
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Intersect returns the overlap of r and o and whether it is non-empty.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	out := Rect{
		Left:   math.Max(r.Left, o.Left),
		Top:    math.Max(r.Top, o.Top),
		Right:  math.Min(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}, false
	}
	return out, true
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	_, ok := r.Intersect(o)
	return ok
}

// Join returns the smallest rect containing both. Empty rects are ignored.
func (r Rect) Join(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return !r.IsEmpty() && !o.IsEmpty() &&
		r.Left <= o.Left && r.Top <= o.Top && r.Right >= o.Right && r.Bottom >= o.Bottom
}

// ContainsPoint reports whether p lies inside r.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// RoundOut returns the smallest integer rect containing r.
func (r Rect) RoundOut() IRect {
	return IRect{
		Left:   int(math.Floor(r.Left)),
		Top:    int(math.Floor(r.Top)),
		Right:  int(math.Ceil(r.Right)),
		Bottom: int(math.Ceil(r.Bottom)),
	}
}

// corners returns the four corners clockwise starting at top-left.
func (r Rect) corners() [4]Point {
	return [4]Point{
		{r.Left, r.Top}, {r.Right, r.Top}, {r.Right, r.Bottom}, {r.Left, r.Bottom},
	}
}

// IRect is an integer rectangle, used for device-space bounds and scissors.
type IRect struct {
	Left, Top, Right, Bottom int
}

// IRectWH creates an integer rect at the origin.
func IRectWH(w, h int) IRect {
	return IRect{Right: w, Bottom: h}
}

// Width returns Right - Left.
func (r IRect) Width() int { return r.Right - r.Left }

// Height returns Bottom - Top.
func (r IRect) Height() int { return r.Bottom - r.Top }

// IsEmpty reports whether the rect encloses no pixels.
func (r IRect) IsEmpty() bool { return r.Left >= r.Right || r.Top >= r.Bottom }

// Rect converts to floating point.
func (r IRect) Rect() Rect {
	return Rect{
		Left: float64(r.Left), Top: float64(r.Top),
		Right: float64(r.Right), Bottom: float64(r.Bottom),
	}
}

// Intersect returns the overlap and whether it is non-empty.
func (r IRect) Intersect(o IRect) (IRect, bool) {
	out := IRect{
		Left:   max(r.Left, o.Left),
		Top:    max(r.Top, o.Top),
		Right:  min(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
	}
	if out.IsEmpty() {
		return IRect{}, false
	}
	return out, true
}

// Contains reports whether o lies entirely inside r.
func (r IRect) Contains(o IRect) bool {
	return !o.IsEmpty() && r.Left <= o.Left && r.Top <= o.Top && r.Right >= o.Right && r.Bottom >= o.Bottom
}
