package gr

import "math"

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current contour.
type Close struct{}

func (Close) isPathElement() {}

// FillType selects how the interior of a path is computed.
type FillType int

const (
	FillWinding FillType = iota
	FillEvenOdd
	FillInverseWinding
	FillInverseEvenOdd
)

// IsInverse reports whether the fill covers the outside of the path.
func (f FillType) IsInverse() bool {
	return f == FillInverseWinding || f == FillInverseEvenOdd
}

// IsEvenOdd reports whether the fill uses the even-odd rule.
func (f FillType) IsEvenOdd() bool {
	return f == FillEvenOdd || f == FillInverseEvenOdd
}

// Inverted toggles the inverse bit.
func (f FillType) Inverted() FillType {
	switch f {
	case FillWinding:
		return FillInverseWinding
	case FillEvenOdd:
		return FillInverseEvenOdd
	case FillInverseWinding:
		return FillWinding
	default:
		return FillEvenOdd
	}
}

// Direction is the winding direction of a closed contour in y-down space.
type Direction int

const (
	DirectionCW Direction = iota
	DirectionCCW
)

// kappa is the cubic Bezier control point distance for circle approximation.
// Equal to 4/3 * (sqrt(2) - 1).
const kappa = 0.5522847498307936

type pathHintKind int

const (
	hintNone pathHintKind = iota
	hintRect
	hintOval
	hintRRect
)

// pathHint remembers that the path was built from exactly one primitive.
type pathHint struct {
	kind  pathHintKind
	rrect RRect
	dir   Direction
}

// Path represents a vector path with a fill rule.
type Path struct {
	elements []PathElement
	start    Point
	current  Point
	fillType FillType
	hint     pathHint
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo moves to a point without drawing.
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.hint = pathHint{}
}

// LineTo draws a line to a point.
func (p *Path) LineTo(x, y float64) {
	p.ensureContour()
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
	p.hint = pathHint{}
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.ensureContour()
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
	p.hint = pathHint{}
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.ensureContour()
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{Control1: Pt(c1x, c1y), Control2: Pt(c2x, c2y), Point: pt})
	p.current = pt
	p.hint = pathHint{}
}

// Close closes the current contour by drawing a line to its start point.
func (p *Path) Close() {
	if len(p.elements) == 0 {
		return
	}
	if _, ok := p.elements[len(p.elements)-1].(Close); ok {
		return
	}
	p.elements = append(p.elements, Close{})
	p.current = p.start
	p.hint = pathHint{}
}

// ensureContour injects a MoveTo when drawing starts after a Close or on an
// empty path.
func (p *Path) ensureContour() {
	if len(p.elements) == 0 {
		p.elements = append(p.elements, MoveTo{Point: p.current})
		p.start = p.current
		return
	}
	if _, ok := p.elements[len(p.elements)-1].(Close); ok {
		p.elements = append(p.elements, MoveTo{Point: p.start})
	}
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// FillType returns the fill rule.
func (p *Path) FillType() FillType { return p.fillType }

// SetFillType sets the fill rule.
func (p *Path) SetFillType(f FillType) { p.fillType = f }

// IsInverseFill reports whether the path fills its outside.
func (p *Path) IsInverseFill() bool { return p.fillType.IsInverse() }

// IsEmpty reports whether the path has no drawing elements. A path made
// of MoveTo elements only is empty.
func (p *Path) IsEmpty() bool {
	for _, e := range p.elements {
		if _, ok := e.(MoveTo); !ok {
			return false
		}
	}
	return true
}

// Bounds returns the bounds of all points including control points.
func (p *Path) Bounds() Rect {
	var pts []Point
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			pts = append(pts, e.Point)
		case LineTo:
			pts = append(pts, e.Point)
		case QuadTo:
			pts = append(pts, e.Control, e.Point)
		case CubicTo:
			pts = append(pts, e.Control1, e.Control2, e.Point)
		}
	}
	return boundsOf(pts)
}

// AddRect adds a closed rectangle contour.
func (p *Path) AddRect(r Rect, dir Direction) {
	wasEmpty := len(p.elements) == 0
	c := r.corners()
	p.MoveTo(c[0].X, c[0].Y)
	if dir == DirectionCW {
		p.LineTo(c[1].X, c[1].Y)
		p.LineTo(c[2].X, c[2].Y)
		p.LineTo(c[3].X, c[3].Y)
	} else {
		p.LineTo(c[3].X, c[3].Y)
		p.LineTo(c[2].X, c[2].Y)
		p.LineTo(c[1].X, c[1].Y)
	}
	p.Close()
	if wasEmpty {
		p.hint = pathHint{kind: hintRect, rrect: RRectFromRect(r), dir: dir}
	}
}

// AddOval adds a closed ellipse inscribed in r, starting at the rightmost point.
func (p *Path) AddOval(r Rect, dir Direction) {
	wasEmpty := len(p.elements) == 0
	r = r.Sorted()
	cx, cy := r.CenterX(), r.CenterY()
	rx, ry := r.Width()/2, r.Height()/2
	ox, oy := rx*kappa, ry*kappa

	p.MoveTo(cx+rx, cy)
	if dir == DirectionCW {
		p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
		p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
		p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
		p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	} else {
		p.CubicTo(cx+rx, cy-oy, cx+ox, cy-ry, cx, cy-ry)
		p.CubicTo(cx-ox, cy-ry, cx-rx, cy-oy, cx-rx, cy)
		p.CubicTo(cx-rx, cy+oy, cx-ox, cy+ry, cx, cy+ry)
		p.CubicTo(cx+ox, cy+ry, cx+rx, cy+oy, cx+rx, cy)
	}
	p.Close()
	if wasEmpty {
		p.hint = pathHint{kind: hintOval, rrect: RRectFromOval(r), dir: dir}
	}
}

// AddRRect adds a closed rounded rect contour.
func (p *Path) AddRRect(rr RRect, dir Direction) {
	switch rr.Type() {
	case RRectEmpty:
		return
	case RRectRect:
		p.AddRect(rr.Rect(), dir)
		return
	case RRectOval:
		p.AddOval(rr.Rect(), dir)
		return
	}
	wasEmpty := len(p.elements) == 0
	r := rr.Rect()
	ul, ur := rr.radii[CornerUpperLeft], rr.radii[CornerUpperRight]
	lr, ll := rr.radii[CornerLowerRight], rr.radii[CornerLowerLeft]

	// Clockwise outline: start after the upper-left corner.
	start := Pt(r.Left+ul.X, r.Top)
	segs := []PathElement{
		LineTo{Pt(r.Right-ur.X, r.Top)},
		cornerCubic(Pt(r.Right-ur.X, r.Top), Pt(r.Right, r.Top+ur.Y), Pt(r.Right, r.Top)),
		LineTo{Pt(r.Right, r.Bottom-lr.Y)},
		cornerCubic(Pt(r.Right, r.Bottom-lr.Y), Pt(r.Right-lr.X, r.Bottom), Pt(r.Right, r.Bottom)),
		LineTo{Pt(r.Left+ll.X, r.Bottom)},
		cornerCubic(Pt(r.Left+ll.X, r.Bottom), Pt(r.Left, r.Bottom-ll.Y), Pt(r.Left, r.Bottom)),
		LineTo{Pt(r.Left, r.Top+ul.Y)},
		cornerCubic(Pt(r.Left, r.Top+ul.Y), start, Pt(r.Left, r.Top)),
	}
	if dir == DirectionCCW {
		segs = reverseContour(start, segs)
	}
	p.MoveTo(start.X, start.Y)
	p.elements = append(p.elements, segs...)
	p.current = start
	p.Close()
	if wasEmpty {
		p.hint = pathHint{kind: hintRRect, rrect: rr, dir: dir}
	}
}

// cornerCubic approximates the quarter ellipse from a to b whose bounding
// corner is c.
func cornerCubic(a, b, c Point) CubicTo {
	return CubicTo{
		Control1: a.Lerp(c, kappa),
		Control2: b.Lerp(c, kappa),
		Point:    b,
	}
}

// reverseContour reverses the segments of a contour starting at start.
func reverseContour(start Point, segs []PathElement) []PathElement {
	ends := make([]Point, len(segs)+1)
	ends[0] = start
	for i, s := range segs {
		ends[i+1] = endPoint(s)
	}
	out := make([]PathElement, 0, len(segs))
	for i := len(segs) - 1; i >= 0; i-- {
		to := ends[i]
		switch s := segs[i].(type) {
		case LineTo:
			out = append(out, LineTo{to})
		case QuadTo:
			out = append(out, QuadTo{Control: s.Control, Point: to})
		case CubicTo:
			out = append(out, CubicTo{Control1: s.Control2, Control2: s.Control1, Point: to})
		}
	}
	return out
}

func endPoint(e PathElement) Point {
	switch e := e.(type) {
	case MoveTo:
		return e.Point
	case LineTo:
		return e.Point
	case QuadTo:
		return e.Point
	case CubicTo:
		return e.Point
	}
	return Point{}
}

// AddPath appends all contours of other.
func (p *Path) AddPath(other *Path) {
	for _, e := range other.elements {
		switch e := e.(type) {
		case MoveTo:
			p.MoveTo(e.Point.X, e.Point.Y)
		case LineTo:
			p.LineTo(e.Point.X, e.Point.Y)
		case QuadTo:
			p.QuadTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case CubicTo:
			p.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case Close:
			p.Close()
		}
	}
}

// Transform returns a new path with every point mapped through m.
func (p *Path) Transform(m Matrix) *Path {
	result := NewPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			pt := m.TransformPoint(e.Point)
			result.MoveTo(pt.X, pt.Y)
		case LineTo:
			pt := m.TransformPoint(e.Point)
			result.LineTo(pt.X, pt.Y)
		case QuadTo:
			ctrl := m.TransformPoint(e.Control)
			pt := m.TransformPoint(e.Point)
			result.QuadTo(ctrl.X, ctrl.Y, pt.X, pt.Y)
		case CubicTo:
			c1 := m.TransformPoint(e.Control1)
			c2 := m.TransformPoint(e.Control2)
			pt := m.TransformPoint(e.Point)
			result.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
		case Close:
			result.Close()
		}
	}
	result.fillType = p.fillType
	if p.hint.kind != hintNone && m.IsScaleTranslate() {
		if rr, ok := p.hint.rrect.Transform(m); ok {
			dir := p.hint.dir
			if (m.A < 0) != (m.E < 0) {
				dir = 1 - dir
			}
			result.hint = pathHint{kind: p.hint.kind, rrect: rr, dir: dir}
		}
	}
	return result
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.elements = make([]PathElement, len(p.elements))
	copy(result.elements, p.elements)
	result.start = p.start
	result.current = p.current
	result.fillType = p.fillType
	result.hint = p.hint
	return result
}

// PathFromRect returns a new closed rect path.
func PathFromRect(r Rect, dir Direction) *Path {
	p := NewPath()
	p.AddRect(r, dir)
	return p
}

// PathFromRRect returns a new closed rounded rect path.
func PathFromRRect(rr RRect, dir Direction) *Path {
	p := NewPath()
	p.AddRRect(rr, dir)
	return p
}

// PathFromOval returns a new closed ellipse path.
func PathFromOval(r Rect, dir Direction) *Path {
	p := NewPath()
	p.AddOval(r, dir)
	return p
}

// Contains reports whether p is inside the filled path according to its
// fill type. Curves are flattened with the default tolerance.
func (p *Path) Contains(pt Point) bool {
	w := 0
	for _, c := range p.Flatten(DefaultFlattenTolerance) {
		w += windingAt(c.Points, pt)
	}
	var in bool
	if p.fillType.IsEvenOdd() {
		in = w%2 != 0
	} else {
		in = w != 0
	}
	return in != p.fillType.IsInverse()
}

// windingAt returns the winding number of a closed polygon around pt.
func windingAt(poly []Point, pt Point) int {
	w := 0
	n := len(poly)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if a.Y <= pt.Y {
			if b.Y > pt.Y && b.Sub(a).Cross(pt.Sub(a)) > 0 {
				w++
			}
		} else if b.Y <= pt.Y && b.Sub(a).Cross(pt.Sub(a)) < 0 {
			w--
		}
	}
	return w
}

// signedArea returns twice the signed area; positive for clockwise
// contours in y-down coordinates.
func signedArea(poly []Point) float64 {
	var a float64
	n := len(poly)
	for i := 0; i < n; i++ {
		a += poly[i].Cross(poly[(i+1)%n])
	}
	return a
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
