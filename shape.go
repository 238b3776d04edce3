package gr

import (
	"math"

	"github.com/gogpu/gr/internal/stroke"
)

type shapeKind int

const (
	shapeEmpty shapeKind = iota
	shapeRRect
	shapePath
)

// ApplyMode selects how much of a style ApplyStyle resolves into geometry.
type ApplyMode int

const (
	// ApplyPathEffectOnly dashes the geometry but keeps the stroke.
	ApplyPathEffectOnly ApplyMode = iota
	// ApplyPathEffectAndStroke dashes and then converts strokes to fills.
	ApplyPathEffectAndStroke
)

// Shape pairs geometry with a Style. Rects, ovals and rounded rects are
// kept in their analytic form so renderers can take cheap paths for them.
// Shape is a value type; its path is never mutated after construction.
type Shape struct {
	kind    shapeKind
	rrect   RRect
	dir     Direction
	inverse bool
	path    *Path
	style   Style
}

// NewShapeFromPath builds a shape from a path. Paths that are exactly one
// rect, oval, or rounded rect are recognized.
func NewShapeFromPath(p *Path, style Style) Shape {
	s := Shape{style: style, inverse: p.IsInverseFill()}
	if p.IsEmpty() {
		if s.inverse {
			s.kind = shapePath
			s.path = p.Clone()
		}
		return s
	}
	if !s.inverse {
		if rr, dir, ok := p.IsRRect(); ok && !rr.IsEmpty() {
			return Shape{kind: shapeRRect, rrect: rr, dir: dir, style: style}
		}
		if r, dir, ok := p.IsRect(); ok {
			return Shape{kind: shapeRRect, rrect: RRectFromRect(r), dir: dir, style: style}
		}
	}
	s.kind = shapePath
	s.path = p.Clone()
	return s
}

// NewShapeFromRect builds a rect shape. A zero-area rect is kept as a
// degenerate path so strokes and hairlines still draw it.
func NewShapeFromRect(r Rect, style Style) Shape {
	r = r.Sorted()
	if r.IsEmpty() {
		if style.IsFill() || !r.IsFinite() {
			return Shape{style: style}
		}
		return NewShapeFromPath(PathFromRect(r, DirectionCW), style)
	}
	return Shape{kind: shapeRRect, rrect: RRectFromRect(r), style: style}
}

// NewShapeFromRRect builds a rounded rect shape.
func NewShapeFromRRect(rr RRect, style Style) Shape {
	if rr.IsEmpty() {
		return NewShapeFromRect(rr.Rect(), style)
	}
	return Shape{kind: shapeRRect, rrect: rr, style: style}
}

// NewShapeFromOval builds an oval shape.
func NewShapeFromOval(r Rect, style Style) Shape {
	return NewShapeFromRRect(RRectFromOval(r), style)
}

// Style returns the shape's style.
func (s Shape) Style() Style { return s.style }

// IsEmpty reports whether the shape covers nothing. An inverse-filled
// empty path is not empty: it covers everything.
func (s Shape) IsEmpty() bool {
	return s.kind == shapeEmpty
}

// IsInverseFilled reports whether the shape covers the outside of its
// geometry.
func (s Shape) IsInverseFilled() bool { return s.inverse }

// IsConvex reports whether the geometry is a single convex contour.
func (s Shape) IsConvex() bool {
	switch s.kind {
	case shapeRRect:
		return true
	case shapePath:
		return s.path.IsConvex()
	}
	return false
}

// AsRect returns the rect if the geometry is exactly an axis-aligned rect.
func (s Shape) AsRect() (Rect, bool) {
	if s.kind == shapeRRect && s.rrect.IsRect() {
		return s.rrect.Rect(), true
	}
	return Rect{}, false
}

// AsRRect returns the rounded rect (including rects and ovals).
func (s Shape) AsRRect() (RRect, Direction, bool) {
	if s.kind == shapeRRect {
		return s.rrect, s.dir, true
	}
	return RRect{}, 0, false
}

// AsOval returns the oval bounds if the geometry is exactly an ellipse.
func (s Shape) AsOval() (Rect, bool) {
	if s.kind == shapeRRect && s.rrect.IsOval() {
		return s.rrect.Rect(), true
	}
	if s.kind == shapePath && !s.inverse {
		if r, _, ok := s.path.IsOval(); ok {
			return r, true
		}
	}
	return Rect{}, false
}

// AsNestedRects reports whether the filled geometry is two nested rects
// that the nested-rect AA batch renders correctly under viewMatrix: not
// inverse filled, rects stay rects, opposite winding for a non-zero fill,
// and margins that are either all equal or all at least one unit.
func (s Shape) AsNestedRects(viewMatrix Matrix) ([2]Rect, bool) {
	var rects [2]Rect
	if s.kind != shapePath || s.inverse || !viewMatrix.RectStaysRect() {
		return rects, false
	}
	rects, dirs, ok := s.path.IsNestedFillRects()
	if !ok {
		return rects, false
	}
	if !s.path.FillType().IsEvenOdd() && dirs[0] == dirs[1] {
		return rects, false
	}
	outer := [4]float64{rects[0].Left, rects[0].Top, rects[0].Right, rects[0].Bottom}
	inner := [4]float64{rects[1].Left, rects[1].Top, rects[1].Right, rects[1].Bottom}
	margin := math.Abs(outer[0] - inner[0])
	allEq, allGE1 := true, margin >= 1
	for i := 1; i < 4; i++ {
		m := math.Abs(outer[i] - inner[i])
		if m < 1 {
			allGE1 = false
		}
		if math.Abs(margin-m) > 1.0/4096 {
			allEq = false
		}
	}
	return rects, allEq || allGE1
}

// Path returns the geometry as a path with the shape's fill type. The
// returned path is a fresh copy.
func (s Shape) Path() *Path {
	switch s.kind {
	case shapeRRect:
		p := PathFromRRect(s.rrect, s.dir)
		return p
	case shapePath:
		return s.path.Clone()
	}
	p := NewPath()
	if s.inverse {
		p.SetFillType(FillInverseWinding)
	}
	return p
}

// Bounds returns the bounds of the geometry, ignoring the style.
func (s Shape) Bounds() Rect {
	switch s.kind {
	case shapeRRect:
		return s.rrect.Rect()
	case shapePath:
		return s.path.Bounds()
	}
	return Rect{}
}

// StyledBounds returns the bounds including stroke inflation.
func (s Shape) StyledBounds() Rect {
	b := s.Bounds()
	r := s.style.Inflation()
	return b.Outset(r, r)
}

// ApplyStyle resolves the style into geometry. resScale is the view
// matrix scale, used to pick the flattening tolerance.
func (s Shape) ApplyStyle(mode ApplyMode, resScale float64) Shape {
	if s.kind == shapeEmpty {
		return s
	}
	if resScale <= 0 || math.IsNaN(resScale) || math.IsInf(resScale, 0) {
		resScale = 1
	}
	tol := DefaultFlattenTolerance / resScale
	out := s

	if d := s.style.Dash(); d != nil {
		contours := toStrokeContours(s.Path().Flatten(tol))
		dashed := stroke.Dash(contours, d.Intervals, d.Phase)
		out = Shape{style: s.style.WithoutPathEffect()}
		if len(dashed) == 0 {
			return out
		}
		p := pathFromStrokeContours(dashed)
		p.SetFillType(s.fillType())
		out = NewShapeFromPath(p, out.style)
	}
	if mode == ApplyPathEffectOnly || !out.style.IsStroke() {
		return out
	}

	ex := stroke.NewExpander(stroke.Stroke{
		Width:      out.style.Width(),
		Cap:        stroke.LineCap(out.style.Cap()),
		Join:       stroke.LineJoin(out.style.Join()),
		MiterLimit: out.style.MiterLimit(),
	})
	ex.SetTolerance(tol)
	polys := ex.Expand(toStrokeContours(out.Path().Flatten(tol)))
	if len(polys) == 0 {
		return Shape{style: SimpleFill()}
	}
	p := NewPath()
	for _, poly := range polys {
		p.MoveTo(poly[0].X, poly[0].Y)
		for _, pt := range poly[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		p.Close()
	}
	if out.inverse {
		p.SetFillType(FillInverseWinding)
	}
	return NewShapeFromPath(p, SimpleFill())
}

func (s Shape) fillType() FillType {
	if s.kind == shapePath {
		return s.path.FillType()
	}
	if s.inverse {
		return FillInverseWinding
	}
	return FillWinding
}

func toStrokeContours(cs []Contour) []stroke.Contour {
	out := make([]stroke.Contour, len(cs))
	for i, c := range cs {
		pts := make([]stroke.Point, len(c.Points))
		for j, p := range c.Points {
			pts[j] = stroke.Point{X: p.X, Y: p.Y}
		}
		out[i] = stroke.Contour{Points: pts, Closed: c.Closed}
	}
	return out
}

func pathFromStrokeContours(cs []stroke.Contour) *Path {
	p := NewPath()
	for _, c := range cs {
		if len(c.Points) == 0 {
			continue
		}
		p.MoveTo(c.Points[0].X, c.Points[0].Y)
		for _, pt := range c.Points[1:] {
			p.LineTo(pt.X, pt.Y)
		}
		if c.Closed {
			p.Close()
		}
	}
	return p
}

// styleScaleFactor returns the scale used to resolve styles under m.
func styleScaleFactor(m Matrix) float64 {
	_, maxScale := m.ScaleFactors()
	return maxScale
}

// AsLine returns the endpoints if the geometry is a single open line
// segment.
func (s Shape) AsLine() (a, b Point, ok bool) {
	if s.kind != shapePath || s.inverse {
		return a, b, false
	}
	els := s.path.Elements()
	if len(els) != 2 {
		return a, b, false
	}
	m, ok1 := els[0].(MoveTo)
	l, ok2 := els[1].(LineTo)
	if !ok1 || !ok2 {
		return a, b, false
	}
	return m.Point, l.Point, true
}

// deviceContours returns the flattened geometry mapped through m.
func (s Shape) deviceContours(m Matrix) []Contour {
	p := s.Path()
	if !m.IsIdentity() {
		p = p.Transform(m)
	}
	return p.Flatten(DefaultFlattenTolerance)
}

// flattenTolerance returns the local-space tolerance that keeps flattening
// error under DefaultFlattenTolerance device pixels.
func flattenTolerance(m Matrix) float64 {
	s := styleScaleFactor(m)
	if !(s > 0) || math.IsInf(s, 0) {
		return DefaultFlattenTolerance
	}
	return DefaultFlattenTolerance / s
}
