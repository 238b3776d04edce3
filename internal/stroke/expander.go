package stroke

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Add returns p moved by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Lerp performs linear interpolation between two points.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l < 1e-12 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perp returns the vector rotated 90 degrees.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	LineJoinMiter LineJoin = iota
	LineJoinRound
	LineJoinBevel
)

// Stroke describes the stroke to expand.
type Stroke struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	MiterLimit float64
}

// Contour is a polyline; Closed contours connect the last point to the first.
type Contour struct {
	Points []Point
	Closed bool
}

// defaultTolerance is the maximum deviation of round joins and caps from
// a true arc, in the same units as the points.
const defaultTolerance = 0.25

// Expander expands contours into stroke polygons.
type Expander struct {
	style     Stroke
	tolerance float64
	out       [][]Point
}

// NewExpander creates an expander for style.
func NewExpander(style Stroke) *Expander {
	if style.MiterLimit <= 0 {
		style.MiterLimit = 4
	}
	return &Expander{style: style, tolerance: defaultTolerance}
}

// SetTolerance sets the arc approximation tolerance; non-positive values
// are ignored.
func (e *Expander) SetTolerance(tol float64) {
	if tol > 0 {
		e.tolerance = tol
	}
}

// Expand returns closed clockwise (y-down) polygons whose non-zero union
// is the stroke of contours.
func (e *Expander) Expand(contours []Contour) [][]Point {
	e.out = nil
	if e.style.Width <= 0 {
		return nil
	}
	for _, c := range contours {
		e.expandContour(c)
	}
	return e.out
}

func (e *Expander) expandContour(c Contour) {
	pts := dedupe(c.Points, c.Closed)
	hw := e.style.Width / 2
	if len(pts) == 1 {
		// Zero-length contour: only round and square caps draw anything.
		switch e.style.Cap {
		case LineCapRound:
			e.emit(e.circle(pts[0], hw))
		case LineCapSquare:
			p := pts[0]
			e.emit([]Point{{p.X - hw, p.Y - hw}, {p.X + hw, p.Y - hw}, {p.X + hw, p.Y + hw}, {p.X - hw, p.Y + hw}})
		}
		return
	}
	n := len(pts)
	segs := n - 1
	if c.Closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		nrm := b.Sub(a).Normalize().Perp().Scale(hw)
		e.emit([]Point{a.Add(nrm), b.Add(nrm), b.Add(nrm.Scale(-1)), a.Add(nrm.Scale(-1))})
	}

	// Joins at interior vertices, and at every vertex of a closed contour.
	first, last := 1, n-2
	if c.Closed {
		first, last = 0, n-1
	}
	for i := first; i <= last; i++ {
		prev, cur, next := pts[(i-1+n)%n], pts[i], pts[(i+1)%n]
		e.join(prev, cur, next, hw)
	}

	if !c.Closed {
		e.cap(pts[0], pts[0].Sub(pts[1]).Normalize(), hw)
		e.cap(pts[n-1], pts[n-1].Sub(pts[n-2]).Normalize(), hw)
	}
}

func (e *Expander) join(prev, cur, next Point, hw float64) {
	d0 := cur.Sub(prev).Normalize()
	d1 := next.Sub(cur).Normalize()
	cross := d0.Cross(d1)
	if math.Abs(cross) < 1e-12 && d0.Dot(d1) > 0 {
		return
	}
	if e.style.Join == LineJoinRound {
		e.emit(e.circle(cur, hw))
		return
	}
	// Outer side of the turn.
	side := 1.0
	if cross > 0 {
		side = -1
	}
	n0 := d0.Perp().Scale(hw * side)
	n1 := d1.Perp().Scale(hw * side)
	a, b := cur.Add(n0), cur.Add(n1)
	if e.style.Join == LineJoinMiter {
		cosHalf := math.Sqrt(math.Max(0, (1+d0.Dot(d1))/2))
		if cosHalf > 1e-12 && 1/cosHalf <= e.style.MiterLimit {
			bis := n0.Add(n1).Normalize().Scale(hw / cosHalf)
			e.emit([]Point{cur, a, cur.Add(bis), b})
			return
		}
	}
	e.emit([]Point{cur, a, b})
}

func (e *Expander) cap(p Point, outward Vec2, hw float64) {
	switch e.style.Cap {
	case LineCapRound:
		e.emit(e.circle(p, hw))
	case LineCapSquare:
		nrm := outward.Perp().Scale(hw)
		ext := outward.Scale(hw)
		e.emit([]Point{p.Add(nrm), p.Add(nrm).Add(ext), p.Add(nrm.Scale(-1)).Add(ext), p.Add(nrm.Scale(-1))})
	}
}

// circle approximates a circle with enough segments to stay within the
// tolerance.
func (e *Expander) circle(c Point, r float64) []Point {
	n := 8
	if r > e.tolerance {
		n = int(math.Ceil(math.Pi / math.Acos(1-e.tolerance/r)))
	}
	n = max(8, min(n, 256))
	pts := make([]Point, n)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = Point{c.X + r*co, c.Y + r*s}
	}
	return pts
}

// emit appends poly oriented clockwise in y-down space. Degenerate polygons
// are dropped.
func (e *Expander) emit(poly []Point) {
	area := signedArea(poly)
	if math.Abs(area) < 1e-12 {
		return
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	e.out = append(e.out, poly)
}

func signedArea(poly []Point) float64 {
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - p.Y*q.X
	}
	return a
}

// dedupe removes consecutive duplicate points, including a closing point
// equal to the first.
func dedupe(pts []Point, closed bool) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}
