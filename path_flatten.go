package gr

import "math"

// DefaultFlattenTolerance is the maximum deviation, in pixels, between a
// curve and its polyline approximation.
const DefaultFlattenTolerance = 0.25

// maxFlattenSegments bounds the subdivision of a single curve.
const maxFlattenSegments = 256

// Contour is a flattened sub-path.
type Contour struct {
	Points []Point
	Closed bool
}

// Flatten converts the path into polylines, one per contour. Contours with
// fewer than two points are dropped.
func (p *Path) Flatten(tolerance float64) []Contour {
	if tolerance <= 0 {
		tolerance = DefaultFlattenTolerance
	}
	var (
		out []Contour
		cur Contour
		pen Point
	)
	flush := func() {
		if len(cur.Points) > 1 {
			out = append(out, cur)
		}
		cur = Contour{}
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			cur.Points = append(cur.Points, e.Point)
			pen = e.Point
		case LineTo:
			cur.Points = append(cur.Points, e.Point)
			pen = e.Point
		case QuadTo:
			cur.Points = flattenQuad(cur.Points, pen, e.Control, e.Point, tolerance)
			pen = e.Point
		case CubicTo:
			cur.Points = flattenCubic(cur.Points, pen, e.Control1, e.Control2, e.Point, tolerance)
			pen = e.Point
		case Close:
			if n := len(cur.Points); n > 1 && cur.Points[n-1] == cur.Points[0] {
				cur.Points = cur.Points[:n-1]
			}
			cur.Closed = true
			start := Point{}
			if len(cur.Points) > 0 {
				start = cur.Points[0]
			}
			flush()
			pen = start
		}
	}
	flush()
	return out
}

func flattenQuad(dst []Point, p0, p1, p2 Point, tol float64) []Point {
	dd := p0.Sub(p1.Mul(2)).Add(p2).Length()
	n := segmentCount(math.Sqrt(0.25 * dd / tol))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		dst = append(dst, Point{
			X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
			Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
		})
	}
	return dst
}

func flattenCubic(dst []Point, p0, p1, p2, p3 Point, tol float64) []Point {
	d1 := p0.Sub(p1.Mul(2)).Add(p2).Length()
	d2 := p1.Sub(p2.Mul(2)).Add(p3).Length()
	n := segmentCount(math.Sqrt(0.75 * math.Max(d1, d2) / tol))
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		a, b, c, d := mt*mt*mt, 3*mt*mt*t, 3*mt*t*t, t*t*t
		dst = append(dst, Point{
			X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
			Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
		})
	}
	return dst
}

func segmentCount(v float64) int {
	if math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > maxFlattenSegments {
		return maxFlattenSegments
	}
	return int(math.Ceil(v))
}
