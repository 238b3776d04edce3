package tess

import "math"

// HairlineQuads returns two triangles per segment forming a quad one unit
// wide centered on the segment. Input and output are in device space.
// Closed contours include the closing segment.
func HairlineQuads(contours [][]Point, closed []bool) []Point {
	var out []Point
	for ci, c := range contours {
		n := len(c)
		if n == 0 {
			continue
		}
		if n == 1 {
			out = appendSegment(out, c[0], c[0])
			continue
		}
		for i := 0; i+1 < n; i++ {
			out = appendSegment(out, c[i], c[i+1])
		}
		if ci < len(closed) && closed[ci] && c[0] != c[n-1] {
			out = appendSegment(out, c[n-1], c[0])
		}
	}
	return out
}

// appendSegment extends the segment by half a pixel at each end so that
// joins and endpoints are covered. A zero-length segment becomes a
// one-pixel square.
func appendSegment(dst []Point, a, b Point) []Point {
	const hw = 0.5
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	ux, uy := 1.0, 0.0
	if l > 0 {
		ux, uy = dx/l, dy/l
	}
	nx, ny := -uy*hw, ux*hw
	ex, ey := ux*hw, uy*hw
	p0 := Point{a.X - ex + nx, a.Y - ey + ny}
	p1 := Point{b.X + ex + nx, b.Y + ey + ny}
	p2 := Point{b.X + ex - nx, b.Y + ey - ny}
	p3 := Point{a.X - ex - nx, a.Y - ey - ny}
	return append(dst, p0, p1, p2, p0, p2, p3)
}
