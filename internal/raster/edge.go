package raster

import "sort"

// Point is a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// edge is a non-horizontal line segment with y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int // +1 if the original segment went down, -1 if up
}

func newEdge(p0, p1 Point) edge {
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	return edge{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y, dir: dir}
}

// xAt returns the x coordinate of the edge at y.
func (e *edge) xAt(y float64) float64 {
	t := (y - e.y0) / (e.y1 - e.y0)
	return e.x0 + (e.x1-e.x0)*t
}

// buildEdges closes every contour and drops horizontal segments.
func buildEdges(contours [][]Point) []edge {
	var edges []edge
	for _, c := range contours {
		n := len(c)
		if n < 2 {
			continue
		}
		for i := range n {
			p0, p1 := c[i], c[(i+1)%n]
			if p0.Y == p1.Y {
				continue
			}
			edges = append(edges, newEdge(p0, p1))
		}
	}
	return edges
}

type crossing struct {
	x   float64
	dir int
}

// crossings returns the x-sorted crossings of the edges with the
// horizontal line at y. Edges are half-open in y so shared vertices count
// once.
func crossings(dst []crossing, edges []edge, y float64) []crossing {
	dst = dst[:0]
	for i := range edges {
		e := &edges[i]
		if y >= e.y0 && y < e.y1 {
			dst = append(dst, crossing{x: e.xAt(y), dir: e.dir})
		}
	}
	sort.Slice(dst, func(i, j int) bool { return dst[i].x < dst[j].x })
	return dst
}
