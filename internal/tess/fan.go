// Package tess turns flattened contours into triangles for the GPU path
// renderers.
package tess

import "math"

// Point is a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// coverPadding is added around the bounds of the cover quad so AA edges at
// the path boundary are fully covered.
const coverPadding = 1.0

// FanTessellator converts contours into triangle fans for stencil fill.
//
// For each contour the first vertex is the fan center and every edge
// (vi, vi+1) yields the triangle (v0, vi, vi+1). This is correct for any
// topology, including self-intersecting contours and holes, because the
// stencil pass resolves the winding.
//
// The tessellator is reusable via Reset.
type FanTessellator struct {
	vertices  []Point
	min, max  Point
	hasBounds bool
}

// NewFanTessellator creates a tessellator.
func NewFanTessellator() *FanTessellator {
	return &FanTessellator{vertices: make([]Point, 0, 96)}
}

// Reset clears the state without releasing memory.
func (ft *FanTessellator) Reset() {
	ft.vertices = ft.vertices[:0]
	ft.min, ft.max = Point{}, Point{}
	ft.hasBounds = false
}

// Tessellate appends the fans of closed contours and returns the number of
// vertices emitted so far.
func (ft *FanTessellator) Tessellate(contours [][]Point) int {
	for _, c := range contours {
		if len(c) < 3 {
			for _, p := range c {
				ft.updateBounds(p)
			}
			continue
		}
		v0 := c[0]
		ft.updateBounds(v0)
		for i := 1; i < len(c); i++ {
			ft.updateBounds(c[i])
			if i+1 < len(c) {
				ft.emit(v0, c[i], c[i+1])
			}
		}
	}
	return len(ft.vertices)
}

// Vertices returns three points per triangle.
func (ft *FanTessellator) Vertices() []Point { return ft.vertices }

// TriangleCount returns the number of triangles emitted.
func (ft *FanTessellator) TriangleCount() int { return len(ft.vertices) / 3 }

// Bounds returns the bounding box of every contour point seen.
func (ft *FanTessellator) Bounds() (minPt, maxPt Point, ok bool) {
	return ft.min, ft.max, ft.hasBounds
}

// CoverQuad returns two triangles covering the bounds plus padding.
func (ft *FanTessellator) CoverQuad() [6]Point {
	x0, y0 := ft.min.X-coverPadding, ft.min.Y-coverPadding
	x1, y1 := ft.max.X+coverPadding, ft.max.Y+coverPadding
	return [6]Point{
		{x0, y0}, {x1, y0}, {x1, y1},
		{x0, y0}, {x1, y1}, {x0, y1},
	}
}

// emit appends a triangle, skipping zero-area ones.
func (ft *FanTessellator) emit(a, b, c Point) {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if cross == 0 {
		return
	}
	ft.vertices = append(ft.vertices, a, b, c)
}

func (ft *FanTessellator) updateBounds(p Point) {
	if !ft.hasBounds {
		ft.min, ft.max = p, p
		ft.hasBounds = true
		return
	}
	ft.min.X = math.Min(ft.min.X, p.X)
	ft.min.Y = math.Min(ft.min.Y, p.Y)
	ft.max.X = math.Max(ft.max.X, p.X)
	ft.max.Y = math.Max(ft.max.Y, p.Y)
}

// ConvexFan triangulates a single convex polygon. The result is suitable
// for direct coloring without a stencil pass.
func ConvexFan(poly []Point) []Point {
	ft := NewFanTessellator()
	ft.Tessellate([][]Point{poly})
	return ft.Vertices()
}
