package wgpu

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr"
)

// vertex is one device-space vertex of the solid program.
type vertex struct {
	pos   gr.Point
	color gputypes.Color
}

// mesh accumulates device-space triangles in one color.
type mesh struct {
	color gputypes.Color
	verts []vertex
}

func (m *mesh) tri(a, b, c gr.Point) {
	m.verts = append(m.verts, vertex{a, m.color}, vertex{b, m.color}, vertex{c, m.color})
}

func (m *mesh) quad(q [4]gr.Point) {
	m.tri(q[0], q[1], q[2])
	m.tri(q[0], q[2], q[3])
}

// fan triangulates a convex polygon from its first point.
func (m *mesh) fan(poly []gr.Point) {
	for i := 1; i+1 < len(poly); i++ {
		m.tri(poly[0], poly[i], poly[i+1])
	}
}

// ring joins two closed polylines with the same number of points.
func (m *mesh) ring(outer, inner []gr.Point) {
	n := len(outer)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.quad([4]gr.Point{outer[i], outer[j], inner[j], inner[i]})
	}
}

func (m *mesh) mapped(mat gr.Matrix, pts []gr.Point) {
	for _, p := range pts {
		m.verts = append(m.verts, vertex{mat.TransformPoint(p), m.color})
	}
}

// frame fills the region between outer and inner, or all of outer when
// inner is empty.
func (m *mesh) frame(mat gr.Matrix, outer, inner gr.Rect) {
	if inner.IsEmpty() {
		m.quad(mat.MapRectToQuad(outer))
		return
	}
	bands := [4]gr.Rect{
		{Left: outer.Left, Top: outer.Top, Right: outer.Right, Bottom: inner.Top},
		{Left: outer.Left, Top: inner.Bottom, Right: outer.Right, Bottom: outer.Bottom},
		{Left: outer.Left, Top: inner.Top, Right: inner.Left, Bottom: inner.Bottom},
		{Left: inner.Right, Top: inner.Top, Right: outer.Right, Bottom: inner.Bottom},
	}
	for _, r := range bands {
		if !r.IsEmpty() {
			m.quad(mat.MapRectToQuad(r))
		}
	}
}

// segment covers a to b with a quad hw on each side, extended by ext past
// both ends.
func (m *mesh) segment(a, b gr.Point, hw, ext float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	ux, uy := 1.0, 0.0
	if l := math.Hypot(dx, dy); l > 0 {
		ux, uy = dx/l, dy/l
	}
	nx, ny := -uy*hw, ux*hw
	a = gr.Point{X: a.X - ux*ext, Y: a.Y - uy*ext}
	b = gr.Point{X: b.X + ux*ext, Y: b.Y + uy*ext}
	m.quad([4]gr.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	})
}

// tessellate appends the device-space triangles of b to m. It reports
// false for batches the solid program cannot draw.
func tessellate(m *mesh, b gr.Batch) bool {
	switch b := b.(type) {
	case *gr.FillRectBatch:
		m.quad(b.ViewMatrix.MapRectToQuad(b.Rect))
	case *gr.StrokeRectBatch:
		if b.Width == 0 {
			q := b.ViewMatrix.MapRectToQuad(b.Rect)
			for i := range q {
				m.segment(q[i], q[(i+1)%4], 0.5, 0.5)
			}
			return true
		}
		hw := b.Width / 2
		m.frame(b.ViewMatrix, b.Rect.Outset(hw, hw), b.Rect.Inset(hw, hw))
	case *gr.NestedRectsBatch:
		m.frame(b.ViewMatrix, b.Outer, b.Inner)
	case *gr.ConvexPathBatch:
		m.mapped(b.ViewMatrix, b.Triangles)
	case *gr.StencilPathBatch:
		m.mapped(b.ViewMatrix, b.Triangles)
	case *gr.CoverBatch:
		m.quad(b.ViewMatrix.MapRectToQuad(b.Rect))
	case *gr.HairlineBatch:
		if b.Coverage > 0 && b.Coverage < 1 {
			m.color.A *= b.Coverage
		}
		m.mapped(gr.Identity(), b.Quads)
	case *gr.DashLineBatch:
		dashLine(m, b)
	case *gr.VerticesBatch:
		return vertices(m, b)
	case *gr.OvalBatch:
		oval(m, b.ViewMatrix, b.Oval, b.Style)
	case *gr.RRectBatch:
		if !b.Style.IsFill() {
			return false
		}
		rrectFill(m, b.ViewMatrix, b.RRect)
	case *gr.InstancedBatch:
		switch b.Shape {
		case gr.InstancedRect:
			m.quad(b.ViewMatrix.MapRectToQuad(b.Rect))
		case gr.InstancedOval:
			oval(m, b.ViewMatrix, b.Rect, gr.SimpleFill())
		case gr.InstancedRRect:
			rrectFill(m, b.ViewMatrix, b.RRect)
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func dashLine(m *mesh, b *gr.DashLineBatch) {
	if b.Width == 0 {
		for _, s := range b.Segments {
			m.segment(b.ViewMatrix.TransformPoint(s[0]), b.ViewMatrix.TransformPoint(s[1]), 0.5, 0.5)
		}
		return
	}
	hw := b.Width / 2
	ext := 0.0
	if b.Cap != gr.CapButt {
		ext = hw
	}
	local := mesh{color: m.color}
	for _, s := range b.Segments {
		local.segment(s[0], s[1], hw, ext)
	}
	for _, v := range local.verts {
		m.verts = append(m.verts, vertex{b.ViewMatrix.TransformPoint(v.pos), v.color})
	}
}

func vertices(m *mesh, b *gr.VerticesBatch) bool {
	idx := make([]int, 0, len(b.Positions))
	if b.Indices != nil {
		for _, i := range b.Indices {
			idx = append(idx, int(i))
		}
	} else {
		for i := range b.Positions {
			idx = append(idx, i)
		}
	}
	var order []int
	switch b.Topology {
	case gputypes.PrimitiveTopologyTriangleList:
		order = idx[:len(idx)-len(idx)%3]
	case gputypes.PrimitiveTopologyTriangleStrip:
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				order = append(order, idx[i], idx[i+1], idx[i+2])
			} else {
				order = append(order, idx[i+1], idx[i], idx[i+2])
			}
		}
	default:
		return false
	}
	for _, i := range order {
		c := m.color
		if b.Colors != nil {
			c = b.Colors[i]
		}
		m.verts = append(m.verts, vertex{b.ViewMatrix.TransformPoint(b.Positions[i]), c})
	}
	return true
}

// ellipse returns n points around the ellipse inscribed in r.
func ellipse(r gr.Rect, n int) []gr.Point {
	cx, cy := r.CenterX(), r.CenterY()
	rx, ry := r.Width()/2, r.Height()/2
	pts := make([]gr.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = gr.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return pts
}

// ellipseSegments picks a segment count keeping the chord error under the
// flatten tolerance for a device radius of r.
func ellipseSegments(r float64) int {
	if r <= gr.DefaultFlattenTolerance {
		return 8
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-gr.DefaultFlattenTolerance/r)))
	return min(max(n, 8), 512)
}

func oval(m *mesh, mat gr.Matrix, r gr.Rect, st gr.Style) {
	_, scale := mat.ScaleFactors()
	n := ellipseSegments(scale * math.Max(r.Width(), r.Height()) / 2)
	if st.IsFill() {
		m.fan(mapAll(mat, ellipse(r, n)))
		return
	}
	hw := st.Width() / 2
	if hw == 0 && scale > 0 {
		hw = 0.5 / scale
	}
	inner := r.Inset(hw, hw)
	outer := mapAll(mat, ellipse(r.Outset(hw, hw), n))
	if inner.IsEmpty() {
		m.fan(outer)
		return
	}
	m.ring(outer, mapAll(mat, ellipse(inner, n)))
}

func rrectFill(m *mesh, mat gr.Matrix, rr gr.RRect) {
	_, scale := mat.ScaleFactors()
	tol := gr.DefaultFlattenTolerance
	if scale > 0 {
		tol /= scale
	}
	cs := gr.PathFromRRect(rr, gr.DirectionCW).Flatten(tol)
	if len(cs) == 0 {
		return
	}
	m.fan(mapAll(mat, cs[0].Points))
}

func mapAll(mat gr.Matrix, pts []gr.Point) []gr.Point {
	for i, p := range pts {
		pts[i] = mat.TransformPoint(p)
	}
	return pts
}
