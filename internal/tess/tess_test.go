package tess

import (
	"math"
	"testing"
)

func area(tris []Point) float64 {
	var sum float64
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		sum += ((b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)) / 2
	}
	return sum
}

func TestFanTessellatorSquare(t *testing.T) {
	ft := NewFanTessellator()
	ft.Tessellate([][]Point{{{0, 0}, {4, 0}, {4, 4}, {0, 4}}})

	if got := ft.TriangleCount(); got != 2 {
		t.Fatalf("TriangleCount() = %d, want 2", got)
	}
	if got := area(ft.Vertices()); math.Abs(got-16) > 1e-9 {
		t.Errorf("signed area = %v, want 16", got)
	}
	minPt, maxPt, ok := ft.Bounds()
	if !ok || minPt != (Point{0, 0}) || maxPt != (Point{4, 4}) {
		t.Errorf("Bounds() = %v, %v, %v", minPt, maxPt, ok)
	}
	q := ft.CoverQuad()
	if q[0] != (Point{-1, -1}) || q[2] != (Point{5, 5}) {
		t.Errorf("CoverQuad() = %v", q)
	}
}

func TestFanTessellatorWindingSign(t *testing.T) {
	ft := NewFanTessellator()
	ft.Tessellate([][]Point{{{0, 0}, {0, 4}, {4, 4}, {4, 0}}})
	if got := area(ft.Vertices()); math.Abs(got+16) > 1e-9 {
		t.Errorf("reversed contour signed area = %v, want -16", got)
	}
}

func TestFanTessellatorReset(t *testing.T) {
	ft := NewFanTessellator()
	ft.Tessellate([][]Point{{{0, 0}, {1, 0}, {1, 1}}})
	ft.Reset()
	if ft.TriangleCount() != 0 {
		t.Errorf("TriangleCount() after Reset = %d, want 0", ft.TriangleCount())
	}
	if _, _, ok := ft.Bounds(); ok {
		t.Error("Bounds() after Reset reported ok")
	}
}

func TestFanTessellatorSkipsDegenerate(t *testing.T) {
	ft := NewFanTessellator()
	ft.Tessellate([][]Point{{{0, 0}, {1, 0}, {2, 0}}, {{5, 5}, {6, 6}}})
	if got := ft.TriangleCount(); got != 0 {
		t.Errorf("TriangleCount() = %d, want 0", got)
	}
}

func TestConvexFan(t *testing.T) {
	tris := ConvexFan([]Point{{0, 0}, {2, 0}, {3, 1}, {2, 2}, {0, 2}})
	if got := len(tris) / 3; got != 3 {
		t.Errorf("triangles = %d, want 3", got)
	}
	if got := area(tris); math.Abs(got-5) > 1e-9 {
		t.Errorf("area = %v, want 5", got)
	}
}

func TestHairlineQuads(t *testing.T) {
	tests := []struct {
		name     string
		contours [][]Point
		closed   []bool
		quads    int
	}{
		{"single segment", [][]Point{{{0, 0}, {10, 0}}}, nil, 1},
		{"open polyline", [][]Point{{{0, 0}, {10, 0}, {10, 10}}}, []bool{false}, 2},
		{"closed triangle", [][]Point{{{0, 0}, {10, 0}, {10, 10}}}, []bool{true}, 3},
		{"point", [][]Point{{{3, 3}}}, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HairlineQuads(tt.contours, tt.closed)
			if len(got) != tt.quads*6 {
				t.Errorf("vertices = %d, want %d", len(got), tt.quads*6)
			}
		})
	}
}

func TestHairlineQuadWidth(t *testing.T) {
	q := HairlineQuads([][]Point{{{0, 0}, {10, 0}}}, nil)
	// One unit wide, extended half a unit at each end.
	if got := math.Abs(area(q)); math.Abs(got-11) > 1e-9 {
		t.Errorf("quad area = %v, want 11", got)
	}
}
