package raster

import (
	"image"
	"testing"
)

func square(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func reversed(c []Point) []Point {
	out := make([]Point, len(c))
	for i, p := range c {
		out[len(c)-1-i] = p
	}
	return out
}

func TestMaskSquare(t *testing.T) {
	contours := [][]Point{square(1, 1, 3, 3)}
	bounds := image.Rect(0, 0, 4, 4)

	tests := []struct {
		name string
		opts Options
	}{
		{"nonzero bw", Options{Rule: FillRuleNonZero}},
		{"evenodd bw", Options{Rule: FillRuleEvenOdd}},
		{"nonzero aa", Options{Rule: FillRuleNonZero, AntiAlias: true}},
		{"evenodd aa", Options{Rule: FillRuleEvenOdd, AntiAlias: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Mask(contours, bounds, tt.opts)
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					want := uint8(0)
					if x >= 1 && x < 3 && y >= 1 && y < 3 {
						want = 255
					}
					if got := m.AlphaAt(x, y).A; got != want {
						t.Errorf("AlphaAt(%d, %d) = %d, want %d", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestMaskFillRules(t *testing.T) {
	outer := square(0, 0, 6, 6)
	inner := square(2, 2, 4, 4)
	bounds := image.Rect(0, 0, 6, 6)

	tests := []struct {
		name     string
		contours [][]Point
		rule     FillRule
		hole     bool
	}{
		{"evenodd same direction", [][]Point{outer, inner}, FillRuleEvenOdd, true},
		{"nonzero same direction", [][]Point{outer, inner}, FillRuleNonZero, false},
		{"nonzero opposite direction", [][]Point{outer, reversed(inner)}, FillRuleNonZero, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Mask(tt.contours, bounds, Options{Rule: tt.rule})
			got := m.AlphaAt(3, 3).A
			want := uint8(255)
			if tt.hole {
				want = 0
			}
			if got != want {
				t.Errorf("center coverage = %d, want %d", got, want)
			}
			if edge := m.AlphaAt(0, 0).A; edge != 255 {
				t.Errorf("ring coverage = %d, want 255", edge)
			}
		})
	}
}

func TestMaskPartialCoverage(t *testing.T) {
	m := Mask([][]Point{square(0, 0, 1.5, 2)}, image.Rect(0, 0, 2, 2), Options{
		Rule:      FillRuleEvenOdd,
		AntiAlias: true,
	})
	if got := m.AlphaAt(1, 0).A; got != 127 {
		t.Errorf("half covered pixel = %d, want 127", got)
	}
	if got := m.AlphaAt(0, 0).A; got != 255 {
		t.Errorf("covered pixel = %d, want 255", got)
	}
}

func TestMaskInverse(t *testing.T) {
	m := Mask([][]Point{square(1, 1, 3, 3)}, image.Rect(0, 0, 4, 4), Options{Inverse: true})
	if got := m.AlphaAt(0, 0).A; got != 255 {
		t.Errorf("outside = %d, want 255", got)
	}
	if got := m.AlphaAt(2, 2).A; got != 0 {
		t.Errorf("inside = %d, want 0", got)
	}
}

func TestMaskOffsetBounds(t *testing.T) {
	m := Mask([][]Point{square(10, 10, 12, 12)}, image.Rect(9, 9, 13, 13), Options{AntiAlias: true})
	if got := m.AlphaAt(10, 10).A; got != 255 {
		t.Errorf("AlphaAt(10, 10) = %d, want 255", got)
	}
	if got := m.AlphaAt(9, 9).A; got != 0 {
		t.Errorf("AlphaAt(9, 9) = %d, want 0", got)
	}
}

func TestMaskEmpty(t *testing.T) {
	m := Mask(nil, image.Rect(0, 0, 2, 2), Options{})
	for _, a := range m.Pix {
		if a != 0 {
			t.Fatalf("empty geometry produced coverage %d", a)
		}
	}
}
