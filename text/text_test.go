package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func mustFont(t *testing.T) *Font {
	t.Helper()
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont() error: %v", err)
	}
	return f
}

func TestParseFontInvalid(t *testing.T) {
	if _, err := ParseFont([]byte("not a font")); err == nil {
		t.Error("ParseFont(garbage) returned nil error")
	}
}

func TestFontIDsUnique(t *testing.T) {
	a, b := mustFont(t), mustFont(t)
	if a.ID() == b.ID() {
		t.Errorf("ID() = %d for both fonts", a.ID())
	}
}

func TestSegmentRunsLTR(t *testing.T) {
	runs := SegmentRuns("hello world", false)
	if len(runs) != 1 {
		t.Fatalf("SegmentRuns() = %v, want one run", runs)
	}
	if runs[0].RTL || runs[0].Start != 0 || runs[0].End != 11 {
		t.Errorf("run = %+v, want {0 11 false}", runs[0])
	}
}

func TestSegmentRunsEmpty(t *testing.T) {
	if runs := SegmentRuns("", false); runs != nil {
		t.Errorf("SegmentRuns(\"\") = %v, want nil", runs)
	}
}

func TestSegmentRunsHebrew(t *testing.T) {
	s := "שלום"
	runs := SegmentRuns(s, true)
	if len(runs) == 0 {
		t.Fatal("SegmentRuns() returned no runs")
	}
	covered := 0
	for _, r := range runs {
		if !r.RTL {
			t.Errorf("run %+v is not RTL", r)
		}
		covered += r.End - r.Start
	}
	if covered != 4 {
		t.Errorf("runs cover %d runes, want 4", covered)
	}
}

func TestShape(t *testing.T) {
	f := mustFont(t)
	runes := []rune("Hello")
	glyphs, advance := NewShaper().Shape(runes, Run{Start: 0, End: len(runes)}, f, 16)
	if len(glyphs) != 5 {
		t.Fatalf("Shape() returned %d glyphs, want 5", len(glyphs))
	}
	if advance <= 0 {
		t.Errorf("advance = %v, want > 0", advance)
	}
	for i := 1; i < len(glyphs); i++ {
		if glyphs[i].X <= glyphs[i-1].X {
			t.Errorf("glyph %d X = %v not after glyph %d X = %v", i, glyphs[i].X, i-1, glyphs[i-1].X)
		}
	}
	if glyphs[0].Height <= 0 || glyphs[0].Width <= 0 {
		t.Errorf("'H' ink box = %vx%v, want positive", glyphs[0].Width, glyphs[0].Height)
	}
}

func TestShelfAtlas(t *testing.T) {
	a := NewShelfAtlas(16, 16, 2)

	r1, err := a.Reserve(GlyphKey{Glyph: 1}, 7, 7)
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}
	r2, err := a.Reserve(GlyphKey{Glyph: 2}, 7, 7)
	if err != nil {
		t.Fatalf("Reserve() error: %v", err)
	}
	if r1.Page != 0 || r1.X != 0 || r1.Y != 0 {
		t.Errorf("first region = %+v, want page 0 at origin", r1)
	}
	if r2.X != 8 || r2.Y != 0 {
		t.Errorf("second region = %+v, want X 8 Y 0", r2)
	}
	r3, _ := a.Reserve(GlyphKey{Glyph: 3}, 7, 7)
	if r3.X != 0 || r3.Y != 8 {
		t.Errorf("third region = %+v, want next shelf at Y 8", r3)
	}
	again, _ := a.Reserve(GlyphKey{Glyph: 1}, 7, 7)
	if again != r1 {
		t.Errorf("Reserve(existing) = %+v, want %+v", again, r1)
	}
	if got, ok := a.Find(GlyphKey{Glyph: 2}); !ok || got != r2 {
		t.Errorf("Find() = %+v, %v", got, ok)
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3", a.Len())
	}

	a.Reserve(GlyphKey{Glyph: 4}, 7, 7)
	r5, err := a.Reserve(GlyphKey{Glyph: 5}, 7, 7)
	if err != nil || r5.Page != 1 {
		t.Errorf("fifth region = %+v, %v, want page 1", r5, err)
	}
	if _, err := a.Reserve(GlyphKey{Glyph: 99}, 20, 4); !errors.Is(err, ErrAtlasFull) {
		t.Errorf("oversized Reserve() error = %v, want ErrAtlasFull", err)
	}
}

func TestLayout(t *testing.T) {
	f := mustFont(t)
	c := NewContext(nil)

	quads, err := c.Layout("A B", f, 20, 10, 50)
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	if len(quads) != 2 {
		t.Fatalf("Layout() returned %d quads, want 2 (space has no ink)", len(quads))
	}
	if quads[0].Y1 > 52 || quads[0].Y0 >= 50 {
		t.Errorf("'A' quad spans Y %v..%v, want above the baseline at 50", quads[0].Y0, quads[0].Y1)
	}
	if quads[1].X0 <= quads[0].X1 {
		t.Errorf("'B' starts at %v before 'A' ends at %v", quads[1].X0, quads[0].X1)
	}
	for _, q := range quads {
		if q.U1 <= q.U0 || q.V1 <= q.V0 {
			t.Errorf("quad UVs %+v are empty", q)
		}
	}

	again, _ := c.Layout("A", f, 20, 0, 0)
	if again[0].U0 != quads[0].U0 || again[0].V0 != quads[0].V0 {
		t.Error("re-layout of a cached glyph used a different atlas region")
	}

	x0, _, x1, _, ok := Bounds(quads)
	if !ok || x0 != quads[0].X0 || x1 != quads[1].X1 {
		t.Errorf("Bounds() = %v..%v, %v", x0, x1, ok)
	}
}

func TestLayoutNoFont(t *testing.T) {
	if _, err := NewContext(nil).Layout("x", nil, 12, 0, 0); !errors.Is(err, ErrNoFont) {
		t.Errorf("Layout(nil font) error = %v, want ErrNoFont", err)
	}
}
