package text

import (
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Glyph is a shaped glyph positioned relative to the start of its run.
// All values are in pixels with y pointing down.
type Glyph struct {
	ID      uint32
	Cluster int

	// X, Y locate the glyph origin on the baseline.
	X, Y    float64
	Advance float64

	// Ink box relative to the origin.
	Left, Top     float64
	Width, Height float64
}

// Shaper shapes runs with HarfBuzz. It is safe for concurrent use.
type Shaper struct {
	pool sync.Pool
}

// NewShaper creates a shaper.
func NewShaper() *Shaper {
	return &Shaper{pool: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }}}
}

// Shape shapes runes[run.Start:run.End] at size pixels per em and returns
// glyphs in visual order together with the run advance.
func (s *Shaper) Shape(runes []rune, run Run, f *Font, size float64) ([]Glyph, float64) {
	if f == nil || run.End <= run.Start {
		return nil, 0
	}
	dir := di.DirectionLTR
	if run.RTL {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  run.Start,
		RunEnd:    run.End,
		Direction: dir,
		Face:      f.face(),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes[run.Start:run.End]),
		Language:  language.NewLanguage("en"),
	}
	hb := s.pool.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	s.pool.Put(hb)

	glyphs := make([]Glyph, len(out.Glyphs))
	var pen float64
	for i, g := range out.Glyphs {
		glyphs[i] = Glyph{
			ID:      uint32(g.GlyphID),
			Cluster: g.TextIndex(),
			X:       pen + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: fixedToFloat(g.Advance),
			Left:    fixedToFloat(g.XBearing),
			Top:     -fixedToFloat(g.YBearing),
			Width:   fixedToFloat(g.Width),
			Height:  -fixedToFloat(g.Height),
		}
		pen += fixedToFloat(g.Advance)
	}
	return glyphs, pen
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
