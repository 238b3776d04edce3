package text

import (
	"fmt"
	"math"
)

// Quad is a glyph placed in local space with its atlas coordinates.
type Quad struct {
	X0, Y0, X1, Y1 float64
	U0, V0, U1, V1 float32
	Page           int
	Glyph          uint32
}

// Context lays out strings against one glyph atlas.
type Context struct {
	atlas  GlyphAtlas
	shaper *Shaper
}

// NewContext creates a layout context. A nil atlas gets a 1024x1024,
// four page ShelfAtlas.
func NewContext(atlas GlyphAtlas) *Context {
	if atlas == nil {
		atlas = NewShelfAtlas(1024, 1024, 4)
	}
	return &Context{atlas: atlas, shaper: NewShaper()}
}

// Atlas returns the glyph atlas.
func (c *Context) Atlas() GlyphAtlas { return c.atlas }

// Layout shapes s with its baseline origin at (x, y) and returns one quad
// per inked glyph. Runs are laid out left to right in visual order.
func (c *Context) Layout(s string, f *Font, size, x, y float64) ([]Quad, error) {
	if f == nil {
		return nil, ErrNoFont
	}
	if s == "" || size <= 0 {
		return nil, nil
	}
	runes := []rune(s)
	pw, ph := c.atlas.PageSize()
	key := GlyphKey{FontID: f.ID(), Size: int32(math.Round(size * 64))}

	var quads []Quad
	pen := x
	for _, run := range SegmentRuns(s, false) {
		glyphs, advance := c.shaper.Shape(runes, run, f, size)
		for _, g := range glyphs {
			w := int(math.Ceil(g.Width))
			h := int(math.Ceil(g.Height))
			if w <= 0 || h <= 0 {
				continue
			}
			key.Glyph = g.ID
			r, ok := c.atlas.Find(key)
			if !ok {
				var err error
				if r, err = c.atlas.Reserve(key, w, h); err != nil {
					return quads, fmt.Errorf("text: glyph %d: %w", g.ID, err)
				}
			}
			gx := pen + g.X + g.Left
			gy := y + g.Y + g.Top
			quads = append(quads, Quad{
				X0: gx, Y0: gy, X1: gx + float64(r.W), Y1: gy + float64(r.H),
				U0:    float32(r.X) / float32(pw),
				V0:    float32(r.Y) / float32(ph),
				U1:    float32(r.X+r.W) / float32(pw),
				V1:    float32(r.Y+r.H) / float32(ph),
				Page:  r.Page,
				Glyph: g.ID,
			})
		}
		pen += advance
	}
	return quads, nil
}

// Bounds returns the union of the quads' boxes.
func Bounds(quads []Quad) (x0, y0, x1, y1 float64, ok bool) {
	if len(quads) == 0 {
		return 0, 0, 0, 0, false
	}
	x0, y0, x1, y1 = quads[0].X0, quads[0].Y0, quads[0].X1, quads[0].Y1
	for _, q := range quads[1:] {
		x0 = math.Min(x0, q.X0)
		y0 = math.Min(y0, q.Y0)
		x1 = math.Max(x1, q.X1)
		y1 = math.Max(y1, q.Y1)
	}
	return x0, y0, x1, y1, true
}
