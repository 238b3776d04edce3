package text

import (
	"fmt"
	"sync"
)

// GlyphKey identifies a glyph image in an atlas.
type GlyphKey struct {
	FontID uint64
	Glyph  uint32
	// Size is the pixel size in 26.6 fixed point.
	Size int32
}

// Region is a reserved rectangle in an atlas page.
type Region struct {
	Page       int
	X, Y, W, H int
}

// GlyphAtlas hands out atlas space for glyph images.
type GlyphAtlas interface {
	// Find returns the region of a glyph already in the atlas.
	Find(key GlyphKey) (Region, bool)
	// Reserve allocates a w by h region for key.
	Reserve(key GlyphKey, w, h int) (Region, error)
	// PageSize returns the size of every page.
	PageSize() (w, h int)
}

// atlasPadding separates glyphs so bilinear sampling does not bleed.
const atlasPadding = 1

// ShelfAtlas packs glyphs into fixed-size pages row by row.
// It is safe for concurrent use.
type ShelfAtlas struct {
	mu       sync.Mutex
	w, h     int
	maxPages int
	pages    []shelfPage
	regions  map[GlyphKey]Region
}

type shelfPage struct {
	x, y, rowH int
}

// NewShelfAtlas creates an atlas of up to maxPages pages of w by h pixels.
func NewShelfAtlas(w, h, maxPages int) *ShelfAtlas {
	if maxPages < 1 {
		maxPages = 1
	}
	return &ShelfAtlas{
		w:        w,
		h:        h,
		maxPages: maxPages,
		regions:  make(map[GlyphKey]Region),
	}
}

var _ GlyphAtlas = (*ShelfAtlas)(nil)

// PageSize implements GlyphAtlas.
func (a *ShelfAtlas) PageSize() (w, h int) { return a.w, a.h }

// Find implements GlyphAtlas.
func (a *ShelfAtlas) Find(key GlyphKey) (Region, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.regions[key]
	return r, ok
}

// Reserve implements GlyphAtlas. Reserving an existing key returns its
// region.
func (a *ShelfAtlas) Reserve(key GlyphKey, w, h int) (Region, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r, ok := a.regions[key]; ok {
		return r, nil
	}
	pw, ph := w+atlasPadding, h+atlasPadding
	if pw > a.w || ph > a.h {
		return Region{}, fmt.Errorf("%w: glyph %dx%d exceeds page %dx%d", ErrAtlasFull, w, h, a.w, a.h)
	}
	for i := range a.pages {
		if r, ok := a.pages[i].place(i, pw, ph, a.w, a.h); ok {
			r.W, r.H = w, h
			a.regions[key] = r
			return r, nil
		}
	}
	if len(a.pages) == a.maxPages {
		return Region{}, fmt.Errorf("%w: %d pages in use", ErrAtlasFull, len(a.pages))
	}
	a.pages = append(a.pages, shelfPage{})
	i := len(a.pages) - 1
	r, _ := a.pages[i].place(i, pw, ph, a.w, a.h)
	r.W, r.H = w, h
	a.regions[key] = r
	Logger().Debug("text: atlas page added", "page", i)
	return r, nil
}

// Len returns the number of glyphs in the atlas.
func (a *ShelfAtlas) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.regions)
}

func (p *shelfPage) place(page, w, h, pageW, pageH int) (Region, bool) {
	if p.x+w > pageW {
		p.x = 0
		p.y += p.rowH
		p.rowH = 0
	}
	if p.y+h > pageH {
		return Region{}, false
	}
	r := Region{Page: page, X: p.x, Y: p.y}
	p.x += w
	if h > p.rowH {
		p.rowH = h
	}
	return r, true
}
