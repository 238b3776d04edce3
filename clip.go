package gr

// Clip restricts a draw to a region of the render target. Clips are read
// only from the render context's point of view.
type Clip interface {
	// ConservativeBounds returns device bounds that contain every pixel the
	// clip may pass, intersected with the target bounds.
	ConservativeBounds(width, height int) IRect

	// QuickContains reports whether r (device space) is entirely inside
	// the clip. False negatives are allowed.
	QuickContains(r Rect) bool

	// applied returns the pipeline restrictions needed to enforce the clip.
	applied(width, height int) appliedClip
}

// appliedClip is what a clip contributes to a pipeline.
type appliedClip struct {
	scissor     *IRect
	stencilClip bool
	coverage    []CoverageEffect
}

// NoClip passes everything.
type NoClip struct{}

var _ Clip = NoClip{}

// ConservativeBounds returns the whole target.
func (NoClip) ConservativeBounds(width, height int) IRect { return IRectWH(width, height) }

// QuickContains always reports true.
func (NoClip) QuickContains(Rect) bool { return true }

func (NoClip) applied(int, int) appliedClip { return appliedClip{} }

// RectClip restricts drawing to a device-space rect. Non-integer edges are
// enforced with an AA rect coverage effect.
type RectClip struct {
	Rect Rect
}

var _ Clip = RectClip{}

// ConservativeBounds returns the rect rounded out and intersected with the
// target.
func (c RectClip) ConservativeBounds(width, height int) IRect {
	r, _ := c.Rect.RoundOut().Intersect(IRectWH(width, height))
	return r
}

// QuickContains reports whether r lies inside the clip rect.
func (c RectClip) QuickContains(r Rect) bool { return c.Rect.ContainsRect(r) }

func (c RectClip) applied(width, height int) appliedClip {
	s := c.ConservativeBounds(width, height)
	ac := appliedClip{scissor: &s}
	if c.Rect.RoundOut().Rect() != c.Rect {
		if e, ok := NewRRectEffect(EdgeFillAA, RRectFromRect(c.Rect)); ok {
			ac.coverage = []CoverageEffect{e}
		}
	}
	return ac
}

// RRectClip restricts drawing to a device-space rounded rect.
type RRectClip struct {
	RRect     RRect
	AntiAlias bool
}

var _ Clip = RRectClip{}

// ConservativeBounds returns the rounded rect's bounds.
func (c RRectClip) ConservativeBounds(width, height int) IRect {
	r, _ := c.RRect.Rect().RoundOut().Intersect(IRectWH(width, height))
	return r
}

// QuickContains reports whether r lies inside the straight part of the
// rounded rect.
func (c RRectClip) QuickContains(r Rect) bool {
	for _, p := range r.corners() {
		if !c.RRect.Contains(p) {
			return false
		}
	}
	return true
}

func (c RRectClip) applied(width, height int) appliedClip {
	s := c.ConservativeBounds(width, height)
	edge := EdgeFillBW
	if c.AntiAlias {
		edge = EdgeFillAA
	}
	e, _ := NewRRectEffect(edge, c.RRect)
	return appliedClip{scissor: &s, coverage: []CoverageEffect{e}}
}

// StencilClip is an arbitrary region already rendered into the stencil
// clip bit. Bounds bounds the region.
type StencilClip struct {
	Bounds IRect
}

var _ Clip = StencilClip{}

// ConservativeBounds returns the region bounds within the target.
func (c StencilClip) ConservativeBounds(width, height int) IRect {
	r, _ := c.Bounds.Intersect(IRectWH(width, height))
	return r
}

// QuickContains is always false; the stencil contents are unknown here.
func (StencilClip) QuickContains(Rect) bool { return false }

func (c StencilClip) applied(width, height int) appliedClip {
	s := c.ConservativeBounds(width, height)
	return appliedClip{scissor: &s, stencilClip: true}
}

// FixedClip is a scissor plus an optional stencil clip test, used by the
// clip-mask generation entry points.
type FixedClip struct {
	Scissor     *IRect
	StencilTest bool
}

var _ Clip = FixedClip{}

// ConservativeBounds returns the scissor or the whole target.
func (c FixedClip) ConservativeBounds(width, height int) IRect {
	if c.Scissor == nil {
		return IRectWH(width, height)
	}
	r, _ := c.Scissor.Intersect(IRectWH(width, height))
	return r
}

// QuickContains reports whether r is inside the scissor and no stencil
// test applies.
func (c FixedClip) QuickContains(r Rect) bool {
	if c.StencilTest {
		return false
	}
	return c.Scissor == nil || c.Scissor.Rect().ContainsRect(r)
}

func (c FixedClip) applied(width, height int) appliedClip {
	ac := appliedClip{stencilClip: c.StencilTest}
	if c.Scissor != nil {
		s := c.ConservativeBounds(width, height)
		ac.scissor = &s
	}
	return ac
}
