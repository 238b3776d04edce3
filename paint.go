package gr

import "github.com/gogpu/gputypes"

// BlendMode selects how source color combines with the destination.
type BlendMode int

const (
	BlendSrcOver BlendMode = iota
	BlendSrc
	BlendClear
	// BlendDisableColor writes no color; used for stencil-only draws.
	BlendDisableColor
	// BlendCoverageSetOp combines coverage with the destination using a
	// region operation; used for clip mask generation.
	BlendCoverageSetOp
)

// RegionOp is a set operation applied when compositing clip coverage.
type RegionOp int

const (
	RegionDifference RegionOp = iota
	RegionIntersect
	RegionUnion
	RegionXOR
	RegionReverseDifference
	RegionReplace
)

// Paint holds color, antialiasing, blend and coverage configuration for a
// draw. Paint is a value: every With method returns a modified copy and
// never touches the receiver, so a paint can be shared freely.
type Paint struct {
	color     gputypes.Color
	antiAlias bool
	blend     BlendMode
	setOp     RegionOp
	invert    bool
	coverage  []CoverageEffect
}

// NewPaint returns a source-over paint with the given color.
func NewPaint(c gputypes.Color) Paint {
	return Paint{color: c}
}

// Color returns the paint color (unpremultiplied).
func (p Paint) Color() gputypes.Color { return p.color }

// AntiAlias reports whether antialiasing was requested.
func (p Paint) AntiAlias() bool { return p.antiAlias }

// Blend returns the blend mode.
func (p Paint) Blend() BlendMode { return p.blend }

// CoverageSetOp returns the region operation and invert flag used with
// BlendCoverageSetOp.
func (p Paint) CoverageSetOp() (RegionOp, bool) { return p.setOp, p.invert }

// Coverage returns the coverage effects. The slice must not be modified.
func (p Paint) Coverage() []CoverageEffect { return p.coverage }

// WithColor returns a copy with a different color.
func (p Paint) WithColor(c gputypes.Color) Paint {
	p.color = c
	return p
}

// WithAntiAlias returns a copy with antialiasing turned on or off.
func (p Paint) WithAntiAlias(aa bool) Paint {
	p.antiAlias = aa
	return p
}

// WithBlend returns a copy with a different blend mode.
func (p Paint) WithBlend(b BlendMode) Paint {
	p.blend = b
	return p
}

// WithCoverageSetOp returns a copy that composites coverage with op.
func (p Paint) WithCoverageSetOp(op RegionOp, invert bool) Paint {
	p.blend = BlendCoverageSetOp
	p.setOp = op
	p.invert = invert
	return p
}

// WithCoverage returns a copy with effects appended to the coverage chain.
func (p Paint) WithCoverage(effects ...CoverageEffect) Paint {
	chain := make([]CoverageEffect, 0, len(p.coverage)+len(effects))
	chain = append(chain, p.coverage...)
	p.coverage = append(chain, effects...)
	return p
}

// IsConstantBlendedColor reports whether drawing this paint produces the
// same color regardless of the destination, and returns that color.
func (p Paint) IsConstantBlendedColor() (gputypes.Color, bool) {
	if len(p.coverage) > 0 {
		return gputypes.Color{}, false
	}
	switch p.blend {
	case BlendSrc:
		return p.color, true
	case BlendClear:
		return gputypes.ColorTransparent, true
	case BlendSrcOver:
		if p.color.A >= 1 {
			return p.color, true
		}
	}
	return gputypes.Color{}, false
}

// BlendState returns the fixed-function blend state for the paint.
// Colors are premultiplied before blending.
func (p Paint) BlendState() gputypes.BlendState {
	switch p.blend {
	case BlendSrc:
		return gputypes.BlendStateReplace()
	case BlendClear, BlendDisableColor:
		return blendFactors(gputypes.BlendFactorZero, gputypes.BlendFactorOne)
	case BlendCoverageSetOp:
		return coverageSetOpBlend(p.setOp, p.invert)
	}
	return gputypes.BlendStatePremultiplied()
}

// WriteMask returns which channels the paint writes.
func (p Paint) WriteMask() gputypes.ColorWriteMask {
	if p.blend == BlendDisableColor {
		return gputypes.ColorWriteMaskNone
	}
	return gputypes.ColorWriteMaskAll
}

func blendFactors(src, dst gputypes.BlendFactor) gputypes.BlendState {
	c := gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// coverageSetOpBlend maps a region op onto blend factors, treating source
// coverage as S and destination coverage as D. Inversion is applied to
// the source coverage in the shader.
func coverageSetOpBlend(op RegionOp, _ bool) gputypes.BlendState {
	switch op {
	case RegionReplace:
		return blendFactors(gputypes.BlendFactorOne, gputypes.BlendFactorZero)
	case RegionIntersect:
		return blendFactors(gputypes.BlendFactorDstAlpha, gputypes.BlendFactorZero)
	case RegionUnion:
		return blendFactors(gputypes.BlendFactorOne, gputypes.BlendFactorOneMinusSrcAlpha)
	case RegionXOR:
		return blendFactors(gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorOneMinusSrcAlpha)
	case RegionDifference:
		return blendFactors(gputypes.BlendFactorZero, gputypes.BlendFactorOneMinusSrcAlpha)
	default:
		return blendFactors(gputypes.BlendFactorOneMinusDstAlpha, gputypes.BlendFactorZero)
	}
}

// EdgeType selects how a coverage effect treats the inside of its shape.
type EdgeType int

const (
	EdgeFillBW EdgeType = iota
	EdgeFillAA
	EdgeInverseFillBW
	EdgeInverseFillAA
)

// IsInverse reports whether the effect covers the outside.
func (e EdgeType) IsInverse() bool { return e == EdgeInverseFillBW || e == EdgeInverseFillAA }

// IsAA reports whether the effect computes fractional coverage at edges.
func (e EdgeType) IsAA() bool { return e == EdgeFillAA || e == EdgeInverseFillAA }

// CoverageEffect is a fragment-evaluated coverage stage. Coverage returns
// the coverage in [0, 1] at a device-space sample position.
type CoverageEffect interface {
	Name() string
	Coverage(p Point) float64
}

// RRectEffect covers the inside (or outside) of a device-space rounded rect.
type RRectEffect struct {
	Edge  EdgeType
	RRect RRect
}

var _ CoverageEffect = RRectEffect{}

// NewRRectEffect returns a rounded rect coverage effect. ok is false for an
// empty rounded rect.
func NewRRectEffect(edge EdgeType, rr RRect) (RRectEffect, bool) {
	if rr.IsEmpty() {
		return RRectEffect{}, false
	}
	return RRectEffect{Edge: edge, RRect: rr}, true
}

// Name returns the program name for the effect.
func (e RRectEffect) Name() string { return "rrect_coverage" }

// Coverage evaluates the effect at p: one inside, zero outside, swapped
// for inverse edges. Sample positions are pixel centers, so AA edges are
// reported at their midpoint.
func (e RRectEffect) Coverage(p Point) float64 {
	in := e.RRect.Contains(p)
	if in != e.Edge.IsInverse() {
		return 1
	}
	return 0
}
