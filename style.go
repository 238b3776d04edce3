package gr

import "math"

// Cap is the shape drawn at the ends of open stroked contours.
type Cap int

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join is the shape drawn where stroked segments meet.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// DefaultMiterLimit matches the usual 2D API default.
const DefaultMiterLimit = 4.0

// Dash is a dash path effect: alternating on/off lengths starting at Phase.
type Dash struct {
	Intervals []float64
	Phase     float64
}

// IsValid reports whether the dash has an even, non-empty set of
// non-negative intervals with a positive total length.
func (d *Dash) IsValid() bool {
	if d == nil || len(d.Intervals) == 0 || len(d.Intervals)%2 != 0 {
		return false
	}
	var sum float64
	for _, v := range d.Intervals {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
		sum += v
	}
	return sum > 0
}

type styleKind int

const (
	styleFill styleKind = iota
	styleHairline
	styleStroke
)

// Style describes how geometry is turned into coverage: a fill, a
// hairline, or a stroke with width, caps, and joins, plus an optional dash.
// Style is a value type.
type Style struct {
	kind       styleKind
	width      float64
	cap        Cap
	join       Join
	miterLimit float64
	dash       *Dash
}

// SimpleFill returns a plain fill style with no path effect.
func SimpleFill() Style {
	return Style{kind: styleFill, miterLimit: DefaultMiterLimit}
}

// Hairline returns a style that strokes with a one device pixel wide line
// regardless of the view matrix.
func Hairline() Style {
	return Style{kind: styleHairline, miterLimit: DefaultMiterLimit}
}

// StrokeStyle returns a stroke style. A width of zero is a hairline.
func StrokeStyle(width float64, c Cap, j Join, miterLimit float64) Style {
	if width <= 0 {
		s := Hairline()
		s.cap, s.join = c, j
		return s
	}
	if miterLimit <= 0 {
		miterLimit = DefaultMiterLimit
	}
	return Style{kind: styleStroke, width: width, cap: c, join: j, miterLimit: miterLimit}
}

// WithDash returns a copy of s that dashes the geometry before styling.
// An invalid dash is ignored.
func (s Style) WithDash(d Dash) Style {
	if !d.IsValid() {
		return s
	}
	d.Intervals = append([]float64(nil), d.Intervals...)
	s.dash = &d
	return s
}

// WithoutPathEffect returns a copy of s without the dash.
func (s Style) WithoutPathEffect() Style {
	s.dash = nil
	return s
}

// IsFill reports whether the style fills (with or without a path effect).
func (s Style) IsFill() bool { return s.kind == styleFill }

// IsSimpleFill reports whether the style is a fill with no path effect.
func (s Style) IsSimpleFill() bool { return s.kind == styleFill && s.dash == nil }

// IsHairline reports whether the style is a hairline.
func (s Style) IsHairline() bool { return s.kind == styleHairline }

// IsStroke reports whether the style is a stroke with a positive width.
func (s Style) IsStroke() bool { return s.kind == styleStroke }

// IsSimpleHairline reports whether the style is a hairline with no path effect.
func (s Style) IsSimpleHairline() bool { return s.kind == styleHairline && s.dash == nil }

// HasPathEffect reports whether a dash is attached.
func (s Style) HasPathEffect() bool { return s.dash != nil }

// HasNonDashPathEffect reports whether a path effect other than a dash is
// attached. Dash is the only supported effect, so this is always false.
func (s Style) HasNonDashPathEffect() bool { return false }

// Dash returns the dash effect or nil.
func (s Style) Dash() *Dash { return s.dash }

// Width returns the stroke width; zero for fills and hairlines.
func (s Style) Width() float64 { return s.width }

// Cap returns the stroke cap.
func (s Style) Cap() Cap { return s.cap }

// Join returns the stroke join.
func (s Style) Join() Join { return s.join }

// MiterLimit returns the miter limit.
func (s Style) MiterLimit() float64 { return s.miterLimit }

// Inflation returns how far the styled geometry can extend beyond the
// source geometry bounds.
func (s Style) Inflation() float64 {
	if s.kind != styleStroke {
		return 0
	}
	r := s.width / 2
	if s.join == JoinMiter {
		r *= math.Max(1, s.miterLimit)
	}
	if s.cap == CapSquare {
		r = math.Max(r, s.width/2*math.Sqrt2)
	}
	return r
}

// Applies reports whether the style changes geometry when resolved: a dash
// or a stroke with positive width.
func (s Style) Applies() bool { return s.dash != nil || s.kind == styleStroke }

// hairlineCoverage reports whether s draws as a hairline under m. Strokes
// no wider than one device pixel are drawn as hairlines with coverage
// scaled by their device width.
func hairlineCoverage(s Style, m Matrix) (float64, bool) {
	if s.dash != nil {
		return 0, false
	}
	switch s.kind {
	case styleHairline:
		return 1, true
	case styleStroke:
		if !m.PreservesRightAngles() {
			return 0, false
		}
		_, maxScale := m.ScaleFactors()
		if w := s.width * maxScale; w <= 1 {
			return w, true
		}
	}
	return 0, false
}
