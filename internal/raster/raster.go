// Package raster rasterizes flattened paths into 8-bit coverage masks on
// the CPU. It backs the software path renderer.
package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// aaSamples is the per-axis supersampling factor of the scanline path.
const aaSamples = 4

// Options controls mask generation.
type Options struct {
	Rule      FillRule
	AntiAlias bool
	// Inverse fills the outside of the geometry within the mask bounds.
	Inverse bool
}

// Mask rasterizes closed contours (device coordinates) into a coverage
// mask covering bounds. Pixels outside bounds are not computed.
func Mask(contours [][]Point, bounds image.Rectangle, opts Options) *image.Alpha {
	m := image.NewAlpha(bounds)
	if bounds.Empty() {
		return m
	}
	if opts.AntiAlias && opts.Rule == FillRuleNonZero {
		fillVector(m, contours)
	} else {
		fillScanline(m, contours, opts)
	}
	if opts.Inverse {
		for i, a := range m.Pix {
			m.Pix[i] = 255 - a
		}
	}
	return m
}

// fillVector accumulates signed area with x/image/vector, which matches
// the non-zero rule for coverage.
func fillVector(m *image.Alpha, contours [][]Point) {
	b := m.Bounds()
	r := vector.NewRasterizer(b.Dx(), b.Dy())
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	for _, c := range contours {
		if len(c) < 2 {
			continue
		}
		r.MoveTo(float32(c[0].X-ox), float32(c[0].Y-oy))
		for _, p := range c[1:] {
			r.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		r.ClosePath()
	}
	r.Draw(m, b, image.NewUniform(color.Alpha{A: 255}), image.Point{})
}

// fillScanline samples pixel centers (or an aaSamples grid when
// anti-aliasing) against sorted edge crossings.
func fillScanline(m *image.Alpha, contours [][]Point, opts Options) {
	edges := buildEdges(contours)
	if len(edges) == 0 {
		return
	}
	b := m.Bounds()
	n := 1
	if opts.AntiAlias {
		n = aaSamples
	}
	w := b.Dx()
	acc := make([]int, w)
	var xs []crossing
	for y := b.Min.Y; y < b.Max.Y; y++ {
		clear(acc)
		for sy := range n {
			yy := float64(y) + (float64(sy)+0.5)/float64(n)
			xs = crossings(xs, edges, yy)
			accumulateRow(acc, xs, b.Min.X, n, opts.Rule)
		}
		row := m.Pix[(y-b.Min.Y)*m.Stride:]
		for x := range w {
			row[x] = uint8(acc[x] * 255 / (n * n))
		}
	}
}

// accumulateRow adds the number of covered samples per pixel for one
// sample row.
func accumulateRow(acc []int, xs []crossing, minX, n int, rule FillRule) {
	winding := 0
	for i := 0; i+1 < len(xs); i++ {
		winding += xs[i].dir
		inside := winding != 0
		if rule == FillRuleEvenOdd {
			inside = (i+1)%2 == 1
		}
		if !inside {
			continue
		}
		coverSpan(acc, xs[i].x, xs[i+1].x, minX, n)
	}
}

// coverSpan counts the sample columns with centers in [x0, x1).
func coverSpan(acc []int, x0, x1 float64, minX, n int) {
	fn := float64(n)
	// Sample k of pixel p sits at p + (k+0.5)/n; index s = p*n + k.
	s0 := int(math.Ceil((x0-float64(minX))*fn - 0.5))
	s1 := int(math.Ceil((x1-float64(minX))*fn - 0.5))
	if s0 < 0 {
		s0 = 0
	}
	if limit := len(acc) * n; s1 > limit {
		s1 = limit
	}
	for s := s0; s < s1; s++ {
		acc[s/n]++
	}
}
