// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"fmt"

	"github.com/gogpu/gr/internal/raster"
	"github.com/gogpu/gr/internal/tess"
)

// DrawType is what a path draw writes.
type DrawType int

const (
	// DrawTypeColor writes color only.
	DrawTypeColor DrawType = iota
	// DrawTypeStencil writes stencil only.
	DrawTypeStencil
	// DrawTypeStencilAndColor writes both in a single pass.
	DrawTypeStencilAndColor
)

// StencilSupport is how well a renderer can write user stencil values for
// a shape. Values are ordered: a renderer satisfies any requirement at or
// below its support.
type StencilSupport int

const (
	StencilNoSupport StencilSupport = iota
	StencilOnly
	StencilNoRestriction
)

// CanDrawPathArgs is the capability query given to a path renderer.
type CanDrawPathArgs struct {
	ShaderCaps *ShaderCaps
	ViewMatrix Matrix
	Shape      *Shape

	// AntiAlias requests coverage AA. It is false when the target provides
	// hardware AA.
	AntiAlias bool

	HasUserStencilSettings bool
	IsStencilBufferMSAA    bool

	// HasStencil is set when the target carries a stencil buffer.
	// Renderers that need a stencil pass must reject the shape without one.
	HasStencil bool
}

// DrawPathArgs carries everything a renderer needs to commit a draw.
type DrawPathArgs struct {
	Context     *RenderContext
	Paint       Paint
	UserStencil *StencilSettings
	Clip        Clip
	ViewMatrix  Matrix
	Shape       *Shape
	AntiAlias   bool
	UseHWAA     bool
}

// Emit records b with the args' clip and AA mode. It returns false when
// the draw was rejected; see RenderContext.drawBatch.
func (a *DrawPathArgs) Emit(p Paint, ss *StencilSettings, b Batch) bool {
	return a.Context.drawBatch(p, a.UseHWAA, ss, a.Clip, b)
}

// PathRenderer draws shapes that the specialized batches cannot.
type PathRenderer interface {
	// Name identifies the renderer in logs.
	Name() string

	// CanDrawPath reports whether the renderer can draw args.Shape.
	CanDrawPath(args *CanDrawPathArgs) bool

	// DrawPath records the draw. It returns false if nothing was recorded
	// and the caller should treat the draw as failed.
	DrawPath(args *DrawPathArgs) bool

	// StencilSupport reports the renderer's stencil capability for shape.
	StencilSupport(shape *Shape) StencilSupport
}

// PathRendererChain is an ordered list of renderers ending with the
// software renderer.
type PathRendererChain struct {
	renderers []PathRenderer
}

// NewPathRendererChain builds a chain of custom renderers followed by the
// built-in ones, ending with the software fallback.
func NewPathRendererChain(custom ...PathRenderer) *PathRendererChain {
	rs := make([]PathRenderer, 0, len(custom)+6)
	rs = append(rs, custom...)
	rs = append(rs,
		DashLinePathRenderer{},
		StencilAndCoverPathRenderer{},
		AAConvexPathRenderer{},
		AAHairlinePathRenderer{},
		DefaultPathRenderer{},
		SoftwarePathRenderer{},
	)
	return newPathRendererChain(rs)
}

func newPathRendererChain(rs []PathRenderer) *PathRendererChain {
	if len(rs) == 0 {
		panic("gr: path renderer chain is empty")
	}
	if _, ok := rs[len(rs)-1].(SoftwarePathRenderer); !ok {
		panic(fmt.Sprintf("gr: path renderer chain must end with the software renderer, got %s", rs[len(rs)-1].Name()))
	}
	return &PathRendererChain{renderers: rs}
}

// Renderers returns the chain in query order.
func (c *PathRendererChain) Renderers() []PathRenderer {
	out := make([]PathRenderer, len(c.renderers))
	copy(out, c.renderers)
	return out
}

// Find returns the first renderer that accepts args and meets the stencil
// requirement of drawType. The software renderer is only considered when
// allowSoftware is set. Find returns nil when nothing accepts.
func (c *PathRendererChain) Find(args *CanDrawPathArgs, allowSoftware bool, drawType DrawType) PathRenderer {
	minSupport := StencilNoSupport
	switch drawType {
	case DrawTypeStencil:
		minSupport = StencilOnly
	case DrawTypeStencilAndColor:
		minSupport = StencilNoRestriction
	}
	last := len(c.renderers) - 1
	for i, pr := range c.renderers {
		if i == last && !allowSoftware {
			break
		}
		if minSupport != StencilNoSupport && pr.StencilSupport(args.Shape) < minSupport {
			continue
		}
		if pr.CanDrawPath(args) {
			return pr
		}
	}
	return nil
}

func tessContours(cs []Contour) [][]tess.Point {
	out := make([][]tess.Point, len(cs))
	for i, c := range cs {
		pts := make([]tess.Point, len(c.Points))
		for j, p := range c.Points {
			pts[j] = tess.Point{X: p.X, Y: p.Y}
		}
		out[i] = pts
	}
	return out
}

func fromTess(pts []tess.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}

func rasterContours(cs [][]tess.Point) [][]raster.Point {
	out := make([][]raster.Point, len(cs))
	for i, c := range cs {
		pts := make([]raster.Point, len(c))
		for j, p := range c {
			pts[j] = raster.Point{X: p.X, Y: p.Y}
		}
		out[i] = pts
	}
	return out
}
