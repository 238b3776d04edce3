// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gr

import (
	"image"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr/text"
)

// BatchKind identifies a batch variant.
type BatchKind int

const (
	BatchClear BatchKind = iota
	BatchDiscard
	BatchClearStencilClip
	BatchNonAAFillRect
	BatchAAFillRect
	BatchNonAAStrokeRect
	BatchAAStrokeRect
	BatchAAFillNestedRects
	BatchOval
	BatchRRect
	BatchVertices
	BatchAtlas
	BatchNinePatch
	BatchText
	BatchInstanced
	BatchStencilPath
	BatchCover
	BatchConvexPath
	BatchHairline
	BatchDashLine
	BatchMask
)

var batchKindNames = [...]string{
	BatchClear:             "clear",
	BatchDiscard:           "discard",
	BatchClearStencilClip:  "clear_stencil_clip",
	BatchNonAAFillRect:     "nonaa_fill_rect",
	BatchAAFillRect:        "aa_fill_rect",
	BatchNonAAStrokeRect:   "nonaa_stroke_rect",
	BatchAAStrokeRect:      "aa_stroke_rect",
	BatchAAFillNestedRects: "aa_fill_nested_rects",
	BatchOval:              "oval",
	BatchRRect:             "rrect",
	BatchVertices:          "vertices",
	BatchAtlas:             "atlas",
	BatchNinePatch:         "nine_patch",
	BatchText:              "text",
	BatchInstanced:         "instanced",
	BatchStencilPath:       "stencil_path",
	BatchCover:             "cover",
	BatchConvexPath:        "convex_path",
	BatchHairline:          "hairline",
	BatchDashLine:          "dash_line",
	BatchMask:              "mask",
}

// String returns the batch kind name.
func (k BatchKind) String() string {
	if k >= 0 && int(k) < len(batchKindNames) {
		return batchKindNames[k]
	}
	return "unknown"
}

// ProgramKey returns the name of the GPU program that executes batches of
// this kind. Load-op batches (clear, discard) and stencil clears have no
// program and return "".
func (k BatchKind) ProgramKey() string {
	switch k {
	case BatchClear, BatchDiscard, BatchClearStencilClip:
		return ""
	case BatchNonAAFillRect, BatchNonAAStrokeRect, BatchStencilPath, BatchCover, BatchConvexPath, BatchVertices:
		return "solid"
	case BatchAAFillRect, BatchAAStrokeRect, BatchAAFillNestedRects, BatchHairline, BatchDashLine:
		return "coverage"
	case BatchOval, BatchRRect, BatchInstanced:
		return "analytic_shape"
	case BatchAtlas, BatchNinePatch, BatchText, BatchMask:
		return "textured"
	}
	return ""
}

// PipelineState is the fixed-function state a batch is drawn with. It is
// filled in from the paint and clip when the batch is recorded; Topology
// and SnapToPixelCenters are set by the batch itself.
type PipelineState struct {
	Color       gputypes.Color
	Blend       gputypes.BlendState
	WriteMask   gputypes.ColorWriteMask
	Multisample gputypes.MultisampleState
	Topology    gputypes.PrimitiveTopology

	// HWAA is set when the draw relies on multisample rasterization for
	// anti-aliasing.
	HWAA bool

	// SnapToPixelCenters offsets vertices to pixel centers (non-MSAA
	// hairline rects).
	SnapToPixelCenters bool

	// Stencil is the user, path-rendering or clip stencil state, nil when
	// the draw does not touch the stencil buffer.
	Stencil          *gputypes.DepthStencilState
	StencilReference uint32

	// ClipStencil reports that the stencil clip bit is tested.
	ClipStencil bool

	// Scissor restricts rasterization, nil for the whole target.
	Scissor *IRect

	// Coverage holds paint and clip coverage effects, paint first.
	Coverage []CoverageEffect
}

// Batch is an immutable unit of recorded GPU work.
type Batch interface {
	// Kind returns the batch variant.
	Kind() BatchKind

	// Bounds returns the device-space bounds the batch may touch.
	Bounds() Rect

	// Pipeline returns the pipeline state the batch was recorded with.
	Pipeline() *PipelineState

	state() *batchBase
}

type batchBase struct {
	kind     BatchKind
	bounds   Rect
	pipeline PipelineState
}

func (b *batchBase) Kind() BatchKind          { return b.kind }
func (b *batchBase) Bounds() Rect             { return b.bounds }
func (b *batchBase) Pipeline() *PipelineState { return &b.pipeline }
func (b *batchBase) state() *batchBase        { return b }

// ClearBatch clears a pixel rect of the target to a color.
type ClearBatch struct {
	batchBase
	Rect  IRect
	Color gputypes.Color
	// FullTarget reports that Rect covers the whole target, allowing the
	// clear to be folded into the render pass load op.
	FullTarget bool
}

func newClearBatch(r IRect, c gputypes.Color, full bool) *ClearBatch {
	return &ClearBatch{
		batchBase:  batchBase{kind: BatchClear, bounds: r.Rect()},
		Rect:       r,
		Color:      c,
		FullTarget: full,
	}
}

// LoadOp returns the load op the batch maps to when it is the first work
// on its target.
func (b *ClearBatch) LoadOp() gputypes.LoadOp {
	if b.FullTarget {
		return gputypes.LoadOpClear
	}
	return gputypes.LoadOpLoad
}

// DiscardBatch marks the target contents as undefined.
type DiscardBatch struct {
	batchBase
}

// StoreOp returns the store op for the discarded contents.
func (*DiscardBatch) StoreOp() gputypes.StoreOp { return gputypes.StoreOpDiscard }

// ClearStencilClipBatch sets or clears the clip bit of the stencil buffer
// within Rect.
type ClearStencilClipBatch struct {
	batchBase
	Rect       IRect
	InsideClip bool
}

// FillRectBatch fills a rect under a view matrix, with or without coverage
// AA. LocalRect and LocalMatrix, when set, define local coordinates.
type FillRectBatch struct {
	batchBase
	ViewMatrix  Matrix
	Rect        Rect
	LocalRect   *Rect
	LocalMatrix *Matrix
}

// AntiAlias reports whether the batch computes coverage AA.
func (b *FillRectBatch) AntiAlias() bool { return b.kind == BatchAAFillRect }

func newFillRectBatch(aa bool, m Matrix, r Rect, local *Rect, lm *Matrix) *FillRectBatch {
	kind := BatchNonAAFillRect
	bounds := m.MapRect(r)
	if aa {
		kind = BatchAAFillRect
		bounds = bounds.Outset(0.5, 0.5)
	}
	return &FillRectBatch{
		batchBase:   batchBase{kind: kind, bounds: bounds},
		ViewMatrix:  m,
		Rect:        r,
		LocalRect:   local,
		LocalMatrix: lm,
	}
}

// StrokeRectBatch strokes a rect. Width 0 is a hairline.
type StrokeRectBatch struct {
	batchBase
	ViewMatrix Matrix
	Rect       Rect
	Width      float64
	Join       Join
}

func newStrokeRectBatch(aa bool, m Matrix, r Rect, st Style, snap bool) *StrokeRectBatch {
	kind := BatchNonAAStrokeRect
	if aa {
		kind = BatchAAStrokeRect
	}
	hw := st.Width() / 2
	if hw == 0 {
		hw = 0.5
	}
	dev := m.MapRect(r.Outset(hw, hw))
	if st.IsHairline() || aa {
		dev = dev.Outset(0.5, 0.5)
	}
	join := st.Join()
	if join == JoinMiter && st.MiterLimit() < math.Sqrt2 {
		join = JoinBevel
	}
	b := &StrokeRectBatch{
		batchBase:  batchBase{kind: kind, bounds: dev},
		ViewMatrix: m,
		Rect:       r,
		Width:      st.Width(),
		Join:       join,
	}
	b.pipeline.SnapToPixelCenters = snap
	return b
}

// NestedRectsBatch fills the region between two rects with coverage AA.
type NestedRectsBatch struct {
	batchBase
	ViewMatrix Matrix
	Outer      Rect
	Inner      Rect
}

// OvalBatch draws a filled or stroked circle or axis-aligned ellipse with
// analytic coverage.
type OvalBatch struct {
	batchBase
	ViewMatrix Matrix
	Oval       Rect
	Style      Style
	Circle     bool
}

// RRectBatch draws a filled or stroked simple round rect with analytic
// coverage.
type RRectBatch struct {
	batchBase
	ViewMatrix Matrix
	RRect      RRect
	Style      Style
}

// VerticesBatch draws caller-supplied vertices.
type VerticesBatch struct {
	batchBase
	ViewMatrix Matrix
	Topology   gputypes.PrimitiveTopology
	Positions  []Point
	TexCoords  []Point
	Colors     []gputypes.Color
	Indices    []uint16
}

// RSXform is a rotation-scale plus translation: x' = SCos*x - SSin*y + Tx,
// y' = SSin*x + SCos*y + Ty.
type RSXform struct {
	SCos, SSin, Tx, Ty float64
}

// Matrix returns the transform as a Matrix.
func (x RSXform) Matrix() Matrix {
	return Matrix{A: x.SCos, B: -x.SSin, C: x.Tx, D: x.SSin, E: x.SCos, F: x.Ty}
}

// AtlasBatch draws sprites from a texture atlas.
type AtlasBatch struct {
	batchBase
	ViewMatrix Matrix
	Xforms     []RSXform
	TexRects   []Rect
	Colors     []gputypes.Color
}

// NinePatchBatch stretches an image so that its corners stay unscaled.
type NinePatchBatch struct {
	batchBase
	ViewMatrix  Matrix
	ImageWidth  int
	ImageHeight int
	Center      IRect
	Dst         Rect
}

// TextBatch draws positioned glyph quads from the glyph atlas.
type TextBatch struct {
	batchBase
	ViewMatrix   Matrix
	Quads        []text.Quad
	GammaCorrect bool
}

// InstancedBatch is produced by the instanced rendering facility.
type InstancedBatch struct {
	batchBase
	Shape       InstancedShape
	ViewMatrix  Matrix
	Rect        Rect
	RRect       RRect
	Inner       RRect
	LocalRect   *Rect
	LocalMatrix *Matrix
	Color       gputypes.Color
	AAMode      InstancedAAMode
}

// StencilPathBatch writes the winding of a tessellated path into the
// stencil buffer. Triangles holds three points per triangle in local
// coordinates.
type StencilPathBatch struct {
	batchBase
	ViewMatrix Matrix
	Triangles  []Point
	FillType   FillType
}

// CoverBatch covers Rect (local coordinates) testing the stencil written
// by a preceding StencilPathBatch.
type CoverBatch struct {
	batchBase
	ViewMatrix Matrix
	Rect       Rect
	Inverse    bool
}

// ConvexPathBatch fills a convex polygon fan, with coverage AA at edges
// when AntiAlias is set.
type ConvexPathBatch struct {
	batchBase
	ViewMatrix Matrix
	Triangles  []Point
	AntiAlias  bool
}

// HairlineBatch draws one-pixel-wide AA lines as device-space quads.
type HairlineBatch struct {
	batchBase
	Quads    []Point
	Coverage float64
}

// DashLineBatch draws the dashes of a single line segment.
type DashLineBatch struct {
	batchBase
	ViewMatrix Matrix
	Segments   [][2]Point
	Width      float64
	Cap        Cap
	AntiAlias  bool
}

// MaskBatch composites a CPU-rasterized coverage mask at Origin.
type MaskBatch struct {
	batchBase
	Origin image.Point
	Mask   *image.Alpha
}

var (
	_ Batch = (*ClearBatch)(nil)
	_ Batch = (*DiscardBatch)(nil)
	_ Batch = (*ClearStencilClipBatch)(nil)
	_ Batch = (*FillRectBatch)(nil)
	_ Batch = (*StrokeRectBatch)(nil)
	_ Batch = (*NestedRectsBatch)(nil)
	_ Batch = (*OvalBatch)(nil)
	_ Batch = (*RRectBatch)(nil)
	_ Batch = (*VerticesBatch)(nil)
	_ Batch = (*AtlasBatch)(nil)
	_ Batch = (*NinePatchBatch)(nil)
	_ Batch = (*TextBatch)(nil)
	_ Batch = (*InstancedBatch)(nil)
	_ Batch = (*StencilPathBatch)(nil)
	_ Batch = (*CoverBatch)(nil)
	_ Batch = (*ConvexPathBatch)(nil)
	_ Batch = (*HairlineBatch)(nil)
	_ Batch = (*DashLineBatch)(nil)
	_ Batch = (*MaskBatch)(nil)
)

// NewStencilPathBatch creates a stencil pass over fan triangles given in
// local coordinates.
func NewStencilPathBatch(m Matrix, triangles []Point, fill FillType) *StencilPathBatch {
	return &StencilPathBatch{
		batchBase:  batchBase{kind: BatchStencilPath, bounds: m.MapRect(boundsOf(triangles))},
		ViewMatrix: m,
		Triangles:  triangles,
		FillType:   fill,
	}
}

// NewCoverBatch creates a cover pass over r in local coordinates.
func NewCoverBatch(m Matrix, r Rect, inverse bool) *CoverBatch {
	return &CoverBatch{
		batchBase:  batchBase{kind: BatchCover, bounds: m.MapRect(r)},
		ViewMatrix: m,
		Rect:       r,
		Inverse:    inverse,
	}
}

// NewConvexPathBatch creates a convex fill from fan triangles in local
// coordinates.
func NewConvexPathBatch(m Matrix, triangles []Point, aa bool) *ConvexPathBatch {
	bounds := m.MapRect(boundsOf(triangles))
	if aa {
		bounds = bounds.Outset(0.5, 0.5)
	}
	return &ConvexPathBatch{
		batchBase:  batchBase{kind: BatchConvexPath, bounds: bounds},
		ViewMatrix: m,
		Triangles:  triangles,
		AntiAlias:  aa,
	}
}

// NewHairlineBatch creates a hairline batch from device-space quads.
func NewHairlineBatch(quads []Point, coverage float64) *HairlineBatch {
	return &HairlineBatch{
		batchBase: batchBase{kind: BatchHairline, bounds: boundsOf(quads)},
		Quads:     quads,
		Coverage:  coverage,
	}
}

// NewDashLineBatch creates a dashed line batch. Width 0 is a hairline.
func NewDashLineBatch(m Matrix, segments [][2]Point, width float64, c Cap, aa bool) *DashLineBatch {
	pts := make([]Point, 0, 2*len(segments))
	for _, s := range segments {
		pts = append(pts, s[0], s[1])
	}
	r := width / 2
	if c != CapButt {
		r *= math.Sqrt2
	}
	bounds := m.MapRect(boundsOf(pts).Outset(r, r))
	if aa || width == 0 {
		bounds = bounds.Outset(0.5, 0.5)
	}
	return &DashLineBatch{
		batchBase:  batchBase{kind: BatchDashLine, bounds: bounds},
		ViewMatrix: m,
		Segments:   segments,
		Width:      width,
		Cap:        c,
		AntiAlias:  aa,
	}
}

// NewMaskBatch creates a batch compositing a device-space coverage mask.
func NewMaskBatch(mask *image.Alpha) *MaskBatch {
	b := mask.Bounds()
	return &MaskBatch{
		batchBase: batchBase{kind: BatchMask, bounds: RectLTRB(float64(b.Min.X), float64(b.Min.Y), float64(b.Max.X), float64(b.Max.Y))},
		Origin:    b.Min,
		Mask:      mask,
	}
}

// NewVerticesBatch creates a vertices batch in local coordinates.
func NewVerticesBatch(m Matrix, topology gputypes.PrimitiveTopology, positions []Point) *VerticesBatch {
	b := &VerticesBatch{
		batchBase:  batchBase{kind: BatchVertices, bounds: m.MapRect(boundsOf(positions))},
		ViewMatrix: m,
		Topology:   topology,
		Positions:  positions,
	}
	b.pipeline.Topology = topology
	return b
}
