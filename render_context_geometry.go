package gr

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gr/text"
)

// Vertices describes caller-supplied geometry for DrawVertices. TexCoords,
// Colors and Indices are optional; when set, TexCoords and Colors have one
// entry per position.
type Vertices struct {
	Topology  gputypes.PrimitiveTopology
	Positions []Point
	TexCoords []Point
	Colors    []gputypes.Color
	Indices   []uint16
}

func (v *Vertices) valid() bool {
	n := len(v.Positions)
	if n == 0 {
		return false
	}
	if (v.TexCoords != nil && len(v.TexCoords) != n) || (v.Colors != nil && len(v.Colors) != n) {
		return false
	}
	for _, i := range v.Indices {
		if int(i) >= n {
			return false
		}
	}
	return true
}

func isLineOrPointTopology(t gputypes.PrimitiveTopology) bool {
	switch t {
	case gputypes.PrimitiveTopologyPointList, gputypes.PrimitiveTopologyLineList, gputypes.PrimitiveTopologyLineStrip:
		return true
	}
	return false
}

// DrawVertices draws v. Non-finite positions drop the draw.
func (rc *RenderContext) DrawVertices(clip Clip, paint Paint, m Matrix, v Vertices) {
	if !rc.begin() {
		return
	}
	defer rc.end()

	if !v.valid() {
		Logger().Debug("gr: drawVertices with invalid vertex data", "positions", len(v.Positions))
		return
	}
	local := boundsOf(v.Positions)
	if !local.IsFinite() {
		Logger().Debug("gr: drawVertices with non-finite bounds")
		return
	}
	bounds := m.MapRect(local)
	// Lines and points are a pixel wide; non-AA draws snap.
	if !paint.AntiAlias() || isLineOrPointTopology(v.Topology) {
		bounds = bounds.Outset(0.5, 0.5)
	}

	b := NewVerticesBatch(m, v.Topology, v.Positions)
	b.bounds = bounds
	b.TexCoords = v.TexCoords
	b.Colors = v.Colors
	b.Indices = v.Indices
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, b)
}

// DrawAtlas draws one sprite per transform: the texture rect texRects[i]
// placed by xforms[i]. colors is optional.
func (rc *RenderContext) DrawAtlas(clip Clip, paint Paint, m Matrix, xforms []RSXform, texRects []Rect, colors []gputypes.Color) {
	if !rc.begin() {
		return
	}
	defer rc.end()

	n := len(xforms)
	if n == 0 || len(texRects) != n || (colors != nil && len(colors) != n) {
		return
	}
	var local Rect
	for i, x := range xforms {
		sprite := RectWH(texRects[i].Width(), texRects[i].Height())
		q := x.Matrix().MapRectToQuad(sprite)
		r := boundsOf(q[:])
		if i == 0 {
			local = r
		} else {
			local = local.Join(r)
		}
	}
	if !local.IsFinite() {
		return
	}

	b := &AtlasBatch{
		batchBase:  batchBase{kind: BatchAtlas, bounds: m.MapRect(local)},
		ViewMatrix: m,
		Xforms:     xforms,
		TexRects:   texRects,
		Colors:     colors,
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, b)
}

// DrawImageNine stretches an imageWidth x imageHeight image into dst so
// that the parts outside center keep their size. The draw is never
// antialiased.
func (rc *RenderContext) DrawImageNine(clip Clip, paint Paint, m Matrix, imageWidth, imageHeight int, center IRect, dst Rect) {
	if !rc.begin() {
		return
	}
	defer rc.end()

	if center.IsEmpty() || !IRectWH(imageWidth, imageHeight).Contains(center) {
		Logger().Debug("gr: drawImageNine with invalid center", "center", center)
		return
	}
	if dst.IsEmpty() || !dst.IsFinite() {
		return
	}
	b := &NinePatchBatch{
		batchBase:   batchBase{kind: BatchNinePatch, bounds: m.MapRect(dst)},
		ViewMatrix:  m,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		Center:      center,
		Dst:         dst,
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, b)
}

// DrawText shapes s with font f at size and draws it with its baseline
// origin at (x, y).
func (rc *RenderContext) DrawText(clip Clip, paint Paint, m Matrix, f *text.Font, size float64, s string, x, y float64) {
	if !rc.begin() {
		return
	}
	defer rc.end()

	if rc.text == nil {
		rc.text = text.NewContext(rc.manager.glyphAtlas())
	}
	quads, err := rc.text.Layout(s, f, size, x, y)
	if err != nil {
		Logger().Debug("gr: text layout failed", "err", err)
	}
	if len(quads) == 0 {
		return
	}
	x0, y0, x1, y1, ok := text.Bounds(quads)
	if !ok {
		return
	}
	b := &TextBatch{
		batchBase:    batchBase{kind: BatchText, bounds: m.MapRect(RectLTRB(x0, y0, x1, y1))},
		ViewMatrix:   m,
		Quads:        quads,
		GammaCorrect: rc.props.GammaCorrect,
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, b)
}

// DrawBatch records a batch built by the caller. The pipeline state of b
// is filled in from paint and clip.
func (rc *RenderContext) DrawBatch(clip Clip, paint Paint, b Batch) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if b == nil {
		return
	}
	rc.drawBatch(paint, rc.mustUseHWAA(paint), nil, clip, b)
}
