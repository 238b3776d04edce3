package gr

import (
	"encoding/binary"
	"hash/fnv"
	"image"
	"math"
	"slices"

	"github.com/gogpu/gr/internal/cache"
	"github.com/gogpu/gr/internal/raster"
	"github.com/gogpu/gr/internal/tess"
)

// SoftwarePathRenderer rasterizes any shape into a coverage mask on the
// CPU and composites it. It accepts every shape and is always the last
// renderer in a chain.
type SoftwarePathRenderer struct{}

func (SoftwarePathRenderer) Name() string { return "software" }

func (SoftwarePathRenderer) CanDrawPath(*CanDrawPathArgs) bool { return true }

func (SoftwarePathRenderer) StencilSupport(*Shape) StencilSupport { return StencilNoSupport }

func (SoftwarePathRenderer) DrawPath(a *DrawPathArgs) bool {
	rt := a.Context.rt
	clipBounds := a.Clip.ConservativeBounds(rt.width, rt.height)
	if clipBounds.IsEmpty() {
		return true
	}

	paint := a.Paint
	shape := *a.Shape
	var contours [][]tess.Point
	if cov, ok := hairlineCoverage(shape.Style(), a.ViewMatrix); ok && !shape.Style().IsFill() {
		quads := deviceHairlineQuads(&shape, a.ViewMatrix)
		for i := 0; i+5 < len(quads); i += 6 {
			q := quads[i : i+6]
			contours = append(contours, []tess.Point{
				{X: q[0].X, Y: q[0].Y}, {X: q[1].X, Y: q[1].Y},
				{X: q[2].X, Y: q[2].Y}, {X: q[5].X, Y: q[5].Y},
			})
		}
		if cov < 1 {
			c := paint.Color()
			paint = paint.WithColor(c.WithAlpha(c.A * cov))
		}
		shape = NewShapeFromPath(NewPath(), SimpleFill())
	} else {
		if shape.Style().Applies() {
			shape = shape.ApplyStyle(ApplyPathEffectAndStroke, styleScaleFactor(a.ViewMatrix))
		}
		contours = tessContours(shape.deviceContours(a.ViewMatrix))
	}

	inverse := shape.IsInverseFilled()
	devBounds := clipBounds
	if !inverse {
		var pts []Point
		for _, c := range contours {
			pts = append(pts, fromTess(c)...)
		}
		if len(pts) == 0 {
			return true
		}
		r, ok := boundsOf(pts).Outset(1, 1).RoundOut().Intersect(clipBounds)
		if !ok {
			return true
		}
		devBounds = r
	}

	rule := raster.FillRuleNonZero
	if shape.fillType().IsEvenOdd() {
		rule = raster.FillRuleEvenOdd
	}
	opts := raster.Options{Rule: rule, AntiAlias: a.AntiAlias || a.UseHWAA, Inverse: inverse}
	rect := image.Rect(devBounds.Left, devBounds.Top, devBounds.Right, devBounds.Bottom)
	mask := a.Context.manager.softwareMask(contours, rect, opts)
	return a.Context.drawBatch(paint, false, a.UserStencil, a.Clip, NewMaskBatch(mask))
}

// CacheStats counts the traffic of a drawing manager cache.
type CacheStats = cache.Stats

// maskKey identifies a rasterized mask by its device geometry and raster
// options. Masks are immutable once cached.
type maskKey struct {
	geometry uint64
	points   int
	bounds   image.Rectangle
	opts     raster.Options
}

func newMaskKey(contours [][]tess.Point, bounds image.Rectangle, opts raster.Options) maskKey {
	h := fnv.New64a()
	var buf [16]byte
	n := 0
	for _, c := range contours {
		for _, p := range c {
			binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
			binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
			_, _ = h.Write(buf[:])
		}
		n += len(c)
		// Contour boundaries change the fill even with the same points.
		binary.LittleEndian.PutUint64(buf[:8], uint64(len(c)))
		_, _ = h.Write(buf[:8])
	}
	return maskKey{geometry: h.Sum64(), points: n, bounds: bounds, opts: opts}
}

// cachedMask keeps the contours a mask was rasterized from, so a hash
// collision on the key is detected instead of reusing the wrong coverage.
type cachedMask struct {
	contours [][]tess.Point
	mask     *image.Alpha
}

// softwareMask rasterizes contours into a coverage mask, reusing a cached
// mask of the same geometry. contours must not be modified afterwards.
func (m *DrawingManager) softwareMask(contours [][]tess.Point, bounds image.Rectangle, opts raster.Options) *image.Alpha {
	if m == nil || m.masks == nil {
		return raster.Mask(rasterContours(contours), bounds, opts)
	}
	return m.lookupMask(newMaskKey(contours, bounds, opts), contours, bounds, opts)
}

func (m *DrawingManager) lookupMask(key maskKey, contours [][]tess.Point, bounds image.Rectangle, opts raster.Options) *image.Alpha {
	if e, ok := m.masks.Get(key); ok {
		if sameContours(e.contours, contours) {
			return e.mask
		}
		Logger().Debug("gr: mask cache key collision", "points", key.points, "bounds", bounds.String())
	}
	mask := raster.Mask(rasterContours(contours), bounds, opts)
	m.masks.Put(key, cachedMask{contours: contours, mask: mask})
	return mask
}

func sameContours(a, b [][]tess.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
