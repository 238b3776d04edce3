package gr

// DrawRRect draws a rounded rect with style.
func (rc *RenderContext) DrawRRect(clip Clip, paint Paint, m Matrix, rr RRect, style Style) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	rc.drawRRect(clip, paint, m, rr, style)
}

func (rc *RenderContext) drawRRect(clip Clip, paint Paint, m Matrix, rr RRect, style Style) {
	if clip == nil {
		clip = NoClip{}
	}
	if rr.IsEmpty() {
		return
	}
	if style.HasPathEffect() {
		rc.internalDrawPath(clip, paint, m, NewShapeFromPath(PathFromRRect(rr, DirectionCW), style))
		return
	}

	if style.IsSimpleFill() {
		if ir := rc.instancedRendering(); ir != nil {
			b := ir.Record(InstancedRequest{
				Shape:      InstancedRRect,
				Rect:       rr.Rect(),
				RRect:      rr,
				ViewMatrix: m,
				Color:      paint.Color(),
				AntiAlias:  paint.AntiAlias(),
				Info:       instancedInfo(rc.rt),
			})
			if b != nil {
				rc.drawBatch(paint, b.UsesHWAA(), nil, clip, b)
				return
			}
		}
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA {
		if b := newRRectBatch(m, rr, style); b != nil {
			rc.drawBatch(paint, useHWAA, nil, clip, b)
			return
		}
	}
	rc.internalDrawPath(clip, paint, m, NewShapeFromPath(PathFromRRect(rr, DirectionCW), style))
}

// DrawOval draws the oval inscribed in oval with style. An empty oval is
// drawn as the rect it degenerates to, unless it is filled.
func (rc *RenderContext) DrawOval(clip Clip, paint Paint, m Matrix, oval Rect, style Style) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}

	if oval.IsEmpty() && !style.HasPathEffect() {
		if style.IsFill() {
			return
		}
		rc.drawRect(clip, paint, m, oval, &style)
		return
	}

	if style.IsSimpleFill() {
		if ir := rc.instancedRendering(); ir != nil {
			b := ir.Record(InstancedRequest{
				Shape:      InstancedOval,
				Rect:       oval,
				ViewMatrix: m,
				Color:      paint.Color(),
				AntiAlias:  paint.AntiAlias(),
				Info:       instancedInfo(rc.rt),
			})
			if b != nil {
				rc.drawBatch(paint, b.UsesHWAA(), nil, clip, b)
				return
			}
		}
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA {
		if b := newOvalBatch(m, oval, style); b != nil {
			rc.drawBatch(paint, useHWAA, nil, clip, b)
			return
		}
	}
	rc.internalDrawPath(clip, paint, m, NewShapeFromPath(PathFromOval(oval, DirectionCW), style))
}

// DrawDRRect fills the region inside outer and outside inner. inner must
// lie inside outer.
func (rc *RenderContext) DrawDRRect(clip Clip, paint Paint, m Matrix, outer, inner RRect) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}
	if outer.IsEmpty() {
		return
	}
	if inner.IsEmpty() {
		rc.drawRRect(clip, paint, m, outer, SimpleFill())
		return
	}
	if rc.drawFilledDRRect(clip, paint, m, outer, inner) {
		return
	}

	path := NewPath()
	path.AddRRect(inner, DirectionCW)
	path.AddRRect(outer, DirectionCW)
	path.SetFillType(FillEvenOdd)
	rc.internalDrawPath(clip, paint, m, NewShapeFromPath(path, SimpleFill()))
}

// drawFilledDRRect draws the ring as a device-space rect with two rounded
// rect coverage effects. It returns false when the rounded rects do not
// survive the view matrix.
func (rc *RenderContext) drawFilledDRRect(clip Clip, paint Paint, m Matrix, outer, inner RRect) bool {
	if ir := rc.instancedRendering(); ir != nil {
		b := ir.Record(InstancedRequest{
			Shape:      InstancedDRRect,
			Rect:       outer.Rect(),
			RRect:      outer,
			Inner:      inner,
			ViewMatrix: m,
			Color:      paint.Color(),
			AntiAlias:  paint.AntiAlias(),
			Info:       instancedInfo(rc.rt),
		})
		if b != nil {
			rc.drawBatch(paint, b.UsesHWAA(), nil, clip, b)
			return true
		}
	}

	applyAA := paint.AntiAlias() && !rc.rt.IsUnifiedMultisampled()
	innerEdge, outerEdge := EdgeInverseFillBW, EdgeFillBW
	if applyAA {
		innerEdge, outerEdge = EdgeInverseFillAA, EdgeFillAA
	}

	inverseVM := Identity()
	if !m.IsIdentity() {
		var ok bool
		if inner, ok = inner.Transform(m); !ok {
			return false
		}
		if outer, ok = outer.Transform(m); !ok {
			return false
		}
		if inverseVM, ok = m.Invert(); !ok {
			return false
		}
	}

	ie, ok := NewRRectEffect(innerEdge, inner)
	if !ok {
		return false
	}
	oe, ok := NewRRectEffect(outerEdge, outer)
	if !ok {
		return false
	}
	p := paint.WithAntiAlias(false).WithCoverage(ie, oe)

	bounds := outer.Rect()
	if applyAA {
		bounds = bounds.Outset(0.5, 0.5)
	}
	rc.fillRectWithLocalMatrix(clip, p, Identity(), bounds, inverseVM)
	return true
}

// DrawPath draws path with style.
func (rc *RenderContext) DrawPath(clip Clip, paint Paint, m Matrix, path *Path, style Style) {
	if !rc.begin() {
		return
	}
	defer rc.end()
	if clip == nil {
		clip = NoClip{}
	}
	if path == nil {
		return
	}
	if path.IsEmpty() {
		if path.IsInverseFill() {
			rc.drawPaint(clip, paint, m)
		}
		return
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	if coverageAA && !style.HasPathEffect() {
		if style.IsSimpleFill() && !path.IsConvex() {
			if rects, ok := NewShapeFromPath(path, style).AsNestedRects(m); ok {
				if b := newNestedRectsBatch(m, rects); b != nil {
					rc.drawBatch(paint, useHWAA, nil, clip, b)
				}
				return
			}
		}
		if oval, _, ok := path.IsOval(); ok && !path.IsInverseFill() {
			if b := newOvalBatch(m, oval, style); b != nil {
				rc.drawBatch(paint, useHWAA, nil, clip, b)
				return
			}
		}
	}
	rc.internalDrawPath(clip, paint, m, NewShapeFromPath(path, style))
}

// internalDrawPath draws shape through the path renderer chain. The chain
// is asked first for the shape as styled, then with the path effect
// applied, then with the whole style applied and the software renderer
// allowed.
func (rc *RenderContext) internalDrawPath(clip Clip, paint Paint, m Matrix, shape Shape) {
	if shape.IsEmpty() {
		if shape.IsInverseFilled() {
			rc.drawPaint(clip, paint, m)
		}
		return
	}

	useHWAA, coverageAA := rc.aaMode(paint)
	args := &CanDrawPathArgs{
		ShaderCaps:          rc.manager.caps.ShaderCaps(),
		ViewMatrix:          m,
		Shape:               &shape,
		AntiAlias:           coverageAA,
		IsStencilBufferMSAA: rc.rt.IsStencilBufferMultisampled(),
		HasStencil:          rc.rt.HasStencil(),
	}
	styleScale := styleScaleFactor(m)

	pr := rc.manager.FindPathRenderer(args, false, DrawTypeColor)
	if pr == nil && shape.Style().HasPathEffect() {
		shape = shape.ApplyStyle(ApplyPathEffectOnly, styleScale)
		if shape.IsEmpty() {
			return
		}
		pr = rc.manager.FindPathRenderer(args, false, DrawTypeColor)
	}
	if pr == nil {
		if shape.Style().Applies() {
			shape = shape.ApplyStyle(ApplyPathEffectAndStroke, styleScale)
			if shape.IsEmpty() {
				return
			}
		}
		pr = rc.manager.FindPathRenderer(args, true, DrawTypeColor)
	}
	if pr == nil {
		Logger().Debug("gr: no path renderer accepts the shape")
		return
	}

	pr.DrawPath(&DrawPathArgs{
		Context:    rc,
		Paint:      paint,
		Clip:       clip,
		ViewMatrix: m,
		Shape:      &shape,
		AntiAlias:  coverageAA,
		UseHWAA:    useHWAA,
	})
}
