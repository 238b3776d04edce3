package gr

import "github.com/gogpu/gputypes"

// InstancedShape is a shape the instanced facility can record.
type InstancedShape int

const (
	InstancedRect InstancedShape = iota
	InstancedOval
	InstancedRRect
	InstancedDRRect
)

// InstancedAAMode is the anti-aliasing an instanced batch uses.
type InstancedAAMode int

const (
	InstancedAANone InstancedAAMode = iota
	InstancedAACoverage
	InstancedAAMSAA
)

// InstancedPipelineInfo describes the target an instanced draw lands on.
type InstancedPipelineInfo struct {
	UnifiedMSAA  bool
	MixedSampled bool
	StencilMSAA  bool
}

func instancedInfo(rt *RenderTarget) InstancedPipelineInfo {
	return InstancedPipelineInfo{
		UnifiedMSAA:  rt.IsUnifiedMultisampled(),
		MixedSampled: rt.IsMixedSampled(),
		StencilMSAA:  rt.IsStencilBufferMultisampled(),
	}
}

// InstancedRequest is one shape offered to the instanced facility.
type InstancedRequest struct {
	Shape       InstancedShape
	Rect        Rect
	RRect       RRect
	Inner       RRect
	ViewMatrix  Matrix
	LocalRect   *Rect
	LocalMatrix *Matrix
	Color       gputypes.Color
	AntiAlias   bool
	Info        InstancedPipelineInfo
}

// InstancedRendering records shapes as instances of a shared geometry.
// Record returns nil when the request cannot be served; the caller then
// falls through to the specialized batches.
type InstancedRendering interface {
	Record(req InstancedRequest) *InstancedBatch
}

// UsesHWAA reports whether the batch relies on multisampling.
func (b *InstancedBatch) UsesHWAA() bool { return b.AAMode == InstancedAAMSAA }

type defaultInstanced struct{}

var _ InstancedRendering = defaultInstanced{}

func (defaultInstanced) Record(req InstancedRequest) *InstancedBatch {
	mode := InstancedAANone
	if req.AntiAlias {
		switch {
		case req.Info.UnifiedMSAA:
			mode = InstancedAAMSAA
		case req.Info.MixedSampled:
			return nil
		case !req.ViewMatrix.PreservesRightAngles():
			return nil
		default:
			mode = InstancedAACoverage
		}
	}
	if req.LocalMatrix != nil {
		if _, ok := req.LocalMatrix.Invert(); !ok {
			return nil
		}
	}

	var local Rect
	switch req.Shape {
	case InstancedRect:
		local = req.Rect
	case InstancedOval:
		local = req.Rect
	case InstancedRRect:
		if req.RRect.Type() == RRectComplex {
			return nil
		}
		local = req.RRect.Rect()
	case InstancedDRRect:
		if req.RRect.Type() == RRectComplex || req.Inner.Type() == RRectComplex {
			return nil
		}
		if !req.RRect.Rect().ContainsRect(req.Inner.Rect()) {
			return nil
		}
		local = req.RRect.Rect()
	default:
		return nil
	}
	if local.IsEmpty() || !local.IsFinite() {
		return nil
	}
	bounds := req.ViewMatrix.MapRect(local)
	if mode == InstancedAACoverage {
		bounds = bounds.Outset(0.5, 0.5)
	}
	return &InstancedBatch{
		batchBase:   batchBase{kind: BatchInstanced, bounds: bounds},
		Shape:       req.Shape,
		ViewMatrix:  req.ViewMatrix,
		Rect:        req.Rect,
		RRect:       req.RRect,
		Inner:       req.Inner,
		LocalRect:   req.LocalRect,
		LocalMatrix: req.LocalMatrix,
		Color:       req.Color,
		AAMode:      mode,
	}
}
