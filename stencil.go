package gr

import "github.com/gogpu/gputypes"

// StencilSettings is a user stencil configuration. A draw carrying user
// stencil settings tests or writes the stencil buffer itself, which limits
// which path renderers can serve it.
type StencilSettings struct {
	Front, Back gputypes.StencilFaceState
	Reference   uint32
	ReadMask    uint32
	WriteMask   uint32
}

func stencilFace(cmp gputypes.CompareFunction, pass gputypes.StencilOperation) gputypes.StencilFaceState {
	return gputypes.StencilFaceState{
		Compare:     cmp,
		FailOp:      gputypes.StencilOperationKeep,
		DepthFailOp: gputypes.StencilOperationKeep,
		PassOp:      pass,
	}
}

// Stencil passes used by stencil-then-cover path rendering.
var (
	// StencilNonZeroFill counts winding: front faces increment, back faces
	// decrement.
	StencilNonZeroFill = StencilSettings{
		Front:     stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationIncrementWrap),
		Back:      stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationDecrementWrap),
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}

	// StencilEvenOddFill inverts on every triangle so odd crossings are
	// nonzero.
	StencilEvenOddFill = StencilSettings{
		Front:     stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationInvert),
		Back:      stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationInvert),
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}

	// StencilDirect replaces the stencil value with the reference wherever
	// the geometry lands. Used to stencil shapes that need a single pass.
	StencilDirect = StencilSettings{
		Front:     stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationReplace),
		Back:      stencilFace(gputypes.CompareFunctionAlways, gputypes.StencilOperationReplace),
		Reference: 0xFF,
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}

	// StencilCover passes where stencil is nonzero and resets it to zero.
	StencilCover = StencilSettings{
		Front:     stencilFace(gputypes.CompareFunctionNotEqual, gputypes.StencilOperationZero),
		Back:      stencilFace(gputypes.CompareFunctionNotEqual, gputypes.StencilOperationZero),
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}

	// StencilInverseCover passes where stencil is zero and clears any
	// nonzero values it fails on.
	StencilInverseCover = StencilSettings{
		Front: gputypes.StencilFaceState{
			Compare:     gputypes.CompareFunctionEqual,
			FailOp:      gputypes.StencilOperationZero,
			DepthFailOp: gputypes.StencilOperationKeep,
			PassOp:      gputypes.StencilOperationKeep,
		},
		Back: gputypes.StencilFaceState{
			Compare:     gputypes.CompareFunctionEqual,
			FailOp:      gputypes.StencilOperationZero,
			DepthFailOp: gputypes.StencilOperationKeep,
			PassOp:      gputypes.StencilOperationKeep,
		},
		ReadMask:  0xFF,
		WriteMask: 0xFF,
	}
)

// clipStencilBit is the stencil bit reserved for the clip.
const clipStencilBit = 0x80

// depthStencilState builds the pipeline state for s on a stencil
// attachment of the given format. The clip bit is masked out of user
// stencil reads and writes when a stencil clip is active.
func (s *StencilSettings) depthStencilState(format gputypes.TextureFormat, clipActive bool) *gputypes.DepthStencilState {
	if s == nil {
		return nil
	}
	ds := &gputypes.DepthStencilState{
		Format:           format,
		DepthCompare:     gputypes.CompareFunctionAlways,
		StencilFront:     s.Front,
		StencilBack:      s.Back,
		StencilReadMask:  s.ReadMask,
		StencilWriteMask: s.WriteMask,
	}
	if clipActive {
		ds.StencilReadMask &^= clipStencilBit
		ds.StencilWriteMask &^= clipStencilBit
	}
	return ds
}

// clipStencilState tests only the clip bit.
func clipStencilState(format gputypes.TextureFormat) *gputypes.DepthStencilState {
	face := stencilFace(gputypes.CompareFunctionEqual, gputypes.StencilOperationKeep)
	return &gputypes.DepthStencilState{
		Format:           format,
		DepthCompare:     gputypes.CompareFunctionAlways,
		StencilFront:     face,
		StencilBack:      face,
		StencilReadMask:  clipStencilBit,
		StencilWriteMask: 0,
	}
}
