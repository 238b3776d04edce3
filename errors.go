package gr

import "errors"

var (
	// ErrNilCaps is returned when a constructor is given nil caps.
	ErrNilCaps = errors.New("gr: caps must not be nil")

	// ErrInvalidRenderTarget is returned when a render target description
	// cannot be satisfied.
	ErrInvalidRenderTarget = errors.New("gr: invalid render target")

	// ErrAbandoned is returned by Flush after the manager was abandoned.
	ErrAbandoned = errors.New("gr: drawing manager abandoned")

	// ErrOwnerMismatch is returned when a render context is requested
	// without a valid owner token.
	ErrOwnerMismatch = errors.New("gr: owner token does not match drawing manager")

	// ErrInvalidState is returned by RenderContext.Validate when the
	// context's recording state is inconsistent.
	ErrInvalidState = errors.New("gr: invalid render context state")

	// ErrRecordingClosed is returned when appending to a closed recording
	// target.
	ErrRecordingClosed = errors.New("gr: recording target is closed")
)
