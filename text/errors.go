package text

import "errors"

var (
	// ErrNoFont is returned when laying out text without a font.
	ErrNoFont = errors.New("text: no font")

	// ErrAtlasFull is returned when a glyph does not fit in any atlas page.
	ErrAtlasFull = errors.New("text: glyph atlas full")
)
