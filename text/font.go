package text

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/go-text/typesetting/font"
)

var fontIDs atomic.Uint64

// Font is a parsed font file. It is safe for concurrent use.
type Font struct {
	id   uint64
	font *font.Font
}

// ParseFont parses TrueType or OpenType data.
func ParseFont(data []byte) (*Font, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &Font{id: fontIDs.Add(1), font: face.Font}, nil
}

// ID returns a process-unique identifier used in glyph keys.
func (f *Font) ID() uint64 { return f.id }

// face returns a new face. Faces are not safe for concurrent use, so each
// shaping call gets its own.
func (f *Font) face() *font.Face { return font.NewFace(f.font) }
