// Package text lays out strings as glyph quads for the atlas text batch.
//
// A string is split into bidi runs (golang.org/x/text/unicode/bidi), each
// run is shaped with HarfBuzz (github.com/go-text/typesetting/shaping), and
// every inked glyph is placed in a GlyphAtlas. The result is a list of
// positioned quads with atlas texture coordinates.
//
// Rasterizing glyph images into the atlas belongs to the backend; this
// package only reserves their regions.
package text
