// Package font is the glyph lookup table the mesher consumes for text
// shapes. Glyphs come pre-rasterised in a single alpha texture.
package font

import (
	"image"

	"github.com/cockroachdb/errors"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrGlyphNotFound is returned for runes the atlas has no glyph for.
var ErrGlyphNotFound = errors.New("font: glyph not found")

// Glyph locates one character.
type Glyph struct {
	Rune rune
	// Bounds is the glyph box relative to the top-left of the line.
	Bounds image.Rectangle
	// Origin is the top-left corner of the glyph in the texture.
	Origin  image.Point
	Advance int
}

// Atlas maps runes to glyph boxes in a texture.
type Atlas struct {
	face *basicfont.Face
}

var _ xfont.Face = basicfont.Face7x13

// NewAtlas returns the atlas of the built-in 7x13 bitmap face.
func NewAtlas() *Atlas {
	return &Atlas{face: basicfont.Face7x13}
}

// Lookup returns the glyph for r.
func (a *Atlas) Lookup(r rune) (Glyph, error) {
	// Glyph substitutes U+FFFD for missing runes; absence is an error here.
	if !a.has(r) {
		return Glyph{}, errors.Wrapf(ErrGlyphNotFound, "%q", r)
	}
	dot := fixed.P(0, a.face.Ascent)
	dr, _, maskp, advance, ok := a.face.Glyph(dot, r)
	if !ok {
		return Glyph{}, errors.Wrapf(ErrGlyphNotFound, "%q", r)
	}
	return Glyph{Rune: r, Bounds: dr, Origin: maskp, Advance: advance.Round()}, nil
}

func (a *Atlas) has(r rune) bool {
	for _, rng := range a.face.Ranges {
		if rng.Low <= r && r < rng.High {
			return true
		}
	}
	return false
}

// LineHeight is the height of one line of text in pixels.
func (a *Atlas) LineHeight() int {
	return a.face.Ascent + a.face.Descent
}

// Texture returns the alpha texture holding every glyph.
func (a *Atlas) Texture() image.Image {
	return a.face.Mask
}

// TextureSize returns the texture dimensions used to normalise texture
// coordinates.
func (a *Atlas) TextureSize() image.Point {
	return a.face.Mask.Bounds().Size()
}
