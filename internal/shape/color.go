package shape

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/cockroachdb/errors"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a non-premultiplied RGBA colour packed as 0xRRGGBBAA, the form
// uploaded to the colour attribute.
type Color uint32

// RGBA packs the four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// ParseColor parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	alpha := uint64(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return 0, errors.Wrapf(err, "colour %q", s)
		}
		alpha, s = a, s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, errors.Wrapf(err, "colour %q", s)
	}
	r, g, b := c.RGB255()
	return RGBA(r, g, b, uint8(alpha)), nil
}

// MustParseColor is ParseColor for constants; it panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA returns the colour as a color.NRGBA.
func (c Color) RGBA() color.NRGBA {
	return color.NRGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

// Hex returns "#rrggbbaa".
func (c Color) Hex() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// Colorful returns the RGB part of the colour as a colorful.Color.
func (c Color) Colorful() colorful.Color {
	n := c.RGBA()
	return colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
