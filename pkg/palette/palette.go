package palette

import (
	"image/color"

	"github.com/willbeason/mandelspiral/pkg/escape"
)

const (
	// ColorsPerLeg is the length of each of the palette's three gradients.
	ColorsPerLeg = 30

	// Period is the number of iteration counts after which colors repeat.
	Period = 3 * ColorsPerLeg
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// DarkBlue is the default color of points in the set.
var DarkBlue = RGB{R: 0, G: 0, B: 102}

// Pack returns the color as 0x00RRGGBB.
func (c RGB) Pack() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Unpack is the inverse of Pack. Bits above the low 24 are ignored.
func Unpack(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

var _ color.Color = RGB{}

// A Palette colors evaluation results.
type Palette struct {
	// Set is the color for bounded points.
	Set RGB
}

// Default is the palette with dark blue set points.
var Default = Palette{Set: DarkBlue}

// Map returns the color for a result. Escape counts cycle through three
// gradients: red to green, green to blue, and blue to red.
func (p Palette) Map(r escape.Result) RGB {
	i, escaped := r.Iterations()
	if !escaped {
		return p.Set
	}

	i %= Period
	leg := i / ColorsPerLeg
	remainder := i % ColorsPerLeg

	value1 := uint8((ColorsPerLeg - remainder) * 255 / ColorsPerLeg)
	value2 := uint8(remainder * 255 / ColorsPerLeg)

	switch leg {
	case 0:
		return RGB{R: value1, G: value2}
	case 1:
		return RGB{G: value1, B: value2}
	default:
		return RGB{R: value2, B: value1}
	}
}

// Map colors a result with the Default palette.
func Map(r escape.Result) RGB {
	return Default.Map(r)
}
