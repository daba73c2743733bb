package render

import (
	"image"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/palette"
)

// Buffer is a row-major image of packed 24-bit colors.
type Buffer struct {
	Width, Height int
	Pix           []uint32
}

func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint32, width*height),
	}
}

func (b *Buffer) Set(p geometry.Pixel, c palette.RGB) {
	b.Pix[p.Index(b.Width)] = c.Pack()
}

func (b *Buffer) At(p geometry.Pixel) palette.RGB {
	return palette.Unpack(b.Pix[p.Index(b.Width)])
}

// Clear sets every pixel to black.
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// Image copies the buffer into an opaque RGBA image.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	b.CopyTo(img.Pix)
	return img
}

// CopyTo writes the buffer as 8-bit RGBA into dst, which must hold at least
// 4*Width*Height bytes.
func (b *Buffer) CopyTo(dst []byte) {
	for i, v := range b.Pix {
		j := i * 4
		dst[j+0] = uint8(v >> 16)
		dst[j+1] = uint8(v >> 8)
		dst[j+2] = uint8(v)
		dst[j+3] = 0xff
	}
}
