package render

import (
	"github.com/willbeason/mandelspiral/pkg/escape"
	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/palette"
	"github.com/willbeason/mandelspiral/pkg/spiral"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

// Settings are the render options which survive zooming.
type Settings struct {
	// Bailout caps iterations per point. Zero means no cap.
	Bailout int

	// Julia selects Julia mode with this constant. Nil is Mandelbrot mode.
	Julia *geometry.XY

	Palette palette.Palette
}

// Params returns the evaluation parameters for a viewport, using a quarter
// pixel as the cycle threshold.
func (s Settings) Params(v viewport.Viewport) escape.Params {
	return escape.Params{
		Threshold: v.Threshold(),
		Bailout:   s.Bailout,
		Julia:     s.Julia,
	}
}

// Pixel is one rendered pixel.
type Pixel struct {
	geometry.Pixel
	Color palette.RGB
}

// A Pass renders one viewport a pixel at a time in spiral order from the
// center. It is abandoned by calling Abort, or by simply dropping it.
type Pass struct {
	viewport viewport.Viewport
	params   escape.Params
	palette  palette.Palette

	cells   *spiral.Cells
	aborted bool
}

func NewPass(v viewport.Viewport, s Settings) *Pass {
	return &Pass{
		viewport: v,
		params:   s.Params(v),
		palette:  s.Palette,
		cells:    spiral.NewCells(v.Height, v.Width),
	}
}

// Next computes the next pixel. It returns false once every pixel has been
// produced or the pass was aborted.
func (p *Pass) Next() (Pixel, bool) {
	if p.aborted {
		return Pixel{}, false
	}

	cell, ok := p.cells.Next()
	if !ok {
		return Pixel{}, false
	}

	result := escape.Evaluate(p.viewport.At(cell), p.params)

	return Pixel{Pixel: cell, Color: p.palette.Map(result)}, true
}

// Abort stops the pass. Pixels not yet produced are never computed.
func (p *Pass) Abort() {
	p.aborted = true
}

// Done reports whether the pass produced every pixel.
func (p *Pass) Done() bool {
	return p.cells.Remaining() == 0
}

func (p *Pass) Aborted() bool {
	return p.aborted
}

// Produced is the number of pixels computed so far.
func (p *Pass) Produced() int {
	return p.cells.Produced()
}

func (p *Pass) Viewport() viewport.Viewport {
	return p.viewport
}

// Fill runs the pass to completion, writing every pixel into b.
func (p *Pass) Fill(b *Buffer) {
	for {
		px, ok := p.Next()
		if !ok {
			return
		}
		b.Set(px.Pixel, px.Color)
	}
}
