package viewport

import (
	"errors"
	"fmt"
	"math"

	"github.com/willbeason/mandelspiral/pkg/geometry"
)

var ErrInvalidGeometry = errors.New("invalid viewport geometry")

// A Viewport maps a width by height pixel grid onto a square region of the
// plane. Build one with New; a zoom returns a new Viewport rather than
// modifying the old one.
type Viewport struct {
	// Width and Height are in pixels.
	Width, Height int

	CenterX, CenterY float64

	// HalfSpan is the distance from the center to each edge of the region.
	HalfSpan float64

	// ZoomLevel counts zoom-ins minus zoom-outs from the starting view.
	ZoomLevel int

	MinX, MaxX, MinY, MaxY float64

	// DeltaX and DeltaY are the plane width and height of one pixel.
	DeltaX, DeltaY float64
}

// New builds a Viewport. Width and height must be at least 1, the center
// must be finite, and halfSpan must be positive and small enough that every
// pixel still has a finite, non-zero size.
func New(width, height int, centerX, centerY, halfSpan float64, zoomLevel int) (Viewport, error) {
	if width < 1 || height < 1 {
		return Viewport{}, fmt.Errorf("%w: size %dx%d", ErrInvalidGeometry, width, height)
	}
	if !finite(centerX) || !finite(centerY) {
		return Viewport{}, fmt.Errorf("%w: center (%g, %g)", ErrInvalidGeometry, centerX, centerY)
	}
	if !(halfSpan > 0) || !finite(halfSpan) {
		return Viewport{}, fmt.Errorf("%w: half span %g", ErrInvalidGeometry, halfSpan)
	}

	v := build(width, height, centerX, centerY, halfSpan, zoomLevel)
	if !(v.DeltaX > 0) || !finite(v.DeltaX) || !(v.DeltaY > 0) || !finite(v.DeltaY) {
		return Viewport{}, fmt.Errorf("%w: pixel size %g by %g at half span %g", ErrInvalidGeometry, v.DeltaX, v.DeltaY, halfSpan)
	}

	return v, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func build(width, height int, centerX, centerY, halfSpan float64, zoomLevel int) Viewport {
	v := Viewport{
		Width:     width,
		Height:    height,
		CenterX:   centerX,
		CenterY:   centerY,
		HalfSpan:  halfSpan,
		ZoomLevel: zoomLevel,
		MinX:      centerX - halfSpan,
		MaxX:      centerX + halfSpan,
		MinY:      centerY - halfSpan,
		MaxY:      centerY + halfSpan,
	}
	v.DeltaX = (v.MaxX - v.MinX) / float64(width)
	v.DeltaY = (v.MaxY - v.MinY) / float64(height)

	return v
}

func (v Viewport) Center() geometry.XY {
	return geometry.XY{X: v.CenterX, Y: v.CenterY}
}

// PixelToPoint returns the plane coordinate of the center of a pixel.
// Rows grow downward while y grows upward.
func (v Viewport) PixelToPoint(row, column float64) geometry.XY {
	return geometry.XY{
		X: v.MinX + v.DeltaX*(column+0.5),
		Y: v.MaxY - v.DeltaY*(row+0.5),
	}
}

// At is PixelToPoint for a whole pixel.
func (v Viewport) At(p geometry.Pixel) geometry.XY {
	return v.PixelToPoint(float64(p.Row), float64(p.Column))
}

// ZoomIn recenters on the clicked point and halves the span. It fails with
// ErrInvalidGeometry once pixels can no longer be told apart, and v is left
// as it was.
func (v Viewport) ZoomIn(clicked geometry.XY) (Viewport, error) {
	return New(v.Width, v.Height, clicked.X, clicked.Y, v.HalfSpan/2, v.ZoomLevel+1)
}

// ZoomOut doubles the span around the reflection of the clicked point
// through the current center, so the view moves away from the click. It
// fails with ErrInvalidGeometry once the span overflows.
func (v Viewport) ZoomOut(clicked geometry.XY) (Viewport, error) {
	x := 2*v.CenterX - clicked.X
	y := 2*v.CenterY - clicked.Y
	return New(v.Width, v.Height, x, y, v.HalfSpan*2, v.ZoomLevel-1)
}

// Threshold is the cycle detection tolerance for this view: a quarter of a
// pixel's width.
func (v Viewport) Threshold() float64 {
	return v.DeltaX / 4
}
