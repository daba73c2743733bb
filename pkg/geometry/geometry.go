package geometry

// XY is a point in the complex plane, X being the real part.
type XY struct {
	X, Y float64
}

// Pixel is a zero-based pixel location. Row 0 is the top of the image.
type Pixel struct {
	Row, Column int
}

// In reports whether the pixel lies inside a height by width grid.
func (p Pixel) In(height, width int) bool {
	return p.Row >= 0 && p.Row < height && p.Column >= 0 && p.Column < width
}

// Index is the pixel's position in a row-major buffer of the given width.
func (p Pixel) Index(width int) int {
	return p.Row*width + p.Column
}
