package transforms

import "github.com/willbeason/mandelspiral/pkg/geometry"

// Quadratic is the map z -> z² + C on points of the plane.
type Quadratic struct {
	C geometry.XY
}

// Next applies the map once.
func (q Quadratic) Next(z geometry.XY) geometry.XY {
	return geometry.XY{
		X: z.X*z.X - z.Y*z.Y + q.C.X,
		Y: 2*z.X*z.Y + q.C.Y,
	}
}

// Mandelbrot returns the map whose constant is the starting point itself.
func Mandelbrot(start geometry.XY) Quadratic {
	return Quadratic{C: start}
}
