package transforms

import "github.com/willbeason/mandelspiral/pkg/geometry"

// Julia returns the map with a fixed constant, shared by every starting point.
func Julia(c geometry.XY) Quadratic {
	return Quadratic{C: c}
}

// For picks the map for a starting point. A nil julia constant selects
// Mandelbrot mode.
func For(start geometry.XY, julia *geometry.XY) Quadratic {
	if julia == nil {
		return Mandelbrot(start)
	}
	return Julia(*julia)
}
