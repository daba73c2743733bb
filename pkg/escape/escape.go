package escape

import (
	"fmt"
	"math"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/transforms"
)

// RadiusSquared is the squared escape radius. A point whose orbit leaves the
// disc of radius 2 never returns.
const RadiusSquared = 4.0

// Kind distinguishes the two outcomes of an evaluation.
type Kind int

const (
	// Bounded means the point is treated as part of the set: its orbit
	// entered a cycle, or the bailout was reached first.
	Bounded Kind = iota
	// Escaped means the orbit left the escape radius.
	Escaped
)

// Result is either Bounded or Escaped after some number of iterations.
// The zero value is Bounded.
type Result struct {
	kind       Kind
	iterations int
}

// EscapedAfter is the result for an orbit which escaped after n updates.
func EscapedAfter(n int) Result {
	return Result{kind: Escaped, iterations: n}
}

// InSet is the result for a point considered part of the set.
func InSet() Result {
	return Result{kind: Bounded}
}

func (r Result) Kind() Kind {
	return r.kind
}

// Iterations returns the escape count and true, or zero and false when the
// point is bounded.
func (r Result) Iterations() (int, bool) {
	if r.kind != Escaped {
		return 0, false
	}
	return r.iterations, true
}

func (r Result) String() string {
	if r.kind == Escaped {
		return fmt.Sprintf("Escaped(%d)", r.iterations)
	}
	return "Bounded"
}

// Params holds everything besides the point itself which affects an evaluation.
type Params struct {
	// Threshold is how close the fast and slow orbits must come, on both axes,
	// to count as a cycle. Zero requires exact equality.
	Threshold float64

	// Bailout caps the number of fast-orbit updates. Zero means no cap.
	// Reaching the cap classifies the point as Bounded.
	Bailout int

	// Julia is the fixed constant for Julia mode. Nil selects Mandelbrot mode.
	Julia *geometry.XY
}

// Evaluate iterates z² + c from the point until the orbit escapes, is found
// to cycle, or reaches the bailout.
//
// Two orbits are advanced: a fast one, two steps per round, and a slow one,
// one step per round. Only the fast orbit is tested against the escape
// radius, always before it is updated, so a point already outside the radius
// escapes after zero iterations. After every update the two orbits are
// compared; when they meet the orbit is periodic and the point is Bounded.
func Evaluate(point geometry.XY, params Params) Result {
	q := transforms.For(point, params.Julia)

	iterations := 0
	fast, slow := point, point

	for {
		for range 2 {
			if fast.X*fast.X+fast.Y*fast.Y > RadiusSquared {
				return EscapedAfter(iterations)
			}
			fast = q.Next(fast)
			if converged(fast, slow, params.Threshold) {
				return InSet()
			}

			iterations++
			if params.Bailout > 0 && iterations >= params.Bailout {
				return InSet()
			}
		}

		// The slow orbit never drives escape, it is only a comparison point.
		slow = q.Next(slow)
		if converged(fast, slow, params.Threshold) {
			return InSet()
		}
	}
}

func converged(fast, slow geometry.XY, threshold float64) bool {
	if threshold == 0.0 {
		return fast == slow
	}
	return math.Abs(fast.X-slow.X) <= threshold && math.Abs(fast.Y-slow.Y) <= threshold
}
