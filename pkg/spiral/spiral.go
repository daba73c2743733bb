// Package spiral orders pixels from the center of an image outward, so a
// partially rendered image is a growing square around the middle.
package spiral

import (
	"errors"
	"fmt"

	"github.com/willbeason/mandelspiral/pkg/geometry"
)

// ErrUnreachable is returned by Step for an offset no walk from the origin
// can produce.
var ErrUnreachable = errors.New("spiral reached an unreachable offset")

// Offset is a displacement from the spiral's starting cell.
type Offset struct {
	Row, Column int
}

// Step returns the offset following o. The walk starts at the origin, moves
// right, and traces each square ring in one pass: up the right edge, left
// along the top, down the left edge, then right along the bottom into the
// next ring.
func Step(o Offset) (Offset, error) {
	r, c := o.Row, o.Column

	switch {
	case r == 0 && c == 0:
		return Offset{0, 1}, nil
	case r == c && c > 0:
		return Offset{r, c + 1}, nil
	case r == c:
		return Offset{r + 1, c}, nil
	case r == -c && c > 0:
		return Offset{r, c - 1}, nil
	case r == -c:
		return Offset{r, c + 1}, nil
	case c > 0 && c > abs(r):
		return Offset{r - 1, c}, nil
	case c < 0 && -c > abs(r):
		return Offset{r + 1, c}, nil
	case r > 0 && r > abs(c):
		return Offset{r, c + 1}, nil
	case r < 0 && -r > abs(c):
		return Offset{r, c - 1}, nil
	}

	return o, fmt.Errorf("%w: (%d, %d)", ErrUnreachable, r, c)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// An Enumerator produces the spiral's offsets one at a time, starting with
// the origin. It never runs out. The zero value is ready to use.
type Enumerator struct {
	started bool
	current Offset
}

// Next returns the next offset. It panics if the walk ever reaches an
// unreachable offset, as that can only be a bug in Step.
func (e *Enumerator) Next() Offset {
	if !e.started {
		e.started = true
		e.current = Offset{}
		return e.current
	}

	next, err := Step(e.current)
	if err != nil {
		panic(err)
	}
	e.current = next

	return e.current
}

// Reset restarts the walk at the origin.
func (e *Enumerator) Reset() {
	*e = Enumerator{}
}

// Cells walks every pixel of a height by width grid exactly once in spiral
// order, starting at (height/2, width/2).
type Cells struct {
	height, width int
	start         geometry.Pixel
	spiral        Enumerator
	produced      int
}

func NewCells(height, width int) *Cells {
	return &Cells{
		height: height,
		width:  width,
		start:  geometry.Pixel{Row: height / 2, Column: width / 2},
	}
}

// Next returns the next in-bounds pixel, skipping spiral cells outside the
// grid. It returns false once all height*width pixels have been returned.
func (c *Cells) Next() (geometry.Pixel, bool) {
	if c.produced >= c.height*c.width {
		return geometry.Pixel{}, false
	}

	for {
		o := c.spiral.Next()
		p := geometry.Pixel{Row: c.start.Row + o.Row, Column: c.start.Column + o.Column}
		if !p.In(c.height, c.width) {
			continue
		}

		c.produced++
		return p, true
	}
}

// Produced is the number of pixels returned so far.
func (c *Cells) Produced() int {
	return c.produced
}

// Remaining is the number of pixels not yet returned.
func (c *Cells) Remaining() int {
	return c.height*c.width - c.produced
}
