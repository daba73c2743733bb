package viewport

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/willbeason/mandelspiral/pkg/geometry"
)

// ReportPrecision is the number of decimal places printed in a Report.
const ReportPrecision = 7

// Corners are the plane coordinates of a viewport's edges.
type Corners struct {
	UpperLeft, UpperRight geometry.XY
	Center                geometry.XY
	LowerLeft, LowerRight geometry.XY
}

func (v Viewport) Corners() Corners {
	return Corners{
		UpperLeft:  geometry.XY{X: v.MinX, Y: v.MaxY},
		UpperRight: geometry.XY{X: v.MaxX, Y: v.MaxY},
		Center:     v.Center(),
		LowerLeft:  geometry.XY{X: v.MinX, Y: v.MinY},
		LowerRight: geometry.XY{X: v.MaxX, Y: v.MinY},
	}
}

// Report writes the viewport corners and the point under the mouse as a
// small boxed diagram.
func (v Viewport) Report(w io.Writer, mouse geometry.XY) error {
	c := v.Corners()
	rule := strings.Repeat("-", 62)

	_, err := fmt.Fprintf(w, "Screen coordinates:\n%s\n|%-29s  %29s|\n|%s|\n|%-29s  %29s|\n%s\nMouse coordinates:  %s\n",
		rule,
		formatXY(c.UpperLeft), formatXY(c.UpperRight),
		centerText(formatXY(c.Center), 60),
		formatXY(c.LowerLeft), formatXY(c.LowerRight),
		rule,
		formatXY(mouse))
	return err
}

func formatXY(p geometry.XY) string {
	return "(" + formatFloat(round(p.X)) + ", " + formatFloat(round(p.Y)) + ")"
}

// formatFloat writes the shortest representation that reads back as f, with
// at least one decimal place. Very small and very large magnitudes use an
// exponent with no padding, as in 1e-7.
func formatFloat(f float64) string {
	if a := math.Abs(f); a != 0 && (a < 1e-4 || a >= 1e16) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(s, "e")
		exp, _ := strconv.Atoi(exponent)
		return mantissa + "e" + strconv.Itoa(exp)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func round(f float64) float64 {
	scale := math.Pow(10, ReportPrecision)
	return math.Round(f*scale) / scale
}

func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
