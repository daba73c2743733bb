// Package config holds the command-line options shared by every command
// and turns them into the starting viewport.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/palette"
	"github.com/willbeason/mandelspiral/pkg/render"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

const (
	// DefaultSize is the default width and height of the square image.
	DefaultSize = 512

	// DefaultHalfSpan shows the whole Mandelbrot set with a small margin.
	DefaultHalfSpan = 1.725
)

var (
	// MandelbrotCenter is the starting center in Mandelbrot mode.
	MandelbrotCenter = geometry.XY{X: -0.5, Y: 0.0}

	// JuliaCenter is the starting center in Julia mode.
	JuliaCenter = geometry.XY{}
)

var (
	ErrInvalidSize    = errors.New("size must be more than zero")
	ErrInvalidBailout = errors.New("bailout must not be negative")
	ErrInvalidPoint   = errors.New("invalid point")
)

// Options are the flags common to all commands.
type Options struct {
	Size    int
	Bailout int
	Julia   Point
}

// Bind registers the options on a flag set with their defaults.
func (o *Options) Bind(flags *pflag.FlagSet) {
	flags.IntVar(&o.Size, "size", DefaultSize, "width and height of the square image in pixels")
	flags.IntVar(&o.Bailout, "bailout", 0,
		"maximum iterations per point; points reaching it are drawn as part of the set (0 = no limit)")
	flags.Var(&o.Julia, "julia", "render the Julia set for c = X+Yi instead of the Mandelbrot set (X,Y)")
}

func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, o.Size)
	}
	if o.Bailout < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBailout, o.Bailout)
	}
	return nil
}

// Center is the starting center, which depends on the mode.
func (o Options) Center() geometry.XY {
	if o.Julia.C != nil {
		return JuliaCenter
	}
	return MandelbrotCenter
}

// Viewport is the starting view at zoom level 0.
func (o Options) Viewport() (viewport.Viewport, error) {
	if err := o.Validate(); err != nil {
		return viewport.Viewport{}, err
	}
	c := o.Center()
	return viewport.New(o.Size, o.Size, c.X, c.Y, DefaultHalfSpan, 0)
}

func (o Options) Settings() render.Settings {
	return render.Settings{
		Bailout: o.Bailout,
		Julia:   o.Julia.C,
		Palette: palette.Default,
	}
}

// Point is a flag value of the form X,Y. A nil C means the flag was not set.
type Point struct {
	C *geometry.XY
}

func (j *Point) String() string {
	if j.C == nil {
		return ""
	}
	return strconv.FormatFloat(j.C.X, 'g', -1, 64) + "," + strconv.FormatFloat(j.C.Y, 'g', -1, 64)
}

func (j *Point) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("%w: %q needs exactly one comma", ErrInvalidPoint, s)
	}

	x, err := parseFinite(parts[0])
	if err != nil {
		return fmt.Errorf("%w: X value in %q: %w", ErrInvalidPoint, s, err)
	}
	y, err := parseFinite(parts[1])
	if err != nil {
		return fmt.Errorf("%w: Y value in %q: %w", ErrInvalidPoint, s, err)
	}

	j.C = &geometry.XY{X: x, Y: y}
	return nil
}

func (j *Point) Type() string {
	return "X,Y"
}

var _ pflag.Value = &Point{}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	return f, nil
}
