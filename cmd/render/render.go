package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/willbeason/mandelspiral/pkg/config"
	"github.com/willbeason/mandelspiral/pkg/render"
	"github.com/willbeason/mandelspiral/pkg/screenshot"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

type renderFlags struct {
	config.Options

	Focus   config.Point
	Zoom    int
	Workers int
	Out     string
}

func mainCmd() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one view of the Mandelbrot set, or a Julia set, to a PNG file",
		Example: `  render --size=2048 --out=set.png
  render --center=-0.7436,0.1318 --zoom=12 --bailout=2000
  render --julia=-0.835,-0.232`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, *flags)
		},
	}

	flags.Bind(cmd.Flags())
	cmd.Flags().Var(&flags.Focus, "center", "center of the view (X,Y); defaults to the mode's starting center")
	cmd.Flags().IntVar(&flags.Zoom, "zoom", 0, "zoom level; each level halves the visible span")
	cmd.Flags().IntVar(&flags.Workers, "workers", runtime.NumCPU(), "number of rows rendered in parallel")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output file (default out/<timestamp>.png)")

	return cmd
}

func (f renderFlags) viewport() (viewport.Viewport, error) {
	if err := f.Validate(); err != nil {
		return viewport.Viewport{}, err
	}

	c := f.Center()
	if f.Focus.C != nil {
		c = *f.Focus.C
	}
	halfSpan := config.DefaultHalfSpan * math.Pow(2, -float64(f.Zoom))

	return viewport.New(f.Size, f.Size, c.X, c.Y, halfSpan, f.Zoom)
}

func runCmd(cmd *cobra.Command, flags renderFlags) error {
	v, err := flags.viewport()
	if err != nil {
		return err
	}

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	logger := log.New(cmd.ErrOrStderr(), "", log.LstdFlags)

	out := flags.Out
	if out == "" {
		out = filepath.Join("out", time.Now().Format("20060102150405")+".png")
	}
	err = os.MkdirAll(filepath.Dir(out), os.ModePerm)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	b := render.NewBuffer(v.Width, v.Height)
	err = render.Parallel(ctx, v, flags.Settings(), b, flags.Workers)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}
	logger.Printf("zoom level %d: elapsed time %.6f sec", v.ZoomLevel, time.Since(start).Seconds())

	err = screenshot.Write(out, b.Image())
	if err != nil {
		return err
	}
	logger.Printf("saved %dx%d image to %s", v.Width, v.Height, out)

	return nil
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
