package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/willbeason/mandelspiral/pkg/config"
	"github.com/willbeason/mandelspiral/pkg/render"
	"github.com/willbeason/mandelspiral/pkg/screenshot"
)

func mainCmd() *cobra.Command {
	opts := &config.Options{}
	screenshots := "."

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore the Mandelbrot set, or a Julia set, in a window",
		Long: `Explore the Mandelbrot set, or a Julia set, in a window.

Once the image is displayed:
   A left-click of the mouse zooms in.
   A right-click of the mouse zooms out.
   Pressing the C key prints coordinates to the console.
   Pressing the S key saves a screenshot in PNG format.
   Pressing the Q key or the Escape key quits.`,
		Example: `  view
  view --size=256
  view --bailout=150
  view --julia=-0.835,-0.232`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, *opts, screenshots)
		},
	}

	opts.Bind(cmd.Flags())
	cmd.Flags().StringVar(&screenshots, "screenshots", screenshots, "directory to save screenshots in")

	return cmd
}

func runCmd(cmd *cobra.Command, opts config.Options, screenshots string) error {
	v, err := opts.Viewport()
	if err != nil {
		return err
	}

	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	printInstructions(cmd.OutOrStdout())

	session := render.NewSession(v, opts.Settings(), render.SessionOptions{
		Logger:      log.New(cmd.ErrOrStderr(), "", log.LstdFlags),
		Coordinates: cmd.OutOrStdout(),
		Screenshots: screenshot.Dir{Path: screenshots},
	})

	title := "The Mandelbrot Set"
	if opts.Julia.C != nil {
		title = fmt.Sprintf("The Julia Set for c = %s", opts.Julia.String())
	}

	return runWindow(session, title)
}

func printInstructions(w io.Writer) {
	fmt.Fprint(w, `
Instructions:

 * Left-click to zoom in.
 * Right-click to zoom out.
 * Press S to save a screenshot.
 * Press C to print coordinates (to this console).
 * Press the Q key or the Escape key to quit.

`)
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
