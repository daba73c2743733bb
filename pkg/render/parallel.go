package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/willbeason/mandelspiral/pkg/escape"
	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

// Parallel renders the whole viewport into b with the given number of
// workers, each taking whole rows. Spiral order is not kept, but every pixel
// gets the same color a Pass would give it. Workers stop at the next row
// once ctx is cancelled.
func Parallel(ctx context.Context, v viewport.Viewport, s Settings, b *Buffer, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	params := s.Params(v)

	g, ctx := errgroup.WithContext(ctx)

	rows := make(chan int)
	g.Go(func() error {
		defer close(rows)
		for y := 0; y < v.Height; y++ {
			select {
			case rows <- y:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for y := range rows {
				if err := ctx.Err(); err != nil {
					return err
				}
				renderRow(v, params, s, b, y)
			}
			return nil
		})
	}

	return g.Wait()
}

// renderRow writes only row y of b, so rows may be rendered concurrently.
func renderRow(v viewport.Viewport, params escape.Params, s Settings, b *Buffer, y int) {
	for x := 0; x < v.Width; x++ {
		p := geometry.Pixel{Row: y, Column: x}
		b.Set(p, s.Palette.Map(escape.Evaluate(v.At(p), params)))
	}
}
