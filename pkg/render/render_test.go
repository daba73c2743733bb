package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/willbeason/mandelspiral/pkg/escape"
	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/palette"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

func newViewport(t *testing.T, size int) viewport.Viewport {
	t.Helper()
	v, err := viewport.New(size, size, -0.5, 0, 1.725, 0)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

var testSettings = Settings{Bailout: 500, Palette: palette.Default}

func TestPass_FirstPixel(t *testing.T) {
	v := newViewport(t, 512)
	pass := NewPass(v, Settings{Palette: palette.Default})

	px, ok := pass.Next()
	if !ok {
		t.Fatal("empty pass")
	}
	if want := (geometry.Pixel{Row: 256, Column: 256}); px.Pixel != want {
		t.Errorf("first pixel %v, want %v", px.Pixel, want)
	}

	p := v.At(px.Pixel)
	if math.Abs(p.X-(v.CenterX+0.5*v.DeltaX)) > 1e-12 || math.Abs(p.Y-(v.CenterY-0.5*v.DeltaY)) > 1e-12 {
		t.Errorf("first point %v", p)
	}

	if got := escape.Evaluate(p, Settings{}.Params(v)); got.Kind() != escape.Bounded {
		t.Errorf("first point %v, want Bounded", got)
	}
	if px.Color != palette.DarkBlue {
		t.Errorf("first color %v, want set color", px.Color)
	}
}

func TestPass_Fill(t *testing.T) {
	v := newViewport(t, 24)
	b := NewBuffer(v.Width, v.Height)

	pass := NewPass(v, testSettings)
	pass.Fill(b)

	if !pass.Done() {
		t.Error("pass not done after Fill")
	}
	if pass.Produced() != 24*24 {
		t.Errorf("produced %d pixels", pass.Produced())
	}

	params := testSettings.Params(v)
	for row := 0; row < v.Height; row++ {
		for col := 0; col < v.Width; col++ {
			p := geometry.Pixel{Row: row, Column: col}
			want := palette.Map(escape.Evaluate(v.At(p), params))
			if got := b.At(p); got != want {
				t.Fatalf("%v: got %v, want %v", p, got, want)
			}
		}
	}
}

func TestPass_Abort(t *testing.T) {
	v := newViewport(t, 16)
	pass := NewPass(v, testSettings)

	for i := 0; i < 10; i++ {
		if _, ok := pass.Next(); !ok {
			t.Fatal("pass ended early")
		}
	}
	pass.Abort()

	if _, ok := pass.Next(); ok {
		t.Error("aborted pass produced a pixel")
	}
	if pass.Done() || !pass.Aborted() {
		t.Errorf("done=%t aborted=%t", pass.Done(), pass.Aborted())
	}
	if pass.Produced() != 10 {
		t.Errorf("produced %d pixels, want 10", pass.Produced())
	}
}

func TestParallel_MatchesPass(t *testing.T) {
	v := newViewport(t, 40)

	want := NewBuffer(v.Width, v.Height)
	NewPass(v, testSettings).Fill(want)

	for _, workers := range []int{1, 3, 0} {
		got := NewBuffer(v.Width, v.Height)
		err := Parallel(context.Background(), v, testSettings, got, workers)
		if err != nil {
			t.Fatal(err)
		}
		for i := range want.Pix {
			if got.Pix[i] != want.Pix[i] {
				t.Fatalf("%d workers: pixel %d is %#x, want %#x", workers, i, got.Pix[i], want.Pix[i])
			}
		}
	}
}

func TestParallel_Cancelled(t *testing.T) {
	v := newViewport(t, 64)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Parallel(ctx, v, testSettings, NewBuffer(v.Width, v.Height), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestBuffer_Image(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Set(geometry.Pixel{Column: 1}, palette.RGB{R: 1, G: 2, B: 3})

	img := b.Image()
	if img.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if got := img.RGBAAt(1, 0); got.R != 1 || got.G != 2 || got.B != 3 || got.A != 0xff {
		t.Errorf("pixel (1, 0) = %v", got)
	}
	if got := img.RGBAAt(0, 0); got.A != 0xff || got.R != 0 {
		t.Errorf("pixel (0, 0) = %v", got)
	}
}

type memorySaver struct {
	saved []image.Image
}

func (m *memorySaver) Save(img image.Image) (string, error) {
	m.saved = append(m.saved, img)
	return "memory", nil
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return log.New(buf, "", 0), buf
}

func TestSession_Run(t *testing.T) {
	logger, logs := quietLogger()
	s := NewSession(newViewport(t, 16), testSettings, SessionOptions{Logger: logger})

	if s.State() != StateIdle {
		t.Fatalf("initial state %v", s.State())
	}
	s.Run()

	if s.State() != StateDone || s.Progress() != 1 {
		t.Errorf("state %v, progress %g", s.State(), s.Progress())
	}
	if !strings.Contains(logs.String(), "zoom level 0") {
		t.Errorf("missing pass timing in log: %q", logs.String())
	}
	if n := s.Step(time.Second); n != 0 {
		t.Errorf("Step after Done drew %d pixels", n)
	}
}

func TestSession_StepYields(t *testing.T) {
	logger, _ := quietLogger()
	s := NewSession(newViewport(t, 32), testSettings, SessionOptions{Logger: logger})

	if n := s.Step(0); n != 1 {
		t.Errorf("zero budget drew %d pixels, want 1", n)
	}
	if s.State() != StateRendering {
		t.Errorf("state %v, want rendering", s.State())
	}
	if p := s.Progress(); p <= 0 || p >= 1 {
		t.Errorf("progress %g", p)
	}
}

func TestSession_ZoomAbortsPass(t *testing.T) {
	logger, _ := quietLogger()
	s := NewSession(newViewport(t, 32), testSettings, SessionOptions{Logger: logger})
	s.Step(0)

	center := geometry.Pixel{Row: 16, Column: 16}
	if err := s.Apply(Action{Kind: ActionZoomIn, Pixel: center}); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateIdle {
		t.Errorf("state after zoom %v, want idle", s.State())
	}
	if s.Viewport().ZoomLevel != 1 || s.Viewport().HalfSpan != 1.725/2 {
		t.Errorf("viewport after zoom in %+v", s.Viewport())
	}

	if err := s.Apply(Action{Kind: ActionZoomOut, Pixel: center}); err != nil {
		t.Fatal(err)
	}
	if s.Viewport().ZoomLevel != 0 || s.Viewport().HalfSpan != 1.725 {
		t.Errorf("viewport after zoom out %+v", s.Viewport())
	}

	s.Run()
	if s.State() != StateDone {
		t.Errorf("state %v", s.State())
	}
}

func TestSession_ZoomLimit(t *testing.T) {
	logger, _ := quietLogger()
	s := NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger})
	s.Run()

	corner := geometry.Pixel{}
	var err error
	for i := 0; i < 2000 && err == nil; i++ {
		err = s.Apply(Action{Kind: ActionZoomOut, Pixel: corner})
		s.Run()
	}
	if !errors.Is(err, viewport.ErrInvalidGeometry) {
		t.Fatalf("got %v, want ErrInvalidGeometry", err)
	}

	// The failed zoom neither changed the view nor restarted the pass.
	if s.State() != StateDone {
		t.Errorf("state %v, want done", s.State())
	}
	if p := s.Viewport().At(corner); math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) {
		t.Errorf("corner maps to %v", p)
	}
}

func TestSession_Quit(t *testing.T) {
	logger, _ := quietLogger()
	s := NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger})
	s.Step(0)

	if err := s.Apply(Action{Kind: ActionQuit}); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateQuit {
		t.Fatalf("state %v", s.State())
	}

	// Nothing leaves the quit state.
	if err := s.Apply(Action{Kind: ActionZoomIn}); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateQuit || s.Step(time.Second) != 0 {
		t.Error("session left the quit state")
	}
}

func TestSession_Screenshot(t *testing.T) {
	logger, logs := quietLogger()

	s := NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger})
	if err := s.Apply(Action{Kind: ActionScreenshot}); !errors.Is(err, ErrNoScreenshots) {
		t.Errorf("got %v, want ErrNoScreenshots", err)
	}

	saver := &memorySaver{}
	s = NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger, Screenshots: saver})
	s.Run()
	if err := s.Apply(Action{Kind: ActionScreenshot}); err != nil {
		t.Fatal(err)
	}
	if len(saver.saved) != 1 || saver.saved[0].Bounds().Dx() != 8 {
		t.Errorf("saved %d images", len(saver.saved))
	}
	if !strings.Contains(logs.String(), "saved screenshot to memory") {
		t.Errorf("log %q", logs.String())
	}
	if s.State() != StateDone {
		t.Errorf("screenshot changed state to %v", s.State())
	}
}

func TestSession_DoLogsFailures(t *testing.T) {
	logger, logs := quietLogger()
	s := NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger})

	s.Do(Action{Kind: ActionScreenshot})
	if !strings.Contains(logs.String(), ErrNoScreenshots.Error()) {
		t.Errorf("log %q", logs.String())
	}

	logs.Reset()
	s.Do(Action{Kind: ActionZoomIn, Pixel: geometry.Pixel{Row: 4, Column: 4}})
	if logs.Len() != 0 {
		t.Errorf("successful zoom logged %q", logs.String())
	}
	if s.Viewport().ZoomLevel != 1 {
		t.Errorf("zoom level %d", s.Viewport().ZoomLevel)
	}
}

func TestSession_Coordinates(t *testing.T) {
	logger, _ := quietLogger()
	out := &bytes.Buffer{}
	s := NewSession(newViewport(t, 8), testSettings, SessionOptions{Logger: logger, Coordinates: out})

	if err := s.Apply(Action{Kind: ActionCoordinates, Pixel: geometry.Pixel{Row: 4, Column: 4}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Mouse coordinates:") {
		t.Errorf("report %q", out.String())
	}
}

func TestSession_OnPixel(t *testing.T) {
	logger, _ := quietLogger()

	var seen []Pixel
	s := NewSession(newViewport(t, 6), testSettings, SessionOptions{
		Logger:  logger,
		OnPixel: func(p Pixel) { seen = append(seen, p) },
	})

	if n := s.Step(time.Hour); n != 36 {
		t.Errorf("drew %d pixels, want 36", n)
	}
	if s.State() != StateDone {
		t.Errorf("state %v, want done", s.State())
	}
	if len(seen) != 36 {
		t.Fatalf("saw %d pixels", len(seen))
	}
	if want := (geometry.Pixel{Row: 3, Column: 3}); seen[0].Pixel != want {
		t.Errorf("first pixel %v, want %v", seen[0].Pixel, want)
	}
	for _, p := range seen {
		if s.Buffer().At(p.Pixel) != p.Color {
			t.Errorf("%v: buffer disagrees with hook", p.Pixel)
		}
	}
}
