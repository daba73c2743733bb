//go:build cgo

package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/input"
	"github.com/willbeason/mandelspiral/pkg/render"
)

// renderSlice is how long each frame spends computing pixels before the
// window is refreshed and input is polled again.
const renderSlice = 12 * time.Millisecond

// runWindow shows the session's buffer in a window until the user quits or
// closes it.
func runWindow(session *render.Session, title string) error {
	v := session.Viewport()

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(v.Width, v.Height)
	ebiten.SetTPS(60)

	return ebiten.RunGame(&game{session: session})
}

type game struct {
	session *render.Session
	mouse   input.Mouse

	frame *ebiten.Image
	pix   []byte
}

func (g *game) Update() error {
	g.session.Do(g.poll())
	if g.session.State() == render.StateQuit {
		return ebiten.Termination
	}

	g.session.Step(renderSlice)
	return nil
}

// poll turns this tick's input into at most one action. Quitting wins over
// everything else.
func (g *game) poll() render.Action {
	g.mouse.Update(
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight))

	x, y := ebiten.CursorPosition()
	at := geometry.Pixel{Row: y, Column: x}

	switch {
	case ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ):
		return render.Action{Kind: render.ActionQuit}
	case inpututil.IsKeyJustReleased(ebiten.KeyS):
		return render.Action{Kind: render.ActionScreenshot, Pixel: at}
	case inpututil.IsKeyJustReleased(ebiten.KeyC):
		return render.Action{Kind: render.ActionCoordinates, Pixel: at}
	case g.mouse.Left.JustReleased():
		return render.Action{Kind: render.ActionZoomIn, Pixel: at}
	case g.mouse.Right.JustReleased():
		return render.Action{Kind: render.ActionZoomOut, Pixel: at}
	}

	return render.Action{}
}

func (g *game) Draw(screen *ebiten.Image) {
	b := g.session.Buffer()
	if g.frame == nil {
		g.frame = ebiten.NewImage(b.Width, b.Height)
		g.pix = make([]byte, 4*b.Width*b.Height)
	}

	b.CopyTo(g.pix)
	g.frame.WritePixels(g.pix)
	screen.DrawImage(g.frame, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	v := g.session.Viewport()
	return v.Width, v.Height
}
