package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/render"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

const (
	// renderSlice is how long the session renders before pending pixels are sent.
	renderSlice = 15 * time.Millisecond

	// pixelSize is the encoded size of one pixel: a big-endian uint32 index
	// into the row-major image followed by red, green and blue.
	pixelSize = 7

	// maxFramePixels keeps binary frames under the default client read limit.
	maxFramePixels = 4096
)

// command is a request from the browser.
type command struct {
	Action string `json:"action"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

type viewportMessage struct {
	Type      string  `json:"type"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	CenterX   float64 `json:"centerX"`
	CenterY   float64 `json:"centerY"`
	HalfSpan  float64 `json:"halfSpan"`
	ZoomLevel int     `json:"zoomLevel"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// stream drives one Session for one websocket connection.
type stream struct {
	conn    *websocket.Conn
	session *render.Session
	logger  *log.Logger

	coordinates bytes.Buffer
	batch       []byte
}

func newStream(conn *websocket.Conn, v viewport.Viewport, s render.Settings, logger *log.Logger) *stream {
	st := &stream{conn: conn, logger: logger}
	st.session = render.NewSession(v, s, render.SessionOptions{
		Logger:      logger,
		Coordinates: &st.coordinates,
		OnPixel:     st.append,
	})
	return st
}

func (st *stream) append(px render.Pixel) {
	st.batch = binary.BigEndian.AppendUint32(st.batch, uint32(px.Index(st.session.Viewport().Width)))
	st.batch = append(st.batch, px.Color.R, px.Color.G, px.Color.B)
}

// run renders and streams until the connection or ctx ends. Commands are read
// concurrently and applied between render slices.
func (st *stream) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	commands := make(chan command)

	g.Go(func() error {
		for {
			var cmd command
			err := wsjson.Read(ctx, st.conn, &cmd)
			if err != nil {
				return err
			}
			select {
			case commands <- cmd:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	g.Go(func() error {
		err := st.sendViewport(ctx)
		if err != nil {
			return err
		}

		for {
			if st.session.State() == render.StateDone {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case cmd := <-commands:
					err = st.handle(ctx, cmd)
				}
				if err != nil {
					return err
				}
				continue
			}

			st.session.Step(renderSlice)
			err = st.flush(ctx)
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case cmd := <-commands:
				err = st.handle(ctx, cmd)
				if err != nil {
					return err
				}
			default:
			}
		}
	})

	return g.Wait()
}

func (st *stream) handle(ctx context.Context, cmd command) error {
	v := st.session.Viewport()
	p := geometry.Pixel{Row: cmd.Row, Column: cmd.Column}
	if !p.In(v.Height, v.Width) {
		return st.sendText(ctx, "error", fmt.Sprintf("pixel (%d, %d) is outside the %dx%d view", p.Row, p.Column, v.Width, v.Height))
	}

	var kind render.ActionKind
	switch cmd.Action {
	case "zoomIn":
		kind = render.ActionZoomIn
	case "zoomOut":
		kind = render.ActionZoomOut
	case "coordinates":
		kind = render.ActionCoordinates
	default:
		return st.sendText(ctx, "error", fmt.Sprintf("unknown action %q", cmd.Action))
	}

	err := st.session.Apply(render.Action{Kind: kind, Pixel: p})
	if errors.Is(err, viewport.ErrInvalidGeometry) {
		return st.sendText(ctx, "error", err.Error())
	}
	if err != nil {
		return err
	}

	switch kind {
	case render.ActionCoordinates:
		text := st.coordinates.String()
		st.coordinates.Reset()
		return st.sendText(ctx, "coordinates", text)
	default:
		return st.sendViewport(ctx)
	}
}

// flush sends the pixels drawn since the last flush.
func (st *stream) flush(ctx context.Context) error {
	for start := 0; start < len(st.batch); start += maxFramePixels * pixelSize {
		end := min(len(st.batch), start+maxFramePixels*pixelSize)
		err := st.conn.Write(ctx, websocket.MessageBinary, st.batch[start:end])
		if err != nil {
			return err
		}
	}
	st.batch = st.batch[:0]
	return nil
}

func (st *stream) sendViewport(ctx context.Context) error {
	v := st.session.Viewport()
	return wsjson.Write(ctx, st.conn, viewportMessage{
		Type:      "viewport",
		Width:     v.Width,
		Height:    v.Height,
		CenterX:   v.CenterX,
		CenterY:   v.CenterY,
		HalfSpan:  v.HalfSpan,
		ZoomLevel: v.ZoomLevel,
	})
}

func (st *stream) sendText(ctx context.Context, kind, text string) error {
	return wsjson.Write(ctx, st.conn, textMessage{Type: kind, Text: text})
}
