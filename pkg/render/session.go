package render

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"time"

	"github.com/willbeason/mandelspiral/pkg/geometry"
	"github.com/willbeason/mandelspiral/pkg/viewport"
)

// State is where a Session is in its render loop.
type State int

const (
	// StateIdle means the viewport changed and no pass has started for it.
	StateIdle State = iota
	// StateRendering means a pass is partway through the buffer.
	StateRendering
	// StateDone means the buffer holds the complete image of the viewport.
	StateDone
	// StateQuit is terminal.
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateQuit:
		return "quit"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionZoomIn
	ActionZoomOut
	ActionScreenshot
	ActionCoordinates
	ActionQuit
)

// An Action is a user request, checked between pixels. Pixel is where the
// mouse was when the action happened.
type Action struct {
	Kind  ActionKind
	Pixel geometry.Pixel
}

var ErrNoScreenshots = errors.New("screenshots are not configured")

// A ScreenshotSaver stores an image and returns where it went.
type ScreenshotSaver interface {
	Save(img image.Image) (string, error)
}

type SessionOptions struct {
	// Logger receives pass timings and screenshot notices. Defaults to log.Default().
	Logger *log.Logger

	// Coordinates receives viewport reports. Nil discards them.
	Coordinates io.Writer

	Screenshots ScreenshotSaver

	// OnPixel, if set, sees every pixel as it is drawn.
	OnPixel func(Pixel)
}

// A Session owns the current viewport, the pixel buffer, and the pass
// filling it. Zooming replaces the viewport and abandons the pass; the next
// Step starts over from the center.
type Session struct {
	viewport viewport.Viewport
	settings Settings
	buffer   *Buffer

	state   State
	pass    *Pass
	started time.Time

	logger      *log.Logger
	coordinates io.Writer
	screenshots ScreenshotSaver
	onPixel     func(Pixel)

	now func() time.Time
}

func NewSession(v viewport.Viewport, settings Settings, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	coordinates := opts.Coordinates
	if coordinates == nil {
		coordinates = io.Discard
	}

	return &Session{
		viewport:    v,
		settings:    settings,
		buffer:      NewBuffer(v.Width, v.Height),
		state:       StateIdle,
		logger:      logger,
		coordinates: coordinates,
		screenshots: opts.Screenshots,
		onPixel:     opts.OnPixel,
		now:         time.Now,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Viewport() viewport.Viewport {
	return s.viewport
}

func (s *Session) Buffer() *Buffer {
	return s.buffer
}

// Progress is the fraction of the current viewport's pixels rendered.
func (s *Session) Progress() float64 {
	switch s.state {
	case StateDone:
		return 1
	case StateRendering:
		return float64(s.pass.Produced()) / float64(s.viewport.Width*s.viewport.Height)
	}
	return 0
}

// Apply handles an action. Zooms abort the current pass outright. A zoom
// past the limits of the viewport fails and leaves the session as it was.
func (s *Session) Apply(a Action) error {
	if s.state == StateQuit {
		return nil
	}

	switch a.Kind {
	case ActionNone:
	case ActionZoomIn:
		v, err := s.viewport.ZoomIn(s.viewport.At(a.Pixel))
		if err != nil {
			return fmt.Errorf("zooming in: %w", err)
		}
		s.replace(v)
	case ActionZoomOut:
		v, err := s.viewport.ZoomOut(s.viewport.At(a.Pixel))
		if err != nil {
			return fmt.Errorf("zooming out: %w", err)
		}
		s.replace(v)
	case ActionScreenshot:
		if s.screenshots == nil {
			return ErrNoScreenshots
		}
		path, err := s.screenshots.Save(s.buffer.Image())
		if err != nil {
			return fmt.Errorf("saving screenshot: %w", err)
		}
		s.logger.Printf("saved screenshot to %s", path)
	case ActionCoordinates:
		err := s.viewport.Report(s.coordinates, s.viewport.At(a.Pixel))
		if err != nil {
			return fmt.Errorf("reporting coordinates: %w", err)
		}
	case ActionQuit:
		s.abort()
		s.state = StateQuit
	default:
		return fmt.Errorf("unknown action %d", a.Kind)
	}

	return nil
}

// Do is Apply for front ends with nowhere to return an error: a failed
// action is written to the session's logger.
func (s *Session) Do(a Action) {
	err := s.Apply(a)
	if err != nil {
		s.logger.Println(err)
	}
}

func (s *Session) replace(v viewport.Viewport) {
	s.abort()
	s.viewport = v
	s.state = StateIdle
}

func (s *Session) abort() {
	if s.pass != nil {
		s.pass.Abort()
		s.pass = nil
	}
}

// Step renders pixels until budget has elapsed, then returns the number of
// pixels drawn. At least one pixel is drawn whenever a pass is unfinished.
// The session moves to StateDone as soon as the last pixel is drawn.
// In StateIdle a new pass is started first.
func (s *Session) Step(budget time.Duration) int {
	switch s.state {
	case StateDone, StateQuit:
		return 0
	case StateIdle:
		s.pass = NewPass(s.viewport, s.settings)
		s.started = s.now()
		s.state = StateRendering
	}

	deadline := s.now().Add(budget)
	drawn := 0
	for {
		px, ok := s.pass.Next()
		if !ok {
			s.finish()
			return drawn
		}
		s.buffer.Set(px.Pixel, px.Color)
		if s.onPixel != nil {
			s.onPixel(px)
		}
		drawn++

		if s.pass.Done() {
			s.finish()
			return drawn
		}
		if !s.now().Before(deadline) {
			return drawn
		}
	}
}

// Run finishes the current pass without yielding.
func (s *Session) Run() {
	for s.state == StateIdle || s.state == StateRendering {
		s.Step(time.Hour)
	}
}

func (s *Session) finish() {
	s.pass = nil
	s.state = StateDone
	s.logger.Printf("zoom level %d: elapsed time %.6f sec",
		s.viewport.ZoomLevel, s.now().Sub(s.started).Seconds())
}
