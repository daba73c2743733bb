// Package input turns polled button states into press and release edges.
package input

// A Latch remembers a button's state at the last two polls.
type Latch struct {
	previous, current bool
}

// Update records the state seen at this poll.
func (l *Latch) Update(pressed bool) {
	l.previous = l.current
	l.current = pressed
}

// Pressed reports whether the button is down now.
func (l *Latch) Pressed() bool {
	return l.current
}

// JustPressed reports a transition from up to down at the last poll.
func (l *Latch) JustPressed() bool {
	return !l.previous && l.current
}

// JustReleased reports a transition from down to up at the last poll.
func (l *Latch) JustReleased() bool {
	return l.previous && !l.current
}

// Mouse latches the two buttons used for zooming.
type Mouse struct {
	Left, Right Latch
}

func (m *Mouse) Update(left, right bool) {
	m.Left.Update(left)
	m.Right.Update(right)
}
