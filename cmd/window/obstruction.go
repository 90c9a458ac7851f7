package window

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	frameInterval = 30 * time.Millisecond
	rowsPerFrame  = 2
)

// ObstructionFrameMsg advances an obstruction animation by one frame.
type ObstructionFrameMsg struct {
	id int
}

// Animator slides the obstructed height towards a target a few rows per
// frame. Every frame is an obstruction change for the window.
type Animator struct {
	current int
	target  int
	id      int // invalidates frames of a superseded animation
}

func (a *Animator) Current() int { return a.current }

func (a *Animator) Target() int { return a.target }

func (a *Animator) Animating() bool { return a.current != a.target }

// AnimateTo starts moving towards rows. It returns nil if nothing needs to
// move.
func (a *Animator) AnimateTo(rows int) tea.Cmd {
	rows = max(0, rows)
	if rows == a.target && !a.Animating() {
		return nil
	}
	a.target = rows
	a.id++
	return a.frame()
}

// Jump moves straight to rows without animating.
func (a *Animator) Jump(rows int) {
	rows = max(0, rows)
	a.current, a.target = rows, rows
	a.id++
}

// Step applies a frame. It reports whether the obstructed height changed and
// returns the next frame while the target has not been reached.
func (a *Animator) Step(msg ObstructionFrameMsg) (bool, tea.Cmd) {
	if msg.id != a.id || !a.Animating() {
		return false, nil
	}
	switch {
	case a.current < a.target:
		a.current = min(a.target, a.current+rowsPerFrame)
	case a.current > a.target:
		a.current = max(a.target, a.current-rowsPerFrame)
	}
	if a.Animating() {
		return true, a.frame()
	}
	return true, nil
}

func (a *Animator) frame() tea.Cmd {
	id := a.id
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return ObstructionFrameMsg{id: id}
	})
}
