// Package movement holds movement and action controls down for a requested
// duration and releases them on the first tick after they expire.
package movement

import (
	"log/slog"
	"sync"
	"time"

	"github.com/botforge/go-botforge/internal/log"
)

// Axis is one control input.
type Axis int

const (
	Forward Axis = iota
	Back
	Left
	Right
	Jump
	Sneak
	Sprint
	numAxes
)

var axisNames = [numAxes]string{"forward", "back", "left", "right", "jump", "sneak", "sprint"}

// String returns the control name used by the game client.
func (a Axis) String() string {
	if a < 0 || a >= numAxes {
		return "unknown"
	}
	return axisNames[a]
}

// ParseAxis maps a control name to its Axis.
func ParseAxis(name string) (Axis, bool) {
	for i, n := range axisNames {
		if n == name {
			return Axis(i), true
		}
	}
	return 0, false
}

// Axes lists every axis in order.
func Axes() []Axis {
	out := make([]Axis, numAxes)
	for i := range out {
		out[i] = Axis(i)
	}
	return out
}

// Controls is the sink for control state changes.
type Controls interface {
	SetControlState(control string, state bool)
}

// Timer tracks one expiry per axis. A zero expiry means the axis is idle.
type Timer struct {
	controls Controls
	now      func() time.Time
	log      *slog.Logger

	mu     sync.Mutex
	expiry [numAxes]time.Time
}

type nopControls struct{}

func (nopControls) SetControlState(string, bool) {}

// NewTimer creates a timer driving controls. A nil controls only tracks
// expiries.
func NewTimer(controls Controls) *Timer {
	if controls == nil {
		controls = nopControls{}
	}
	return &Timer{
		controls: controls,
		now:      time.Now,
		log:      log.Component("movement"),
	}
}

// SetClock replaces time.Now. Used by tests.
func (t *Timer) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// Activate presses axis and schedules its release after d. Calling it again
// before release replaces the expiry.
func (t *Timer) Activate(axis Axis, d time.Duration) {
	if axis < 0 || axis >= numAxes {
		return
	}

	t.mu.Lock()
	t.expiry[axis] = t.now().Add(d)
	t.mu.Unlock()

	t.controls.SetControlState(axis.String(), true)
	t.log.Debug("control pressed", "control", axis, "duration", d)
}

// Tick releases every axis whose expiry is before now.
func (t *Timer) Tick(now time.Time) {
	var released []Axis

	t.mu.Lock()
	for i, exp := range t.expiry {
		if !exp.IsZero() && exp.Before(now) {
			t.expiry[i] = time.Time{}
			released = append(released, Axis(i))
		}
	}
	t.mu.Unlock()

	for _, a := range released {
		t.controls.SetControlState(a.String(), false)
		t.log.Debug("control released", "control", a)
	}
}

// Active reports whether axis is currently held by the timer.
func (t *Timer) Active(axis Axis) bool {
	if axis < 0 || axis >= numAxes {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.expiry[axis].IsZero()
}

// Expiry returns when axis will be released, zero when idle.
func (t *Timer) Expiry(axis Axis) time.Time {
	if axis < 0 || axis >= numAxes {
		return time.Time{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.expiry[axis]
}

// ReleaseAll releases every held axis immediately.
func (t *Timer) ReleaseAll() {
	var released []Axis

	t.mu.Lock()
	for i, exp := range t.expiry {
		if !exp.IsZero() {
			t.expiry[i] = time.Time{}
			released = append(released, Axis(i))
		}
	}
	t.mu.Unlock()

	for _, a := range released {
		t.controls.SetControlState(a.String(), false)
	}
}

// MoveForward holds forward for d.
func (t *Timer) MoveForward(d time.Duration) { t.Activate(Forward, d) }

// MoveBackward holds back for d.
func (t *Timer) MoveBackward(d time.Duration) { t.Activate(Back, d) }

// MoveLeft holds left for d.
func (t *Timer) MoveLeft(d time.Duration) { t.Activate(Left, d) }

// MoveRight holds right for d.
func (t *Timer) MoveRight(d time.Duration) { t.Activate(Right, d) }

// Jump holds jump for d.
func (t *Timer) Jump(d time.Duration) { t.Activate(Jump, d) }

// Sneak holds sneak for d.
func (t *Timer) Sneak(d time.Duration) { t.Activate(Sneak, d) }

// Sprint holds sprint for d.
func (t *Timer) Sprint(d time.Duration) { t.Activate(Sprint, d) }
