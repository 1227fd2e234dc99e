package movement

import (
	"testing"
	"time"
)

type controlCall struct {
	control string
	state   bool
}

type recordingControls struct {
	calls []controlCall
}

func (r *recordingControls) SetControlState(control string, state bool) {
	r.calls = append(r.calls, controlCall{control, state})
}

func newTestTimer() (*Timer, *recordingControls, time.Time) {
	rc := &recordingControls{}
	tm := NewTimer(rc)
	start := time.Unix(1_700_000_000, 0)
	tm.SetClock(func() time.Time { return start })
	return tm, rc, start
}

func TestTimer_ActivateAndRelease(t *testing.T) {
	tm, rc, start := newTestTimer()

	tm.MoveForward(500 * time.Millisecond)
	if len(rc.calls) != 1 || rc.calls[0] != (controlCall{"forward", true}) {
		t.Fatalf("calls = %+v", rc.calls)
	}

	tm.Tick(start.Add(500 * time.Millisecond))
	if !tm.Active(Forward) {
		t.Error("released at exactly the expiry, want the first tick after")
	}

	tm.Tick(start.Add(501 * time.Millisecond))
	if tm.Active(Forward) {
		t.Error("still active after expiry")
	}
	if last := rc.calls[len(rc.calls)-1]; last != (controlCall{"forward", false}) {
		t.Errorf("last call = %+v, want forward released", last)
	}

	tm.Tick(start.Add(time.Second))
	if len(rc.calls) != 2 {
		t.Errorf("released twice: %+v", rc.calls)
	}
}

func TestTimer_ReactivateOverwrites(t *testing.T) {
	tests := []struct {
		name   string
		second time.Duration
	}{
		{"extend", 2 * time.Second},
		{"shorten", 100 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, rc, start := newTestTimer()
			tm.Sprint(time.Second)
			tm.Sprint(tt.second)

			if got := tm.Expiry(Sprint); !got.Equal(start.Add(tt.second)) {
				t.Errorf("expiry = %v, want %v", got, start.Add(tt.second))
			}

			tm.Tick(start.Add(tt.second + time.Millisecond))
			if tm.Active(Sprint) {
				t.Error("expected release after the replaced expiry")
			}

			var releases int
			for _, c := range rc.calls {
				if !c.state {
					releases++
				}
			}
			if releases != 1 {
				t.Errorf("releases = %d, want 1", releases)
			}
		})
	}
}

func TestTimer_AxesAreIndependent(t *testing.T) {
	tm, _, start := newTestTimer()

	tm.Jump(100 * time.Millisecond)
	tm.Sneak(time.Second)
	tm.MoveLeft(300 * time.Millisecond)

	tm.Tick(start.Add(200 * time.Millisecond))

	if tm.Active(Jump) {
		t.Error("jump should be released")
	}
	if !tm.Active(Sneak) || !tm.Active(Left) {
		t.Error("sneak and left should still be held")
	}
	if tm.Active(Right) || tm.Active(Back) {
		t.Error("untouched axes should be idle")
	}
}

func TestTimer_ReleaseAll(t *testing.T) {
	tm, rc, _ := newTestTimer()
	tm.MoveBackward(time.Second)
	tm.MoveRight(time.Second)
	rc.calls = nil

	tm.ReleaseAll()

	if len(rc.calls) != 2 {
		t.Fatalf("calls = %+v, want two releases", rc.calls)
	}
	for _, a := range Axes() {
		if tm.Active(a) {
			t.Errorf("%v still active", a)
		}
	}
}

func TestParseAxis(t *testing.T) {
	for _, a := range Axes() {
		got, ok := ParseAxis(a.String())
		if !ok || got != a {
			t.Errorf("ParseAxis(%q) = %v, %v", a.String(), got, ok)
		}
	}
	if _, ok := ParseAxis("fly"); ok {
		t.Error("unknown control should not parse")
	}
	if Axis(42).String() != "unknown" {
		t.Error("out of range axis should be unknown")
	}
}
