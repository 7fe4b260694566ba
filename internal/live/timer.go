// Package live tracks presentation and per-slide elapsed time and computes
// the advisory pace classification.
package live

import (
	"fmt"
	"sync"
	"time"
)

// State is the live timer snapshot broadcast every second.
type State struct {
	ElapsedSeconds int    `json:"elapsedSeconds"`
	SlideSeconds   int    `json:"slideSeconds"`
	Clock          string `json:"clock"`
	Paused         bool   `json:"paused,omitempty"`
}

// Timer tracks presentation-wide and slide-local elapsed time. Pausing
// freezes both readings; resuming shifts the anchors forward by the pause
// duration so paused time never counts toward elapsed time.
type Timer struct {
	mu                sync.Mutex
	now               func() time.Time
	presentationStart time.Time
	slideStart        time.Time
	pausedAt          time.Time
}

// NewTimer returns a stopped timer reading the given clock. A nil clock
// means time.Now.
func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now}
}

// Start anchors the presentation clock. Starting an already started timer
// is a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.presentationStart.IsZero() {
		return
	}
	n := t.now()
	t.presentationStart = n
	t.slideStart = n
}

// MarkSlide resets the slide-local anchor, as on every slide transition.
func (t *Timer) MarkSlide() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slideStart = t.now()
}

// Pause freezes both readings. Pausing a paused timer is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pausedAt.IsZero() {
		return
	}
	t.pausedAt = t.now()
}

// Resume shifts both anchors forward by the pause duration and unfreezes.
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pausedAt.IsZero() {
		return
	}
	pauseDuration := t.now().Sub(t.pausedAt)
	if !t.presentationStart.IsZero() {
		t.presentationStart = t.presentationStart.Add(pauseDuration)
	}
	if !t.slideStart.IsZero() {
		t.slideStart = t.slideStart.Add(pauseDuration)
	}
	t.pausedAt = time.Time{}
}

// Paused reports whether the timer is frozen.
func (t *Timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.pausedAt.IsZero()
}

// Snapshot returns the current live state. While paused the readings stay
// at their values from the moment of pausing.
func (t *Timer) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	effective := t.now()
	paused := !t.pausedAt.IsZero()
	if paused {
		effective = t.pausedAt
	}

	var elapsed, slide int
	if !t.presentationStart.IsZero() {
		elapsed = int(effective.Sub(t.presentationStart).Seconds())
	}
	if !t.slideStart.IsZero() {
		slide = int(effective.Sub(t.slideStart).Seconds())
	}

	return State{
		ElapsedSeconds: elapsed,
		SlideSeconds:   slide,
		Clock:          t.now().Format("15:04"),
		Paused:         paused,
	}
}

// FormatElapsed renders whole seconds as MM:SS.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
