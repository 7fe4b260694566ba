package live

import (
	"testing"
	"time"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func TestTimerElapsed(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.now)
	timer.Start()

	clock.advance(90 * time.Second)
	s := timer.Snapshot()
	if s.ElapsedSeconds != 90 || s.SlideSeconds != 90 {
		t.Errorf("snapshot = %+v, want 90/90", s)
	}

	timer.MarkSlide()
	clock.advance(10 * time.Second)
	s = timer.Snapshot()
	if s.ElapsedSeconds != 100 || s.SlideSeconds != 10 {
		t.Errorf("snapshot after mark = %+v, want 100/10", s)
	}
}

func TestPauseResumeExcludesPausedTime(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.now)
	timer.Start()

	clock.advance(30 * time.Second)
	before := timer.Snapshot()

	timer.Pause()
	clock.advance(5 * time.Minute)

	// Readings are frozen while paused.
	frozen := timer.Snapshot()
	if frozen.ElapsedSeconds != before.ElapsedSeconds {
		t.Errorf("paused elapsed = %d, want %d", frozen.ElapsedSeconds, before.ElapsedSeconds)
	}
	if !frozen.Paused {
		t.Error("snapshot not marked paused")
	}

	timer.Resume()
	after := timer.Snapshot()
	if after.ElapsedSeconds != before.ElapsedSeconds {
		t.Errorf("elapsed after resume = %d, want %d", after.ElapsedSeconds, before.ElapsedSeconds)
	}
	if after.SlideSeconds != before.SlideSeconds {
		t.Errorf("slide seconds after resume = %d, want %d", after.SlideSeconds, before.SlideSeconds)
	}

	// Time accrues normally again after resume.
	clock.advance(15 * time.Second)
	s := timer.Snapshot()
	if s.ElapsedSeconds != before.ElapsedSeconds+15 {
		t.Errorf("elapsed = %d, want %d", s.ElapsedSeconds, before.ElapsedSeconds+15)
	}
}

func TestPauseResumeIdempotent(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.now)
	timer.Start()

	timer.Resume() // resume while running is a no-op
	timer.Pause()
	timer.Pause() // double pause keeps the original pause anchor
	clock.advance(time.Minute)
	timer.Resume()

	if s := timer.Snapshot(); s.ElapsedSeconds != 0 {
		t.Errorf("elapsed = %d, want 0", s.ElapsedSeconds)
	}
}

func TestClassifyPace(t *testing.T) {
	tests := []struct {
		name         string
		cues         *deck.LiveCues
		slideSeconds float64
		want         PaceState
	}{
		{"no cues", nil, 100, PaceNeutral},
		{"no target", &deck.LiveCues{Pace: "steady"}, 100, PaceNeutral},
		{"ahead", &deck.LiveCues{TimeTargetSeconds: 100}, 90, PaceAhead},
		{"on track", &deck.LiveCues{TimeTargetSeconds: 100}, 110, PaceOnTrack},
		{"behind", &deck.LiveCues{TimeTargetSeconds: 100}, 111, PaceBehind},
		{"minutes converted", &deck.LiveCues{TimeTargetMinutes: 2}, 100, PaceAhead},
		{"seconds win over minutes", &deck.LiveCues{TimeTargetMinutes: 10, TimeTargetSeconds: 50}, 60, PaceBehind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPace(tt.cues, tt.slideSeconds)
			if got.State != tt.want {
				t.Errorf("ClassifyPace = %v, want %v", got.State, tt.want)
			}
		})
	}
}

func TestTargetLabel(t *testing.T) {
	tests := []struct {
		name string
		cues *deck.LiveCues
		want string
	}{
		{"default window", nil, "Target: 60-90s"},
		{"whole minutes", &deck.LiveCues{TimeTargetMinutes: 3}, "Target: 3 min"},
		{"fractional minutes", &deck.LiveCues{TimeTargetMinutes: 1.5}, "Target: 1.5 min"},
		{"seconds", &deck.LiveCues{TimeTargetSeconds: 75}, "Target: 75s"},
		{"minutes preferred for label", &deck.LiveCues{TimeTargetMinutes: 2, TimeTargetSeconds: 75}, "Target: 2 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetLabel(tt.cues); got != tt.want {
				t.Errorf("TargetLabel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed(754); got != "12:34" {
		t.Errorf("FormatElapsed(754) = %q", got)
	}
	if got := FormatElapsed(-5); got != "00:00" {
		t.Errorf("FormatElapsed(-5) = %q", got)
	}
}
