package live

import (
	"fmt"
	"math"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

// Default per-slide dwell window shown when no target is configured.
const (
	SlideTargetMinSeconds = 60
	SlideTargetMaxSeconds = 90
)

// PaceState buckets slide dwell time against the configured target.
type PaceState string

const (
	PaceNeutral PaceState = "neutral"
	PaceAhead   PaceState = "ahead"
	PaceOnTrack PaceState = "on-track"
	PaceBehind  PaceState = "behind"
)

// Pace is the advisory classification plus its display label.
type Pace struct {
	State PaceState `json:"state"`
	Label string    `json:"label"`
}

// goalSeconds resolves the per-slide target: explicit seconds win, then
// minutes converted, else zero (no target).
func goalSeconds(cues *deck.LiveCues) float64 {
	if cues == nil {
		return 0
	}
	if cues.TimeTargetSeconds > 0 {
		return cues.TimeTargetSeconds
	}
	if cues.TimeTargetMinutes > 0 {
		return cues.TimeTargetMinutes * 60
	}
	return 0
}

// ClassifyPace compares slide dwell time to the slide's target window.
// Advisory only: at most 90% of target is ahead, up to 110% on track,
// beyond that the presenter should slow down. No target means neutral.
func ClassifyPace(cues *deck.LiveCues, slideSeconds float64) Pace {
	goal := goalSeconds(cues)
	if goal <= 0 {
		return Pace{State: PaceNeutral, Label: "Pace: not set"}
	}
	ratio := slideSeconds / goal
	switch {
	case ratio <= 0.9:
		return Pace{State: PaceAhead, Label: "Pace: ahead"}
	case ratio <= 1.1:
		return Pace{State: PaceOnTrack, Label: "Pace: on track"}
	default:
		return Pace{State: PaceBehind, Label: "Pace: slow down"}
	}
}

// TargetLabel renders the slide's target window for display. Minutes are
// preferred for the label even though seconds win for pace math.
func TargetLabel(cues *deck.LiveCues) string {
	if cues != nil && cues.TimeTargetMinutes > 0 {
		if cues.TimeTargetMinutes == math.Trunc(cues.TimeTargetMinutes) {
			return fmt.Sprintf("Target: %d min", int(cues.TimeTargetMinutes))
		}
		return fmt.Sprintf("Target: %.1f min", cues.TimeTargetMinutes)
	}
	if cues != nil && cues.TimeTargetSeconds > 0 {
		return fmt.Sprintf("Target: %ds", int(math.Round(cues.TimeTargetSeconds)))
	}
	return fmt.Sprintf("Target: %d-%ds", SlideTargetMinSeconds, SlideTargetMaxSeconds)
}
