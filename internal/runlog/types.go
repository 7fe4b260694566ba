// Package runlog persists who presented what and when: presentations,
// their versions, individual runs, and the per-slide navigation actions
// recorded during a run.
package runlog

import "time"

// Presentation is the top-level record a set of versions hangs off.
type Presentation struct {
	ID          string    `json:"presentation_id"`
	Title       string    `json:"presentation_title"`
	Description string    `json:"presentation_description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Version is one revision of a presentation's deck content.
type Version struct {
	ID                string    `json:"presentation_version_id"`
	PresentationID    string    `json:"presentation_id"`
	PresentationTitle string    `json:"presentation_title,omitempty"`
	VersionLabel      string    `json:"version_label"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// Run is one live delivery of a presentation version.
type Run struct {
	ID            string    `json:"presentation_run_id"`
	VersionID     string    `json:"presentation_version_id"`
	PresenterName string    `json:"presenter_name,omitempty"`
	StartedAt     time.Time `json:"started_at"`
}

// Action is one navigation event inside a run.
type Action struct {
	ID         string    `json:"presenter_action_id"`
	RunID      string    `json:"presentation_run_id"`
	EventType  string    `json:"event_type"`
	SlideID    string    `json:"slide_id,omitempty"`
	SlideType  string    `json:"slide_type,omitempty"`
	SlideIndex int       `json:"slide_index"`
	CreatedAt  time.Time `json:"created_at"`
}
