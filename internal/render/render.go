// Package render turns a slide into the HTML fragment set the console
// views display. Rendering is a pure function of slide, view role and
// visibility flags; nothing here touches session state.
package render

import (
	"encoding/json"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/live"
	"github.com/quality-irrigation/mi-console/internal/sanitize"
)

// Role is the view the fragments are rendered for.
type Role string

const (
	RoleControl   Role = "control"
	RolePresenter Role = "presenter"
	RoleProjector Role = "projector"
)

// PlaceholderText is shown when no deck is loaded.
const PlaceholderText = "No slide deck loaded"

// Visibility carries the session's content toggles.
type Visibility struct {
	MediaHidden bool
	ChartHidden bool
}

// MediaItem is one renderable media entry whose source URL survived
// revalidation.
type MediaItem struct {
	Type     string `json:"type"`
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Poster   string `json:"poster,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
}

// Output is the fragment set for one slide in one role.
type Output struct {
	Placeholder string `json:"placeholder,omitempty"`

	SlideType deck.SlideType `json:"slideType,omitempty"`
	Title     string         `json:"title,omitempty"`
	Subtitle  string         `json:"subtitle,omitempty"`
	BodyHTML  string         `json:"bodyHtml,omitempty"`
	Bullets   []string       `json:"bullets,omitempty"`
	Caption   string         `json:"caption,omitempty"`
	Focus     string         `json:"focus,omitempty"`
	Act       string         `json:"act,omitempty"`

	Media     []MediaItem `json:"media,omitempty"`
	IsGallery bool        `json:"isGallery,omitempty"`

	ChartHTML   string          `json:"chartHtml,omitempty"`
	ChartEngine string          `json:"chartEngine,omitempty"`
	ChartOption json.RawMessage `json:"chartOption,omitempty"`
	ChartAlt    string          `json:"chartAlt,omitempty"`

	QAPrompt  string          `json:"qaPrompt,omitempty"`
	QAOptions []deck.QAOption `json:"qaOptions,omitempty"`
	Contacts  []deck.Contact  `json:"contacts,omitempty"`
	Metrics   []deck.Metric   `json:"metrics,omitempty"`
	Callouts  []string        `json:"callouts,omitempty"`

	SpeakerNotes []string `json:"speakerNotes,omitempty"`

	AgendaItems       []string `json:"agendaItems,omitempty"`
	AgendaActiveIndex int      `json:"agendaActiveIndex"`

	LiveCues    *deck.LiveCues `json:"liveCues,omitempty"`
	PaceLabel   string         `json:"paceLabel,omitempty"`
	TargetLabel string         `json:"targetLabel,omitempty"`

	NextSlideTitle    string `json:"nextSlideTitle,omitempty"`
	NextSlideSubtitle string `json:"nextSlideSubtitle,omitempty"`
}

// Empty is the placeholder output for a deck with no slides.
func Empty() Output {
	return Output{Placeholder: PlaceholderText, AgendaActiveIndex: -1}
}

// Slide renders one slide for a role. d supplies deck-level context
// (agenda items); next, when non-nil, fills the preview fields.
func Slide(d *deck.Deck, s *deck.Slide, next *deck.Slide, role Role, vis Visibility) Output {
	if s == nil {
		return Empty()
	}

	out := Output{
		SlideType:         s.Type,
		Title:             s.Title,
		Subtitle:          s.Subtitle,
		Caption:           s.Caption,
		Focus:             s.Focus,
		Act:               s.Act,
		Bullets:           s.Bullets,
		Callouts:          s.Callouts,
		QAPrompt:          s.QAPrompt,
		QAOptions:         s.QAOptions,
		Contacts:          s.Contacts,
		AgendaActiveIndex: -1,
		LiveCues:          s.LiveCues,
		TargetLabel:       live.TargetLabel(s.LiveCues),
	}

	if src := s.MarkdownSource(); src != "" {
		out.BodyHTML = sanitize.Render(src)
	}

	out.Metrics = filterMetrics(s.Metrics, role)

	if !vis.MediaHidden {
		out.Media, out.IsGallery = renderMedia(s.Media)
	}
	if !vis.ChartHidden {
		renderChart(&out, s.Chart, role)
	}

	// Speaker notes never reach the projector.
	if role != RoleProjector {
		out.SpeakerNotes = s.NotesLines()
	}

	if d != nil {
		out.AgendaItems = d.AgendaItems()
		out.AgendaActiveIndex = d.ActiveAgendaIndex(s)
	}
	if next != nil {
		out.NextSlideTitle = next.Title
		out.NextSlideSubtitle = next.Subtitle
	}

	return out
}

// filterMetrics keeps the metrics whose display gate matches the role.
// The default gate is both; presenter-only items are suppressed on the
// projector and vice versa.
func filterMetrics(metrics []deck.Metric, role Role) []deck.Metric {
	if len(metrics) == 0 {
		return nil
	}
	var out []deck.Metric
	for _, m := range metrics {
		if displayAllowed(m.Display, role) {
			out = append(out, m)
		}
	}
	return out
}

func displayAllowed(display deck.Display, role Role) bool {
	switch display {
	case deck.DisplayPresenter:
		return role != RoleProjector
	case deck.DisplayProjector:
		return role != RolePresenter
	default:
		return true
	}
}

// renderMedia drops every item whose source fails URL revalidation.
// Unsafe items are hidden silently, never surfaced as errors.
func renderMedia(m deck.MediaPresentation) ([]MediaItem, bool) {
	items := m.Items()
	if len(items) == 0 {
		return nil, false
	}
	var out []MediaItem
	for _, item := range items {
		if !sanitize.SafeSrc(item.Src) {
			continue
		}
		rendered := MediaItem{
			Type:    item.Type,
			Src:     item.Src,
			Alt:     item.Alt,
			Caption: item.Caption,
			Summary: item.Summary,
		}
		if sanitize.SafeSrc(item.Poster) {
			rendered.Poster = item.Poster
		}
		if sanitize.SafeHref(item.EmbedURL) {
			rendered.EmbedURL = item.EmbedURL
		}
		out = append(out, rendered)
	}
	return out, m.Single == nil && len(out) > 0
}
