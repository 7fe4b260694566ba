package deck

import (
	"strings"
)

// MarkdownSource returns the slide's body source: the first non-empty of
// markdown, body_markdown, body, notes, callout.
func (s *Slide) MarkdownSource() string {
	for _, candidate := range []string{s.Markdown, s.BodyMarkdown, s.Body, s.Notes, s.Callout} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// NotesLines flattens speaker notes into display lines.
func (s *Slide) NotesLines() []string {
	if len(s.SpeakerNotes.Items) > 0 {
		var lines []string
		for _, item := range s.SpeakerNotes.Items {
			if strings.TrimSpace(item) != "" {
				lines = append(lines, item)
			}
		}
		return lines
	}
	if strings.TrimSpace(s.SpeakerNotes.Text) != "" {
		return []string{s.SpeakerNotes.Text}
	}
	return nil
}

// AgendaItems returns the bullets of the first agenda slide, which define
// the deck's agenda sections.
func (d *Deck) AgendaItems() []string {
	for i := range d.Slides {
		if d.Slides[i].Type == TypeAgenda {
			return d.Slides[i].Bullets
		}
	}
	return nil
}

// ActiveAgendaIndex resolves a slide's agenda_index (1-based) against the
// deck's agenda items. Returns the 0-based item index, or -1 when the slide
// has no agenda pointer or it falls outside the agenda ("no highlight").
func (d *Deck) ActiveAgendaIndex(s *Slide) int {
	if s.AgendaIndex <= 0 {
		return -1
	}
	items := d.AgendaItems()
	if s.AgendaIndex > len(items) {
		return -1
	}
	return s.AgendaIndex - 1
}

// SlideAt returns the slide at index i, or nil when out of range.
func (d *Deck) SlideAt(i int) *Slide {
	if i < 0 || i >= len(d.Slides) {
		return nil
	}
	return &d.Slides[i]
}

// Normalize fills in per-slide defaults decided once at load time: the
// slide type defaults to generic, and bullet/metric/callout slices drop
// blank entries so renderers never re-check them.
func (d *Deck) Normalize() {
	for i := range d.Slides {
		s := &d.Slides[i]
		if s.Type == "" {
			s.Type = TypeGeneric
		}
		s.Bullets = compactStrings(s.Bullets)
		s.Callouts = compactStrings(s.Callouts)
	}
}

func compactStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	out := in[:0]
	for _, v := range in {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
