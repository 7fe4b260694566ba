package cmd

import (
	"strings"
	"testing"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

func agendaDeck(extra ...deck.Slide) deck.Deck {
	d := deck.Deck{
		DeckID: "demo",
		Slides: append([]deck.Slide{
			{Type: deck.TypeAgenda, Title: "Agenda", Bullets: []string{"a", "b", "c"}},
		}, extra...),
	}
	d.Normalize()
	return d
}

func TestValidateDeckAgendaRange(t *testing.T) {
	tests := []struct {
		name  string
		index int
		warns bool
	}{
		{"unset", 0, false},
		{"first item", 1, false},
		{"last item", 3, false},
		{"past the end", 4, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := agendaDeck(deck.Slide{Title: "Body", AgendaIndex: tt.index})
			_, warnings := validateDeck("demo", d)
			if got := len(warnings) > 0; got != tt.warns {
				t.Errorf("agenda_index %d: warnings = %v, want warning %v", tt.index, warnings, tt.warns)
			}
		})
	}
}

func TestValidateDeckProblems(t *testing.T) {
	d := agendaDeck(
		deck.Slide{},
		deck.Slide{Title: "Chart", Chart: &deck.Chart{Labels: []string{"x", "y"}}},
	)
	problems, _ := validateDeck("demo", d)
	if len(problems) != 2 {
		t.Fatalf("problems = %v, want empty slide and bad chart", problems)
	}
	if !strings.Contains(problems[0], "empty") {
		t.Errorf("problems[0] = %q", problems[0])
	}
	if !strings.Contains(problems[1], "no plottable data") {
		t.Errorf("problems[1] = %q", problems[1])
	}
}

func TestValidateDeckUnsafeMediaWarns(t *testing.T) {
	d := agendaDeck(deck.Slide{
		Title: "Photo",
		Media: deck.MediaPresentation{Single: &deck.Media{Type: "image", Src: "javascript:alert(1)"}},
	})
	_, warnings := validateDeck("demo", d)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "would be hidden") {
		t.Errorf("warnings = %v", warnings)
	}
}
