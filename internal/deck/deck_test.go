package deck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMediaPresentationShapes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		single  bool
		gallery int
	}{
		{"absent", `{}`, false, 0},
		{"single object", `{"media":{"type":"image","src":"https://x/a.png"}}`, true, 0},
		{"gallery", `{"media":[{"type":"image","src":"https://x/a.png"},{"type":"image","src":"https://x/b.png"}]}`, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Slide
			if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if (s.Media.Single != nil) != tt.single {
				t.Errorf("single = %v, want %v", s.Media.Single != nil, tt.single)
			}
			if len(s.Media.Gallery) != tt.gallery {
				t.Errorf("gallery len = %d, want %d", len(s.Media.Gallery), tt.gallery)
			}
		})
	}
}

func TestSpeakerNotesShapes(t *testing.T) {
	var s Slide
	if err := json.Unmarshal([]byte(`{"speaker_notes":"one line"}`), &s); err != nil {
		t.Fatalf("unmarshal string notes: %v", err)
	}
	if got := s.NotesLines(); len(got) != 1 || got[0] != "one line" {
		t.Errorf("NotesLines = %v", got)
	}

	if err := json.Unmarshal([]byte(`{"speaker_notes":["a","","b"]}`), &s); err != nil {
		t.Fatalf("unmarshal list notes: %v", err)
	}
	if got := s.NotesLines(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("NotesLines = %v", got)
	}
}

func TestMarkdownSourcePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		slide Slide
		want  string
	}{
		{"markdown wins", Slide{Markdown: "md", Body: "body", Notes: "notes"}, "md"},
		{"body_markdown next", Slide{BodyMarkdown: "bm", Body: "body"}, "bm"},
		{"body next", Slide{Body: "body", Notes: "notes"}, "body"},
		{"notes next", Slide{Notes: "notes", Callout: "call"}, "notes"},
		{"callout last", Slide{Callout: "call"}, "call"},
		{"blank skipped", Slide{Markdown: "   ", Body: "body"}, "body"},
		{"none", Slide{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.slide.MarkdownSource(); got != tt.want {
				t.Errorf("MarkdownSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAgendaResolution(t *testing.T) {
	d := Deck{Slides: []Slide{
		{Type: TypeTitle},
		{Type: TypeAgenda, Bullets: []string{"Intro", "Data", "Wrap"}},
		{Type: TypeGeneric, AgendaIndex: 2},
		{Type: TypeGeneric, AgendaIndex: 9},
	}}

	if items := d.AgendaItems(); len(items) != 3 {
		t.Fatalf("AgendaItems len = %d, want 3", len(items))
	}
	if got := d.ActiveAgendaIndex(&d.Slides[2]); got != 1 {
		t.Errorf("in-range agenda index = %d, want 1", got)
	}
	if got := d.ActiveAgendaIndex(&d.Slides[3]); got != -1 {
		t.Errorf("out-of-range agenda index = %d, want -1", got)
	}
	if got := d.ActiveAgendaIndex(&d.Slides[0]); got != -1 {
		t.Errorf("absent agenda index = %d, want -1", got)
	}
}

func TestMergeCharts(t *testing.T) {
	d := Deck{Slides: make([]Slide, 4)}
	charts := []ChartMetadata{
		{SlideIndex: 1, ChartLibrary: "plotly", ChartTitle: "first"},
		{SlideIndex: 4, ChartLibrary: "plotly", ChartTitle: "last"},
		{SlideIndex: 9, ChartLibrary: "plotly", ChartTitle: "stale"},
		{SlideIndex: 2, ChartLibrary: "echarts", ChartTitle: "unsupported"},
	}

	merged := MergeCharts(d, charts)

	if merged.Slides[0].Chart == nil || merged.Slides[0].Chart.Title != "first" {
		t.Errorf("slide 1 chart not merged: %+v", merged.Slides[0].Chart)
	}
	if merged.Slides[3].Chart == nil || merged.Slides[3].Chart.Title != "last" {
		t.Errorf("slide 4 chart not merged: %+v", merged.Slides[3].Chart)
	}
	if merged.Slides[1].Chart != nil {
		t.Errorf("non-plotly metadata applied to slide 2")
	}
	// Merge returns a new value; the input deck is untouched.
	if d.Slides[0].Chart != nil {
		t.Errorf("input deck mutated by merge")
	}
}

func TestParseClearsDeckID(t *testing.T) {
	d, err := Parse([]byte(`{"deck_id":"server-id","slides":[{"title":"x"}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.DeckID != "" {
		t.Errorf("DeckID = %q, want cleared", d.DeckID)
	}
	if d.Slides[0].Type != TypeGeneric {
		t.Errorf("slide type = %q, want generic default", d.Slides[0].Type)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := Parse([]byte(`{"slides":[]}`)); err == nil {
		t.Fatal("expected error for empty slide array")
	}
}

func writeDeckFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLibraryScanAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeDeckFile(t, dir, "alpha.json", `{"deck_id":"alpha","deck_title":"Alpha","slides":[{"title":"a"}]}`)
	writeDeckFile(t, dir, "beta.json", `{"deck_title":"Beta","slides":[{"title":"b"}]}`)
	writeDeckFile(t, dir, "broken.json", `{nope`)
	writeDeckFile(t, dir, "notes.txt", `not a deck`)

	lib := NewLibrary(dir)
	catalog, err := lib.Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(catalog.Decks) != 2 {
		t.Fatalf("catalog has %d decks, want 2", len(catalog.Decks))
	}
	if catalog.Decks[0].ID != "alpha" || catalog.Decks[1].ID != "beta" {
		t.Errorf("catalog ids = %s, %s", catalog.Decks[0].ID, catalog.Decks[1].ID)
	}
	if catalog.DefaultDeckID != "alpha" {
		t.Errorf("DefaultDeckID = %q, want alpha", catalog.DefaultDeckID)
	}

	d, err := lib.Resolve("beta")
	if err != nil {
		t.Fatalf("Resolve(beta): %v", err)
	}
	if d.DeckID != "beta" || d.DeckTitle != "Beta" {
		t.Errorf("resolved deck = %q / %q", d.DeckID, d.DeckTitle)
	}

	if _, err := lib.Resolve("missing"); err == nil {
		t.Error("expected error for unknown deck id")
	}
}

func TestLoaderFetchesAndMerges(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-store" {
			t.Errorf("missing Cache-Control: no-store on %s", r.URL.Path)
		}
		switch r.URL.Path {
		case "/api/slides":
			w.Write([]byte(`{"deck_id":"d1","slides":[{"title":"one"},{"title":"two"}]}`))
		case "/api/slide-charts":
			if r.URL.Query().Get("deck_id") != "d1" {
				t.Errorf("deck_id = %q", r.URL.Query().Get("deck_id"))
			}
			w.Write([]byte(`{"charts":[{"slide_index":2,"chart_library":"plotly","chart_title":"flow"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	loader := NewLoader(nil, upstream.URL)
	d, err := loader.Load(t.Context(), "d1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Slides[1].Chart == nil || d.Slides[1].Chart.Title != "flow" {
		t.Errorf("chart not merged onto slide 2: %+v", d.Slides[1].Chart)
	}
	if d.Slides[0].Chart != nil {
		t.Errorf("unexpected chart on slide 1")
	}
}

func TestDeckRoutes(t *testing.T) {
	dir := t.TempDir()
	writeDeckFile(t, dir, "demo.json", `{"deck_id":"demo","deck_title":"Demo","slides":[{"title":"a"}]}`)

	r := chi.NewRouter()
	RegisterRoutes(r, NewLibrary(dir), nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/slide-decks")
	if err != nil {
		t.Fatalf("GET /api/slide-decks: %v", err)
	}
	defer resp.Body.Close()
	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(catalog.Decks) != 1 || catalog.Decks[0].ID != "demo" {
		t.Errorf("catalog = %+v", catalog)
	}

	resp2, err := http.Get(srv.URL + "/api/slides?deck=demo")
	if err != nil {
		t.Fatalf("GET /api/slides: %v", err)
	}
	defer resp2.Body.Close()
	var d Deck
	if err := json.NewDecoder(resp2.Body).Decode(&d); err != nil {
		t.Fatalf("decode deck: %v", err)
	}
	if d.DeckTitle != "Demo" || len(d.Slides) != 1 {
		t.Errorf("deck = %+v", d)
	}

	resp3, err := http.Get(srv.URL + "/api/slides?deck=missing")
	if err != nil {
		t.Fatalf("GET missing deck: %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusNotFound {
		t.Errorf("missing deck status = %d, want 404", resp3.StatusCode)
	}
}
