package deck

import (
	"encoding/json"
	"strings"
)

// SlideType discriminates the rendering branch of a slide.
type SlideType string

const (
	TypeTitle        SlideType = "title"
	TypeAgenda       SlideType = "agenda"
	TypePoll         SlideType = "poll"
	TypePhotoMap     SlideType = "photo_map"
	TypeDashboard    SlideType = "dashboard"
	TypeDataSnapshot SlideType = "data_snapshot"
	TypeContactQA    SlideType = "contact_qa"
	TypeGeneric      SlideType = "generic"
)

// Display controls which view roles an item renders in.
type Display string

const (
	DisplayBoth      Display = "both"
	DisplayPresenter Display = "presenter"
	DisplayProjector Display = "projector"
)

// Metric is a labelled value rendered as a metric card.
type Metric struct {
	Label   string  `json:"label"`
	Value   string  `json:"value"`
	Display Display `json:"display,omitempty"`
}

// Contact is rendered as a contact card on contact_qa slides.
type Contact struct {
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// QAOption is one selectable answer for a poll/Q&A prompt.
type QAOption struct {
	Label  string `json:"label"`
	Detail string `json:"detail,omitempty"`
}

// Media describes a single media item (image, audio or video).
type Media struct {
	Type     string `json:"type"`
	Src      string `json:"src"`
	Alt      string `json:"alt,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Poster   string `json:"poster,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
}

// MediaPresentation is the load-time resolution of a slide's media field,
// which may be absent, a single object, or an array ("gallery").
type MediaPresentation struct {
	Single  *Media
	Gallery []Media
}

// IsZero reports whether the slide carries no media at all.
func (m MediaPresentation) IsZero() bool {
	return m.Single == nil && len(m.Gallery) == 0
}

// Items returns the media items in render order.
func (m MediaPresentation) Items() []Media {
	if m.Single != nil {
		return []Media{*m.Single}
	}
	return m.Gallery
}

// UnmarshalJSON accepts either a single media object or an array of them.
func (m *MediaPresentation) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*m = MediaPresentation{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []Media
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = MediaPresentation{Gallery: items}
		return nil
	}
	var single Media
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = MediaPresentation{Single: &single}
	return nil
}

// MarshalJSON preserves the original single-vs-gallery wire shape.
func (m MediaPresentation) MarshalJSON() ([]byte, error) {
	if m.Single != nil {
		return json.Marshal(m.Single)
	}
	if len(m.Gallery) > 0 {
		return json.Marshal(m.Gallery)
	}
	return []byte("null"), nil
}

// SpeakerNotes is a string or list of strings on the wire.
type SpeakerNotes struct {
	Text  string
	Items []string
}

// IsZero reports whether no notes were provided.
func (n SpeakerNotes) IsZero() bool {
	return strings.TrimSpace(n.Text) == "" && len(n.Items) == 0
}

// UnmarshalJSON accepts a plain string or an array of strings.
func (n *SpeakerNotes) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*n = SpeakerNotes{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*n = SpeakerNotes{Items: items}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*n = SpeakerNotes{Text: text}
	return nil
}

// MarshalJSON writes back the original shape.
func (n SpeakerNotes) MarshalJSON() ([]byte, error) {
	if len(n.Items) > 0 {
		return json.Marshal(n.Items)
	}
	if n.Text != "" {
		return json.Marshal(n.Text)
	}
	return []byte("null"), nil
}

// LiveCues carries presenter guidance attached to a slide.
type LiveCues struct {
	Pace              string  `json:"pace,omitempty"`
	Audience          string  `json:"audience,omitempty"`
	Focus             string  `json:"focus,omitempty"`
	Plan              string  `json:"plan,omitempty"`
	Success           string  `json:"success,omitempty"`
	TimeTargetMinutes float64 `json:"time_target_minutes,omitempty"`
	TimeTargetSeconds float64 `json:"time_target_seconds,omitempty"`
}

// ChartPoint is one x/y sample in a clarksoft chart series.
type ChartPoint struct {
	X json.RawMessage `json:"x,omitempty"`
	Y float64         `json:"y"`
}

// ChartSeries is one line in a clarksoft chart.
type ChartSeries struct {
	Label  string       `json:"label,omitempty"`
	Axis   string       `json:"axis,omitempty"`
	Style  string       `json:"style,omitempty"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points,omitempty"`
}

// ChartAxis configures one axis of a clarksoft chart.
type ChartAxis struct {
	Label  string            `json:"label,omitempty"`
	Suffix string            `json:"suffix,omitempty"`
	Min    *float64          `json:"min,omitempty"`
	Max    *float64          `json:"max,omitempty"`
	Ticks  []json.RawMessage `json:"ticks,omitempty"`
}

// Chart is the slide-level chart specification. Library selects the
// renderer: clarksoft (inline SVG), plotly/echarts (engine shim), or the
// simple proportional bar chart when labels/values are present.
type Chart struct {
	Library    string            `json:"library,omitempty"`
	Title      string            `json:"title,omitempty"`
	Note       string            `json:"note,omitempty"`
	SourceNote string            `json:"source_note,omitempty"`
	Unit       string            `json:"unit,omitempty"`
	Labels     []string          `json:"labels,omitempty"`
	Values     []json.RawMessage `json:"values,omitempty"`
	Series     []ChartSeries     `json:"series,omitempty"`
	XAxis      *ChartAxis        `json:"x_axis,omitempty"`
	YAxis      *ChartAxis        `json:"y_axis,omitempty"`
	Y2Axis     *ChartAxis        `json:"y2_axis,omitempty"`
	DataSpec   json.RawMessage   `json:"data_spec,omitempty"`
	LayoutSpec json.RawMessage   `json:"layout_spec,omitempty"`
	ConfigSpec json.RawMessage   `json:"config_spec,omitempty"`
	AltText    string            `json:"alt_text,omitempty"`
}

// Slide is one deck entry. Every field except identity is optional.
type Slide struct {
	ID           string            `json:"id,omitempty"`
	Type         SlideType         `json:"type,omitempty"`
	Title        string            `json:"title,omitempty"`
	Subtitle     string            `json:"subtitle,omitempty"`
	Markdown     string            `json:"markdown,omitempty"`
	BodyMarkdown string            `json:"body_markdown,omitempty"`
	Body         string            `json:"body,omitempty"`
	Notes        string            `json:"notes,omitempty"`
	Callout      string            `json:"callout,omitempty"`
	Caption      string            `json:"caption,omitempty"`
	Focus        string            `json:"focus,omitempty"`
	Bullets      []string          `json:"bullets,omitempty"`
	Metrics      []Metric          `json:"metrics,omitempty"`
	Callouts     []string          `json:"callouts,omitempty"`
	Media        MediaPresentation `json:"media,omitempty"`
	Chart        *Chart            `json:"chart,omitempty"`
	SpeakerNotes SpeakerNotes      `json:"speaker_notes,omitempty"`
	LiveCues     *LiveCues         `json:"live_cues,omitempty"`
	AgendaIndex  int               `json:"agenda_index,omitempty"`
	Act          string            `json:"act,omitempty"`
	Contacts     []Contact         `json:"contacts,omitempty"`
	QAPrompt     string            `json:"qa_prompt,omitempty"`
	QAOptions    []QAOption        `json:"qa_options,omitempty"`
}

// Deck is an ordered sequence of slides plus deck-level metadata. Decks are
// replaced wholesale on reload; the chart merge produces a new value.
type Deck struct {
	DeckID         string   `json:"deck_id,omitempty"`
	DeckTitle      string   `json:"deck_title,omitempty"`
	DeckGoal       string   `json:"deck_goal,omitempty"`
	DeckFocus      string   `json:"deck_focus,omitempty"`
	DeckPriorities []string `json:"deck_priorities,omitempty"`
	DeckSuccess    []string `json:"deck_success_criteria,omitempty"`
	Slides         []Slide  `json:"slides"`
}

// ChartMetadata is one externally stored chart record, keyed by the 1-based
// index of the slide it belongs to.
type ChartMetadata struct {
	SlideIndex   int             `json:"slide_index"`
	ChartLibrary string          `json:"chart_library"`
	ChartType    string          `json:"chart_type,omitempty"`
	ChartTitle   string          `json:"chart_title,omitempty"`
	AltText      string          `json:"alt_text,omitempty"`
	DataSpec     json.RawMessage `json:"data_spec,omitempty"`
	LayoutSpec   json.RawMessage `json:"layout_spec,omitempty"`
	ConfigSpec   json.RawMessage `json:"config_spec,omitempty"`
}

// CatalogEntry describes one selectable deck.
type CatalogEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	File        string `json:"file"`
	Description string `json:"description,omitempty"`
}

// Catalog is the deck listing served to deck selectors.
type Catalog struct {
	Decks         []CatalogEntry `json:"decks"`
	DefaultDeckID string         `json:"default_deck_id,omitempty"`
}
