package session

import (
	"net/url"
	"strconv"

	"github.com/quality-irrigation/mi-console/internal/layout"
)

// ViewMode is the role a console view plays.
type ViewMode string

const (
	ViewControl    ViewMode = "control"
	ViewPresenter  ViewMode = "presenter"
	ViewFullscreen ViewMode = "fullscreen"
)

// StoredConfig is the persisted session-config blob consulted when the
// request itself does not pin a view.
type StoredConfig struct {
	View           string `json:"view,omitempty"`
	Deck           string `json:"deck,omitempty"`
	Slide          string `json:"slide,omitempty"`
	ContentDensity string `json:"content_density,omitempty"`
}

// ResolvedView is the immutable derived state fixed before anything else
// runs. It is echoed back to the client so the view can branch on it.
type ResolvedView struct {
	ViewMode   ViewMode `json:"viewMode"`
	IsReceiver bool     `json:"isReceiver"`
	DeckID     string   `json:"deckId,omitempty"`
	// InitialSlideIndex is 0-based; -1 means no initial slide requested.
	InitialSlideIndex int `json:"initialSlideIndex"`

	// Layout hints derived from the reported viewport. Omitted when the
	// request carries no w/h parameters.
	Density layout.Density `json:"density,omitempty"`
	Layout  layout.Mode    `json:"layout,omitempty"`
	Scale   float64        `json:"scale,omitempty"`
}

// ResolveView derives the view role and initial deck/slide selection.
// Precedence for the view: explicit root attribute, then the view query
// parameter, then the stored config, then control. Only presenter and
// fullscreen are recognized; anything else is control. Receivers are
// presenter and fullscreen views; they never originate broadcasts.
func ResolveView(rootAttr string, query url.Values, stored *StoredConfig) ResolvedView {
	raw := rootAttr
	if raw == "" {
		raw = query.Get("view")
	}
	if raw == "" && stored != nil {
		raw = stored.View
	}

	mode := ViewControl
	switch ViewMode(raw) {
	case ViewFullscreen:
		mode = ViewFullscreen
	case ViewPresenter:
		mode = ViewPresenter
	}

	deckID := query.Get("deck")
	if deckID == "" && stored != nil {
		deckID = stored.Deck
	}

	slideRaw := query.Get("slide")
	if slideRaw == "" && stored != nil {
		slideRaw = stored.Slide
	}
	initial := -1
	if slideRaw != "" {
		// The slide parameter is 1-based; zero or negative is ignored.
		if n, err := strconv.Atoi(slideRaw); err == nil && n > 0 {
			initial = n - 1
		}
	}

	resolved := ResolvedView{
		ViewMode:          mode,
		IsReceiver:        mode == ViewPresenter || mode == ViewFullscreen,
		DeckID:            deckID,
		InitialSlideIndex: initial,
	}

	densityPref := query.Get("density")
	if densityPref == "" && stored != nil {
		densityPref = stored.ContentDensity
	}
	if w, h, ok := viewportFromQuery(query); ok {
		resolved.Density = layout.ResolveDensity(layout.NormalizeDensity(densityPref), w, h)
		resolved.Layout = layout.Classify(w, h)
		resolved.Scale = layout.ConsoleScale(w, h, consoleRequiredWidth, consoleRequiredHeight)
	}
	return resolved
}

// Footprint the console layout is designed for; smaller viewports scale down.
const (
	consoleRequiredWidth  = 1280
	consoleRequiredHeight = 720
)

func viewportFromQuery(query url.Values) (w, h float64, ok bool) {
	w, errW := strconv.ParseFloat(query.Get("w"), 64)
	h, errH := strconv.ParseFloat(query.Get("h"), 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
