package deck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// Loader resolves decks from an upstream slides API when configured, or from
// the local library otherwise, and merges chart metadata for the resolved
// deck id. Callers keep their last good deck when Load fails; the loader
// never clears anything.
type Loader struct {
	// BaseURL of an upstream slides API (serving /api/slides and
	// /api/slide-charts). Empty means library-only.
	BaseURL string
	Library *Library
	// Charts supplies stored chart metadata when no upstream is
	// configured. Optional.
	Charts ChartSource
	Client *http.Client
}

// NewLoader returns a Loader over the given library. baseURL may be empty.
func NewLoader(lib *Library, baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		Library: lib,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Load fetches the deck identified by deckID (empty selects the default),
// then fetches and merges chart metadata when the deck resolves to a server
// id. Chart metadata failure is not fatal: the deck is returned unmerged.
func (l *Loader) Load(ctx context.Context, deckID string) (Deck, error) {
	var (
		d   Deck
		err error
	)
	if l.BaseURL != "" {
		d, err = l.fetchDeck(ctx, deckID)
	} else {
		d, err = l.Library.Resolve(deckID)
	}
	if err != nil {
		return Deck{}, err
	}

	if d.DeckID != "" {
		charts, err := l.fetchChartMetadata(ctx, d.DeckID)
		if err == nil {
			d = MergeCharts(d, charts)
		}
	}
	return d, nil
}

func (l *Loader) fetchChartMetadata(ctx context.Context, deckID string) ([]ChartMetadata, error) {
	if l.BaseURL != "" {
		return l.FetchCharts(ctx, deckID)
	}
	if l.Charts != nil {
		return l.Charts.ChartsForDeck(ctx, deckID)
	}
	return nil, nil
}

// LoadFile reads a deck from a local file. The deck id is cleared so that a
// reload re-serves the same local payload instead of refetching upstream.
func LoadFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("loading deck file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a raw deck payload, as from the inline editor buffer.
// Malformed JSON returns an error and nothing else happens; the deck id is
// cleared on success (no server identity for local payloads).
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("parsing deck JSON: %w", err)
	}
	if len(d.Slides) == 0 {
		return Deck{}, fmt.Errorf("deck has no slides")
	}
	d.DeckID = ""
	d.Normalize()
	return d, nil
}

func (l *Loader) fetchDeck(ctx context.Context, deckID string) (Deck, error) {
	u := l.BaseURL + "/api/slides"
	if deckID != "" {
		u += "?deck=" + url.QueryEscape(deckID)
	}
	body, err := l.get(ctx, u)
	if err != nil {
		return Deck{}, fmt.Errorf("fetching deck %q: %w", deckID, err)
	}
	var d Deck
	if err := json.Unmarshal(body, &d); err != nil {
		return Deck{}, fmt.Errorf("parsing deck %q: %w", deckID, err)
	}
	if len(d.Slides) == 0 {
		return Deck{}, fmt.Errorf("deck %q has no slides", deckID)
	}
	d.Normalize()
	return d, nil
}

// FetchCharts retrieves chart metadata for a deck from the upstream API.
// Returns nil metadata without error when no upstream is configured.
func (l *Loader) FetchCharts(ctx context.Context, deckID string) ([]ChartMetadata, error) {
	if l.BaseURL == "" {
		return nil, nil
	}
	u := l.BaseURL + "/api/slide-charts?deck_id=" + url.QueryEscape(deckID)
	body, err := l.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetching charts for %q: %w", deckID, err)
	}
	var resp struct {
		Charts []ChartMetadata `json:"charts"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing charts for %q: %w", deckID, err)
	}
	return resp.Charts, nil
}

func (l *Loader) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
