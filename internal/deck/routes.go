package deck

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChartSource supplies stored chart metadata for a deck. The sqlite store
// implements this; a nil source means no external chart metadata.
type ChartSource interface {
	ChartsForDeck(ctx context.Context, deckID string) ([]ChartMetadata, error)
}

// RegisterRoutes mounts the deck API routes.
func RegisterRoutes(r chi.Router, lib *Library, charts ChartSource) {
	r.Get("/api/slides", handleSlides(lib, charts))
	r.Get("/api/slide-charts", handleSlideCharts(charts))
	r.Get("/api/slide-decks", handleSlideDecks(lib))
}

func handleSlides(lib *Library, charts ChartSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID := r.URL.Query().Get("deck")

		d, err := lib.Resolve(deckID)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
			return
		}

		if charts != nil && d.DeckID != "" {
			if metadata, err := charts.ChartsForDeck(r.Context(), d.DeckID); err == nil {
				d = MergeCharts(d, metadata)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d)
	}
}

func handleSlideCharts(charts ChartSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID := r.URL.Query().Get("deck_id")
		if deckID == "" {
			http.Error(w, `{"error":"deck_id is required"}`, http.StatusBadRequest)
			return
		}

		var metadata []ChartMetadata
		if charts != nil {
			var err error
			metadata, err = charts.ChartsForDeck(r.Context(), deckID)
			if err != nil {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
				return
			}
		}
		if metadata == nil {
			metadata = []ChartMetadata{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string][]ChartMetadata{"charts": metadata})
	}
}

func handleSlideDecks(lib *Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := lib.Scan()
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if catalog.Decks == nil {
			catalog.Decks = []CatalogEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(catalog)
	}
}
