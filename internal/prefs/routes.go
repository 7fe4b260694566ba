package prefs

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the preference API. Views read the whole map on
// startup and write individual keys as the user toggles settings.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/api/preferences", handleList(store))
	r.Put("/api/preferences/{key}", handleSet(store))
	r.Delete("/api/preferences/{key}", handleDelete(store))
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(store.All())
	}
}

type setRequest struct {
	Value string `json:"value"`
}

func handleSet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")
		var req setRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		store.Set(key, req.Value)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{key: req.Value})
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Delete(chi.URLParam(r, "key"))
		w.WriteHeader(http.StatusNoContent)
	}
}
