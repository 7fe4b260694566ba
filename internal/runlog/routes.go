package runlog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the run-log API. Creating a run points the recorder
// at it, so navigation events are logged from that moment on.
func RegisterRoutes(r chi.Router, store *Store, recorder *Recorder) {
	r.Post("/api/presenter-actions", handleRecordAction(store))
	r.Get("/api/presenter-actions", handleListActions(store))
	r.Post("/api/presentation-runs", handleCreateRun(store, recorder))
	r.Get("/api/presentation-versions", handleListVersions(store))
	r.Post("/api/presentation-versions", handleCreateVersion(store))
}

type actionRequest struct {
	RunID     string `json:"presentation_run_id"`
	EventType string `json:"event_type"`
	Payload   struct {
		SlideID    string `json:"slide_id"`
		SlideType  string `json:"slide_type"`
		SlideIndex int    `json:"slide_index"`
	} `json:"payload"`
}

func handleRecordAction(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.RunID == "" || req.EventType == "" {
			http.Error(w, `{"error":"presentation_run_id and event_type are required"}`, http.StatusBadRequest)
			return
		}

		err := store.RecordAction(r.Context(), Action{
			RunID:      req.RunID,
			EventType:  req.EventType,
			SlideID:    req.Payload.SlideID,
			SlideType:  req.Payload.SlideType,
			SlideIndex: req.Payload.SlideIndex,
		})
		if err != nil {
			http.Error(w, `{"error":"recording action failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"status": "recorded"})
	}
}

func handleListActions(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := r.URL.Query().Get("run_id")
		if runID == "" {
			http.Error(w, `{"error":"run_id is required"}`, http.StatusBadRequest)
			return
		}

		actions, err := store.ListActions(r.Context(), runID)
		if err != nil {
			http.Error(w, `{"error":"listing actions failed"}`, http.StatusInternalServerError)
			return
		}
		if actions == nil {
			actions = []Action{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"actions": actions})
	}
}

type runRequest struct {
	VersionID     string `json:"presentation_version_id"`
	PresenterName string `json:"presenter_name"`
}

func handleCreateRun(store *Store, recorder *Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.VersionID == "" {
			http.Error(w, `{"error":"presentation_version_id is required"}`, http.StatusBadRequest)
			return
		}

		run, err := store.CreateRun(r.Context(), req.VersionID, req.PresenterName)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error":"unknown presentation version"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"creating run failed"}`, http.StatusInternalServerError)
			return
		}

		if recorder != nil {
			recorder.SetRun(run.ID)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(run)
	}
}

type versionRequest struct {
	VersionLabel   string `json:"version_label"`
	PresentationID string `json:"presentation_id"`
	Title          string `json:"presentation_title"`
	Description    string `json:"presentation_description"`
	Notes          string `json:"notes"`
}

func handleCreateVersion(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req versionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.VersionLabel == "" {
			http.Error(w, `{"error":"version_label is required"}`, http.StatusBadRequest)
			return
		}

		presentationID := req.PresentationID
		if presentationID == "" {
			if req.Title == "" {
				http.Error(w, `{"error":"presentation_id or presentation_title is required"}`, http.StatusBadRequest)
				return
			}
			p, err := store.EnsurePresentation(r.Context(), req.Title, req.Description)
			if err != nil {
				http.Error(w, `{"error":"resolving presentation failed"}`, http.StatusInternalServerError)
				return
			}
			presentationID = p.ID
		}

		version, err := store.CreateVersion(r.Context(), presentationID, req.VersionLabel, req.Notes)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error":"unknown presentation"}`, http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"creating version failed"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(version)
	}
}

func handleListVersions(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				limit = n
			}
		}

		versions, err := store.ListVersions(r.Context(), limit)
		if err != nil {
			http.Error(w, `{"error":"listing versions failed"}`, http.StatusInternalServerError)
			return
		}
		if versions == nil {
			versions = []Version{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"versions": versions})
	}
}
