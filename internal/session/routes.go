package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quality-irrigation/mi-console/internal/deck"
)

// RegisterRoutes mounts the session REST API and the presentation
// websocket endpoint.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Get("/api/view", handleResolveView())
	r.Post("/api/sessions/{channel}/navigate", handleNavigate(m))
	r.Post("/api/sessions/{channel}/timer", handleTimer(m))
	r.Get("/api/sessions/{channel}/state", handleState(m))
	r.Get("/ws/presentation", handlePresentationWS(m))
}

func handleResolveView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resolved := ResolveView(r.URL.Query().Get("root"), r.URL.Query(), nil)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resolved)
	}
}

type navigateRequest struct {
	Action    string `json:"action"`
	Index     int    `json:"index"`
	SlideType string `json:"slide_type"`
	Scope     string `json:"scope"`
}

func handleNavigate(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := chi.URLParam(r, "channel")
		var req navigateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		s := m.Session(r.Context(), channel)
		switch req.Action {
		case "next":
			s.Next()
		case "prev", "previous":
			s.Prev()
		case "first":
			s.First()
		case "last":
			s.Last()
		case "jump":
			s.Jump(req.Index)
		case "scope":
			s.SetScope(deck.SlideType(req.SlideType), Scope(req.Scope))
		default:
			http.Error(w, `{"error":"unknown action: `+req.Action+`"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.CurrentState())
	}
}

type timerRequest struct {
	Action string `json:"action"`
}

func handleTimer(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := chi.URLParam(r, "channel")
		var req timerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		s := m.Session(r.Context(), channel)
		switch req.Action {
		case "start":
			s.StartTimer()
		case "pause":
			s.PauseTimer()
		case "resume":
			s.ResumeTimer()
		default:
			http.Error(w, `{"error":"unknown action: `+req.Action+`"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.CurrentState())
	}
}

func handleState(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := chi.URLParam(r, "channel")
		s := m.Session(r.Context(), channel)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.CurrentState())
	}
}

// handlePresentationWS attaches a view to the channel hub. The view role is
// resolved from the query; receivers get a request_state emitted on their
// behalf so the controller re-publishes its payload right away.
func handlePresentationWS(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := r.URL.Query().Get("channel")
		if channel == "" {
			channel = "main"
		}
		resolved := ResolveView(r.URL.Query().Get("root"), r.URL.Query(), nil)

		// Make sure the channel's controller session exists so the
		// attach handshake has someone to answer it.
		s := m.Session(r.Context(), channel)
		if resolved.InitialSlideIndex >= 0 && !resolved.IsReceiver {
			s.Jump(resolved.InitialSlideIndex)
		}

		m.Hub().ServeWS(w, r, channel, resolved.IsReceiver)
	}
}
