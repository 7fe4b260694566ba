package render

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/prefs"
	"github.com/quality-irrigation/mi-console/internal/session"
)

// RegisterRoutes mounts the rendered-slide endpoint. Views fetch their
// fragment set here after every slide_state message; the role query decides
// which items are gated out.
func RegisterRoutes(r chi.Router, m *session.Manager, p *prefs.Store) {
	r.Get("/api/sessions/{channel}/slide", handleRenderedSlide(m, p))
}

func handleRenderedSlide(m *session.Manager, p *prefs.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channel := chi.URLParam(r, "channel")
		s := m.Session(r.Context(), channel)

		role := roleFromQuery(r.URL.Query().Get("role"))
		vis := Visibility{
			MediaHidden: p.GetBool(prefs.KeyMediaHidden, false),
			ChartHidden: p.GetBool(prefs.KeyChartHidden, false),
		}

		out := Empty()
		if slide, d, ok := s.CurrentSlide(); ok {
			var next *deck.Slide
			if n, nextOK := s.NextSlide(); nextOK {
				next = &n
			}
			out = Slide(&d, &slide, next, role, vis)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}

func roleFromQuery(raw string) Role {
	switch Role(raw) {
	case RolePresenter, RoleProjector:
		return Role(raw)
	}
	return RoleControl
}
