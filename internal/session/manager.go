package session

import (
	"context"
	"log"
	"sync"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

// Manager owns the server-side controller session per channel. Sessions
// are created on first use, attached to the hub, and seeded with the
// default deck.
type Manager struct {
	hub    *transport.Hub
	loader *deck.Loader

	mu        sync.Mutex
	sessions  map[string]*Session
	observers []Observer
}

// NewManager returns a manager creating sessions over the given hub.
func NewManager(hub *transport.Hub, loader *deck.Loader) *Manager {
	return &Manager{
		hub:      hub,
		loader:   loader,
		sessions: make(map[string]*Session),
	}
}

// AddObserver registers a navigation observer applied to every session,
// existing and future.
func (m *Manager) AddObserver(obs Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, obs)
	for _, s := range m.sessions {
		s.AddObserver(obs)
	}
}

// Session returns the controller session for a channel, creating and
// seeding it on first use. A deck load failure still yields a usable
// session: it simply has no slides until a deck arrives.
func (m *Manager) Session(ctx context.Context, channel string) *Session {
	m.mu.Lock()
	if s, ok := m.sessions[channel]; ok {
		m.mu.Unlock()
		return s
	}
	s := New(ViewControl, nil)
	for _, obs := range m.observers {
		s.AddObserver(obs)
	}
	m.sessions[channel] = s
	m.mu.Unlock()

	s.Attach(m.hub.Transport(channel))
	if m.loader != nil {
		if d, err := m.loader.Load(ctx, ""); err != nil {
			log.Printf("session: seeding channel %s: %v", channel, err)
		} else {
			s.ApplyDeck(d)
		}
	}
	return s
}

// Peek returns the session for a channel without creating one.
func (m *Manager) Peek(channel string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[channel]
	return s, ok
}

// Loader exposes the manager's deck loader.
func (m *Manager) Loader() *deck.Loader { return m.loader }

// Hub exposes the manager's transport hub.
func (m *Manager) Hub() *transport.Hub { return m.hub }
