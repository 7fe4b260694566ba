package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/live"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

// Scope selects which slides are navigable: the full deck or a single type.
type Scope string

const (
	ScopeDeck Scope = "deck"
	ScopeType Scope = "type"
)

// NavEvent is emitted on every user-driven navigation transition.
// Subscribers (the presenter-action recorder) own their failure handling;
// nothing here waits on them.
type NavEvent struct {
	EventType  string
	SlideID    string
	SlideType  deck.SlideType
	SlideIndex int // 1-based, matching the action log format
}

// Observer receives navigation events.
type Observer func(NavEvent)

// DeckLoadFunc lets a receiver session follow the controller onto a deck it
// has not loaded yet.
type DeckLoadFunc func(ctx context.Context, deckID string) (deck.Deck, error)

// Session owns one presentation: the deck, the scope-filtered slide list,
// the current index, the live timer, and the channel transport. Invariant:
// currentIndex stays within [0, len(scopeSlides)) whenever scopeSlides is
// non-empty; with no slides the index is 0 and views render a placeholder.
type Session struct {
	mu sync.Mutex

	role    ViewMode
	deckID  string
	deck    deck.Deck
	hasDeck bool

	scopeSlides  []deck.Slide
	currentIndex int
	slideType    deck.SlideType
	slideScope   Scope
	agendaItems  []string

	// Requested landing index, consumed by the next deck application.
	pendingSlideIndex int
	initialSlideIndex int

	lastLiveCues  *deck.LiveCues
	lastLiveState live.State

	timer     *live.Timer
	tr        transport.Transport
	cancelSub func()
	observers []Observer
	loadDeck  DeckLoadFunc
}

// New creates a detached session for the given role. A nil timer gets a
// wall-clock one.
func New(role ViewMode, timer *live.Timer) *Session {
	if timer == nil {
		timer = live.NewTimer(nil)
	}
	return &Session{
		role:              role,
		slideScope:        ScopeDeck,
		pendingSlideIndex: -1,
		initialSlideIndex: -1,
		timer:             timer,
	}
}

// SetInitialSlide records a requested 1-based landing slide from the view
// resolver; it is consumed and clamped when a deck arrives.
func (s *Session) SetInitialSlide(index0 int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index0 >= 0 {
		s.initialSlideIndex = index0
	}
}

// SetDeckLoader installs the loader a receiver uses to follow deck changes.
func (s *Session) SetDeckLoader(fn DeckLoadFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadDeck = fn
}

// AddObserver registers a navigation event subscriber.
func (s *Session) AddObserver(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Attach wires the session to a transport. Controllers answer request_state
// by re-broadcasting their payload; receivers apply inbound state and emit
// request_state so an already-running controller syncs them immediately.
func (s *Session) Attach(tr transport.Transport) {
	s.mu.Lock()
	s.tr = tr
	isReceiver := s.role != ViewControl
	s.mu.Unlock()

	cancel := tr.Subscribe(func(msg transport.Message) {
		if msg.Type == transport.TypeRequestState {
			if !isReceiver {
				s.mu.Lock()
				s.broadcastLocked()
				s.mu.Unlock()
			}
			return
		}
		if isReceiver {
			s.handleMessage(msg)
		}
	})

	s.mu.Lock()
	s.cancelSub = cancel
	s.mu.Unlock()

	if isReceiver {
		tr.Publish(transport.RequestState())
	}
}

// Close detaches the session from its transport.
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancelSub
	s.cancelSub = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// ApplyDeck replaces the session's deck wholesale and lands on the
// requested slide when one is pending, clamped to the new length.
func (s *Session) ApplyDeck(d deck.Deck) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck = d
	s.deckID = d.DeckID
	s.hasDeck = true
	s.agendaItems = d.AgendaItems()
	s.applyScopeLocked()

	if idx := s.resolveRequestedIndexLocked(); idx >= 0 {
		s.currentIndex = idx
	} else {
		s.currentIndex = 0
	}
	s.afterTransitionLocked("")
}

// Next advances by one slide, wrapping past the end.
func (s *Session) Next() { s.step(1, "next") }

// Prev steps back one slide, wrapping past the start.
func (s *Session) Prev() { s.step(-1, "previous") }

func (s *Session) step(delta int, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.scopeSlides)
	if n == 0 {
		return
	}
	s.currentIndex = (s.currentIndex + delta + n) % n
	s.afterTransitionLocked(eventType)
}

// Jump moves to the given index, clamped into range.
func (s *Session) Jump(index int) { s.jumpTo(index, "jump") }

// First jumps to the first slide.
func (s *Session) First() { s.jumpTo(0, "first") }

// Last jumps to the final slide.
func (s *Session) Last() {
	s.mu.Lock()
	n := len(s.scopeSlides)
	s.mu.Unlock()
	s.jumpTo(n-1, "last")
}

func (s *Session) jumpTo(index int, eventType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.scopeSlides)
	if n == 0 {
		return
	}
	s.currentIndex = clamp(index, 0, n-1)
	s.afterTransitionLocked(eventType)
}

// SetScope switches between full-deck navigation and a single-type subset.
// A filter matching no slides falls back to the full deck, so a non-empty
// deck never yields an empty navigable set.
func (s *Session) SetScope(slideType deck.SlideType, scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scope != ScopeType {
		scope = ScopeDeck
	}
	s.slideType = slideType
	s.slideScope = scope
	s.applyScopeLocked()
	if len(s.scopeSlides) == 0 {
		return
	}
	s.currentIndex = clamp(s.currentIndex, 0, len(s.scopeSlides)-1)
	s.afterTransitionLocked("scope")
}

// PauseTimer freezes the live timer.
func (s *Session) PauseTimer() { s.timer.Pause() }

// ResumeTimer unfreezes the live timer without counting the pause.
func (s *Session) ResumeTimer() { s.timer.Resume() }

// StartTimer anchors the presentation clock.
func (s *Session) StartTimer() { s.timer.Start() }

// Timer exposes the session's live timer.
func (s *Session) Timer() *live.Timer { return s.timer }

// RunLiveTicker broadcasts live_state once a second until ctx ends.
// Controller only; receivers render inbound live_state instead.
func (s *Session) RunLiveTicker(ctx context.Context) {
	s.mu.Lock()
	if s.role != ViewControl {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.timer.Start()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.timer.Paused() {
				continue
			}
			s.mu.Lock()
			cues := s.lastLiveCues
			tr := s.tr
			s.mu.Unlock()
			if tr != nil {
				tr.Publish(transport.LiveState(s.timer.Snapshot(), cues))
			}
		}
	}
}

// State is the queryable session snapshot.
type State struct {
	DeckID      string         `json:"deckId,omitempty"`
	DeckTitle   string         `json:"deckTitle,omitempty"`
	SlideIndex  int            `json:"slideIndex"`
	SlideCount  int            `json:"slideCount"`
	SlideScope  Scope          `json:"slideScope"`
	SlideType   deck.SlideType `json:"slideType,omitempty"`
	AgendaItems []string       `json:"agendaItems,omitempty"`
	Live        live.State     `json:"live"`
	Pace        live.Pace      `json:"pace"`
}

// CurrentState snapshots the session for the state endpoint and MCP tools.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.timer.Snapshot()
	if s.role != ViewControl && s.lastLiveState.Clock != "" {
		// Receivers mirror the controller's clock instead of running
		// their own.
		snap = s.lastLiveState
	}
	return State{
		DeckID:      s.deckID,
		DeckTitle:   s.deck.DeckTitle,
		SlideIndex:  s.currentIndex,
		SlideCount:  len(s.scopeSlides),
		SlideScope:  s.slideScope,
		SlideType:   s.slideType,
		AgendaItems: s.agendaItems,
		Live:        snap,
		Pace:        live.ClassifyPace(s.lastLiveCues, float64(snap.SlideSeconds)),
	}
}

// CurrentSlide returns a copy of the active slide and the deck it belongs
// to; ok is false when no slides are loaded.
func (s *Session) CurrentSlide() (slide deck.Slide, d deck.Deck, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scopeSlides) == 0 {
		return deck.Slide{}, s.deck, false
	}
	return s.scopeSlides[s.currentIndex], s.deck, true
}

// NextSlide returns a copy of the upcoming slide, if any. No wrap: the last
// slide has no preview.
func (s *Session) NextSlide() (deck.Slide, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex+1 >= len(s.scopeSlides) {
		return deck.Slide{}, false
	}
	return s.scopeSlides[s.currentIndex+1], true
}

// applyScopeLocked recomputes scopeSlides from the deck and scope settings.
func (s *Session) applyScopeLocked() {
	if s.slideScope == ScopeType {
		var filtered []deck.Slide
		for _, sl := range s.deck.Slides {
			if sl.Type == s.slideType {
				filtered = append(filtered, sl)
			}
		}
		if len(filtered) > 0 {
			s.scopeSlides = filtered
			return
		}
	}
	s.scopeSlides = s.deck.Slides
}

// resolveRequestedIndexLocked consumes the pending/initial landing index,
// clamped to the scope length. Returns -1 when nothing was requested.
func (s *Session) resolveRequestedIndexLocked() int {
	total := len(s.scopeSlides)
	if total <= 0 {
		return -1
	}
	candidate := s.pendingSlideIndex
	if candidate < 0 {
		candidate = s.initialSlideIndex
	}
	s.pendingSlideIndex = -1
	s.initialSlideIndex = -1
	if candidate < 0 {
		return -1
	}
	return clamp(candidate, 0, total-1)
}

// afterTransitionLocked runs the unconditional transition tail: reset the
// slide clock, capture the slide's live cues, broadcast (controller only),
// and emit the navigation event.
func (s *Session) afterTransitionLocked(eventType string) {
	if len(s.scopeSlides) == 0 {
		return
	}
	slide := s.scopeSlides[s.currentIndex]

	s.timer.MarkSlide()
	s.lastLiveCues = slide.LiveCues
	s.broadcastLocked()

	if eventType == "" {
		return
	}
	event := NavEvent{
		EventType:  eventType,
		SlideID:    slide.ID,
		SlideType:  slide.Type,
		SlideIndex: s.currentIndex + 1,
	}
	for _, obs := range s.observers {
		obs(event)
	}
}

// broadcastLocked publishes the full slide payload. Receivers and empty
// sessions never broadcast.
func (s *Session) broadcastLocked() {
	if s.tr == nil || s.role != ViewControl || len(s.scopeSlides) == 0 {
		return
	}

	slide := s.scopeSlides[s.currentIndex]
	msg := transport.SlideState(s.currentIndex)
	msg.DeckID = s.deckID
	msg.SlideType = string(s.slideType)
	msg.SlideScope = string(s.slideScope)
	msg.SlideTitle = slide.Title
	msg.SlideSubtitle = slide.Subtitle
	msg.SlideMarkdown = slide.MarkdownSource()
	msg.LiveCues = s.lastLiveCues
	if s.currentIndex+1 < len(s.scopeSlides) {
		next := s.scopeSlides[s.currentIndex+1]
		msg.NextSlideTitle = next.Title
		msg.NextSlideSubtitle = next.Subtitle
	}
	// Local decks have no server id; ship the deck itself so receivers
	// can follow.
	if s.deckID == "" && s.hasDeck {
		deckCopy := s.deck
		msg.DeckData = &deckCopy
	}

	if err := s.tr.Publish(msg); err != nil {
		log.Printf("session: broadcast: %v", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
