package session

import (
	"context"
	"log"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

// handleMessage applies inbound channel state on a receiver session.
// Last value wins; there is no ordering across the channel.
func (s *Session) handleMessage(msg transport.Message) {
	switch msg.Type {
	case transport.TypeLiveState:
		s.mu.Lock()
		s.lastLiveState.ElapsedSeconds = msg.ElapsedSeconds
		s.lastLiveState.SlideSeconds = msg.SlideSeconds
		s.lastLiveState.Clock = msg.Clock
		if msg.LiveCues != nil {
			s.lastLiveCues = msg.LiveCues
		}
		s.mu.Unlock()
	case transport.TypeSlideState:
		s.applySlideState(msg)
	}
}

func (s *Session) applySlideState(msg transport.Message) {
	s.mu.Lock()

	if msg.SlideType != "" {
		s.slideType = deck.SlideType(msg.SlideType)
	}
	if msg.SlideScope != "" {
		s.slideScope = Scope(msg.SlideScope)
	}

	// An unfamiliar deck id means the controller moved to a deck this view
	// has not loaded: remember the landing slide and follow.
	if msg.DeckID != "" && msg.DeckID != s.deckID {
		s.deckID = msg.DeckID
		s.pendingSlideIndex = indexOrNone(msg.SlideIndex)
		loadDeck := s.loadDeck
		s.mu.Unlock()
		if loadDeck != nil {
			go s.followDeck(msg.DeckID, loadDeck)
		}
		return
	}

	// Inline deck payloads carry no server identity.
	if msg.DeckData != nil {
		s.deckID = ""
		s.pendingSlideIndex = indexOrNone(msg.SlideIndex)
		s.mu.Unlock()
		d := *msg.DeckData
		d.DeckID = ""
		s.ApplyDeck(d)
		return
	}

	if msg.SlideIndex != nil && len(s.scopeSlides) > 0 {
		if idx := s.resolveIndexFor(*msg.SlideIndex); idx >= 0 {
			s.currentIndex = idx
			s.timer.MarkSlide()
		}
	}
	if msg.LiveCues != nil {
		s.lastLiveCues = msg.LiveCues
	}
	s.mu.Unlock()
}

// followDeck loads the controller's deck in the background. Failure keeps
// whatever was on screen; a warning is all the receiver gets.
func (s *Session) followDeck(deckID string, loadDeck DeckLoadFunc) {
	d, err := loadDeck(context.Background(), deckID)
	if err != nil {
		log.Printf("session: following deck %s: %v", deckID, err)
		return
	}
	s.ApplyDeck(d)
}

// resolveIndexFor clamps a broadcast slide index into the current scope.
// Caller holds the lock.
func (s *Session) resolveIndexFor(index int) int {
	total := len(s.scopeSlides)
	if total <= 0 {
		return -1
	}
	s.pendingSlideIndex = -1
	s.initialSlideIndex = -1
	return clamp(index, 0, total-1)
}

func indexOrNone(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}
