// Package transport carries presentation state between controller and
// receiver views. Delivery is best-effort, unordered across participants,
// and last-value-wins; a publisher never receives its own message.
package transport

import (
	"log"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/live"
)

// Message types.
const (
	TypeSlideState   = "slide_state"
	TypeLiveState    = "live_state"
	TypeRequestState = "request_state"
)

// Message is the discriminated union crossing the channel. slide_state
// fills the slide fields, live_state the timer fields, request_state only
// the type. No acknowledgement and no sequence numbers; the last message of
// a given type wins.
type Message struct {
	Type string `json:"type"`

	// slide_state
	DeckID            string         `json:"deckId,omitempty"`
	SlideIndex        *int           `json:"slideIndex,omitempty"`
	SlideType         string         `json:"slideType,omitempty"`
	SlideScope        string         `json:"slideScope,omitempty"`
	SlideTitle        string         `json:"slideTitle,omitempty"`
	SlideSubtitle     string         `json:"slideSubtitle,omitempty"`
	SlideMarkdown     string         `json:"slideMarkdown,omitempty"`
	LiveCues          *deck.LiveCues `json:"liveCues,omitempty"`
	NextSlideTitle    string         `json:"nextSlideTitle,omitempty"`
	NextSlideSubtitle string         `json:"nextSlideSubtitle,omitempty"`
	DeckData          *deck.Deck     `json:"deckData,omitempty"`

	// live_state
	ElapsedSeconds int    `json:"elapsedSeconds,omitempty"`
	SlideSeconds   int    `json:"slideSeconds,omitempty"`
	Clock          string `json:"clock,omitempty"`

	// Relay bookkeeping; unset on the hub path.
	TS int64 `json:"_ts,omitempty"`
}

// SlideState builds a slide_state message for the given index.
func SlideState(index int) Message {
	i := index
	return Message{Type: TypeSlideState, SlideIndex: &i}
}

// LiveState wraps a timer snapshot in a live_state message.
func LiveState(s live.State, cues *deck.LiveCues) Message {
	return Message{
		Type:           TypeLiveState,
		ElapsedSeconds: s.ElapsedSeconds,
		SlideSeconds:   s.SlideSeconds,
		Clock:          s.Clock,
		LiveCues:       cues,
	}
}

// RequestState builds the sync request a receiver emits on attach.
func RequestState() Message {
	return Message{Type: TypeRequestState}
}

// Transport is the channel abstraction. Two implementations exist: the
// websocket hub and the file relay; Select picks one at startup.
type Transport interface {
	// Publish sends to every other participant. Best-effort; transport
	// write failures are swallowed and sync silently degrades.
	Publish(msg Message) error
	// Subscribe registers a handler for inbound messages. The returned
	// cancel func removes it.
	Subscribe(handler func(Message)) (cancel func())
	Close() error
}

// Select returns the hub transport when a hub is available and falls back
// to the file relay otherwise. Returns an error only when neither works.
func Select(hub *Hub, channel, relayPath string) (Transport, error) {
	if hub != nil {
		return hub.Transport(channel), nil
	}
	return NewFileRelay(relayPath)
}

// Bridge mirrors messages between two transports in both directions, so a
// hub channel and a relay file behave as one channel across processes.
// Neither transport delivers a publish back to its publisher, which keeps
// mirrored messages from looping. The returned stop func detaches both ends.
func Bridge(a, b Transport) (stop func()) {
	cancelA := a.Subscribe(func(msg Message) {
		if err := b.Publish(msg); err != nil {
			log.Printf("transport: bridge publish: %v", err)
		}
	})
	cancelB := b.Subscribe(func(msg Message) {
		if err := a.Publish(msg); err != nil {
			log.Printf("transport: bridge publish: %v", err)
		}
	})
	return func() {
		cancelA()
		cancelB()
	}
}
