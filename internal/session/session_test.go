package session

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/layout"
	"github.com/quality-irrigation/mi-console/internal/transport"
)

func testDeck(types ...deck.SlideType) deck.Deck {
	d := deck.Deck{DeckID: "d1", DeckTitle: "Test"}
	for i, ty := range types {
		d.Slides = append(d.Slides, deck.Slide{
			ID:    string(rune('a' + i)),
			Type:  ty,
			Title: "slide " + string(rune('a'+i)),
		})
	}
	return d
}

func TestNextWrapsAround(t *testing.T) {
	s := New(ViewControl, nil)
	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric, deck.TypeGeneric))

	start := s.CurrentState().SlideIndex
	for i := 0; i < 3; i++ {
		s.Next()
	}
	if got := s.CurrentState().SlideIndex; got != start {
		t.Errorf("after n nexts index = %d, want %d", got, start)
	}

	s.Prev()
	if got := s.CurrentState().SlideIndex; got != 2 {
		t.Errorf("prev from 0 = %d, want 2 (wrap)", got)
	}
}

func TestJumpClamps(t *testing.T) {
	s := New(ViewControl, nil)
	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric, deck.TypeGeneric))

	tests := []struct {
		target int
		want   int
	}{
		{-5, 0},
		{0, 0},
		{2, 2},
		{99, 2},
	}
	for _, tt := range tests {
		s.Jump(tt.target)
		if got := s.CurrentState().SlideIndex; got != tt.want {
			t.Errorf("Jump(%d) landed on %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestScopeFilterByType(t *testing.T) {
	s := New(ViewControl, nil)
	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeAgenda, deck.TypeTitle))

	s.SetScope(deck.TypeTitle, ScopeType)
	if got := s.CurrentState().SlideCount; got != 2 {
		t.Errorf("scoped count = %d, want 2", got)
	}

	// A filter matching nothing falls back to the full deck.
	s.SetScope(deck.TypePoll, ScopeType)
	if got := s.CurrentState().SlideCount; got != 3 {
		t.Errorf("empty filter count = %d, want full deck 3", got)
	}

	s.SetScope("", ScopeDeck)
	if got := s.CurrentState().SlideCount; got != 3 {
		t.Errorf("deck scope count = %d, want 3", got)
	}
}

func TestEmptyDeckIsInert(t *testing.T) {
	s := New(ViewControl, nil)
	s.ApplyDeck(deck.Deck{})

	// No transition may panic or move the index.
	s.Next()
	s.Prev()
	s.Jump(5)
	s.First()
	s.Last()
	s.SetScope(deck.TypeTitle, ScopeType)

	st := s.CurrentState()
	if st.SlideIndex != 0 || st.SlideCount != 0 {
		t.Errorf("state = %+v, want index 0 count 0", st)
	}
	if _, _, ok := s.CurrentSlide(); ok {
		t.Error("CurrentSlide ok on empty deck")
	}
}

func TestNavEventsEmitted(t *testing.T) {
	s := New(ViewControl, nil)
	var events []NavEvent
	s.AddObserver(func(e NavEvent) { events = append(events, e) })

	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric))
	if len(events) != 0 {
		t.Fatalf("deck application emitted %d nav events", len(events))
	}

	s.Next()
	s.Prev()
	s.Jump(1)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].EventType != "next" || events[1].EventType != "previous" || events[2].EventType != "jump" {
		t.Errorf("event types = %v", events)
	}
	if events[2].SlideIndex != 2 {
		t.Errorf("jump event slide index = %d, want 1-based 2", events[2].SlideIndex)
	}
}

func TestControllerBroadcastsOnTransition(t *testing.T) {
	hub := transport.NewHub()
	controller := New(ViewControl, nil)
	controller.Attach(hub.Transport("main"))

	inbox := make(chan transport.Message, 8)
	watch := hub.Transport("main")
	watch.Subscribe(func(m transport.Message) { inbox <- m })

	controller.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric))

	msg := recvMessage(t, inbox)
	if msg.Type != transport.TypeSlideState || msg.DeckID != "d1" {
		t.Errorf("broadcast = %+v", msg)
	}
	if msg.SlideIndex == nil || *msg.SlideIndex != 0 {
		t.Errorf("slideIndex = %v", msg.SlideIndex)
	}
	if msg.NextSlideTitle != "slide b" {
		t.Errorf("nextSlideTitle = %q", msg.NextSlideTitle)
	}

	controller.Next()
	msg = recvMessage(t, inbox)
	if msg.SlideIndex == nil || *msg.SlideIndex != 1 {
		t.Errorf("after next slideIndex = %v", msg.SlideIndex)
	}
}

func TestControllerAnswersRequestState(t *testing.T) {
	hub := transport.NewHub()
	controller := New(ViewControl, nil)
	controller.Attach(hub.Transport("main"))
	controller.ApplyDeck(testDeck(deck.TypeTitle))

	inbox := make(chan transport.Message, 8)
	peer := hub.Transport("main")
	peer.Subscribe(func(m transport.Message) { inbox <- m })

	peer.Publish(transport.RequestState())

	msg := recvMessage(t, inbox)
	if msg.Type != transport.TypeSlideState {
		t.Errorf("answer = %+v, want slide_state", msg)
	}
}

func TestReceiverFollowsDeckAndClamps(t *testing.T) {
	hub := transport.NewHub()

	loaded := make(chan string, 1)
	receiver := New(ViewPresenter, nil)
	receiver.SetDeckLoader(func(ctx context.Context, deckID string) (deck.Deck, error) {
		loaded <- deckID
		// Two slides: a broadcast index of 3 must clamp to 1.
		return testDeck(deck.TypeTitle, deck.TypeGeneric), nil
	})
	receiver.Attach(hub.Transport("main"))

	peer := hub.Transport("main")
	msg := transport.SlideState(3)
	msg.DeckID = "d1"
	peer.Publish(msg)

	select {
	case id := <-loaded:
		if id != "d1" {
			t.Errorf("loaded deck %q, want d1", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receiver never fetched the deck")
	}

	waitForIndex(t, receiver, 1)
}

func TestReceiverAppliesInlineDeckData(t *testing.T) {
	hub := transport.NewHub()
	receiver := New(ViewPresenter, nil)
	receiver.Attach(hub.Transport("main"))

	d := testDeck(deck.TypeTitle, deck.TypeGeneric, deck.TypeGeneric)
	peer := hub.Transport("main")
	msg := transport.SlideState(2)
	msg.DeckData = &d
	peer.Publish(msg)

	waitForIndex(t, receiver, 2)
	if st := receiver.CurrentState(); st.DeckID != "" {
		t.Errorf("inline deck kept server id %q", st.DeckID)
	}
}

func TestReceiverNeverBroadcasts(t *testing.T) {
	hub := transport.NewHub()
	receiver := New(ViewPresenter, nil)
	receiver.Attach(hub.Transport("main"))

	inbox := make(chan transport.Message, 8)
	peer := hub.Transport("main")
	peer.Subscribe(func(m transport.Message) { inbox <- m })

	// Attach already happened, so only deck application could leak.
	receiver.ApplyDeck(testDeck(deck.TypeTitle))
	receiver.Next()

	select {
	case m := <-inbox:
		t.Errorf("receiver broadcast %+v", m)
	case <-time.After(100 * time.Millisecond):
	}
}

func recvMessage(t *testing.T, ch <-chan transport.Message) transport.Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return transport.Message{}
	}
}

func waitForIndex(t *testing.T, s *Session, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.CurrentState().SlideIndex == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("index = %d, want %d", s.CurrentState().SlideIndex, want)
}

func TestResolveViewPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		rootAttr string
		query    string
		stored   *StoredConfig
		want     ViewMode
		receiver bool
	}{
		{"default control", "", "", nil, ViewControl, false},
		{"query presenter", "", "view=presenter", nil, ViewPresenter, true},
		{"query fullscreen", "", "view=fullscreen", nil, ViewFullscreen, true},
		{"root attr beats query", "fullscreen", "view=presenter", nil, ViewFullscreen, true},
		{"query beats stored", "", "view=presenter", &StoredConfig{View: "fullscreen"}, ViewPresenter, true},
		{"stored used when nothing else", "", "", &StoredConfig{View: "presenter"}, ViewPresenter, true},
		{"unknown value is control", "", "view=banana", nil, ViewControl, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ResolveView(tt.rootAttr, q, tt.stored)
			if got.ViewMode != tt.want {
				t.Errorf("ViewMode = %v, want %v", got.ViewMode, tt.want)
			}
			if got.IsReceiver != tt.receiver {
				t.Errorf("IsReceiver = %v, want %v", got.IsReceiver, tt.receiver)
			}
		})
	}
}

func TestResolveViewDeckAndSlide(t *testing.T) {
	q, _ := url.ParseQuery("deck=d2&slide=4")
	got := ResolveView("", q, nil)
	if got.DeckID != "d2" {
		t.Errorf("DeckID = %q", got.DeckID)
	}
	if got.InitialSlideIndex != 3 {
		t.Errorf("InitialSlideIndex = %d, want 3 (0-based)", got.InitialSlideIndex)
	}

	// Zero and junk slide values are ignored.
	for _, raw := range []string{"slide=0", "slide=-2", "slide=abc"} {
		q, _ := url.ParseQuery(raw)
		if got := ResolveView("", q, nil); got.InitialSlideIndex != -1 {
			t.Errorf("%s: InitialSlideIndex = %d, want -1", raw, got.InitialSlideIndex)
		}
	}

	// Stored config fills gaps.
	got = ResolveView("", url.Values{}, &StoredConfig{Deck: "d9", Slide: "2"})
	if got.DeckID != "d9" || got.InitialSlideIndex != 1 {
		t.Errorf("stored fallback = %+v", got)
	}
}

func TestResolveViewLayoutHints(t *testing.T) {
	// No viewport reported, no hints.
	got := ResolveView("", url.Values{}, nil)
	if got.Density != "" || got.Layout != "" || got.Scale != 0 {
		t.Errorf("hints without viewport = %+v", got)
	}

	q, _ := url.ParseQuery("w=1920&h=1080")
	got = ResolveView("", q, nil)
	if got.Density != layout.DensityStandard {
		t.Errorf("Density = %v, want standard", got.Density)
	}
	if got.Layout != layout.ModeWide {
		t.Errorf("Layout = %v, want wide", got.Layout)
	}
	if got.Scale != 1 {
		t.Errorf("Scale = %v, want 1", got.Scale)
	}

	// Small viewport resolves auto density to compact and scales down.
	q, _ = url.ParseQuery("w=640&h=480")
	got = ResolveView("", q, nil)
	if got.Density != layout.DensityCompact {
		t.Errorf("Density = %v, want compact", got.Density)
	}
	if got.Layout != layout.ModeNarrow {
		t.Errorf("Layout = %v, want narrow", got.Layout)
	}
	if got.Scale >= 1 {
		t.Errorf("Scale = %v, want < 1", got.Scale)
	}

	// Explicit density preference passes through untouched.
	q, _ = url.ParseQuery("w=640&h=480&density=relaxed")
	if got := ResolveView("", q, nil); got.Density != layout.DensityRelaxed {
		t.Errorf("Density = %v, want relaxed", got.Density)
	}
}

func TestInitialSlideConsumedOnDeckApply(t *testing.T) {
	s := New(ViewControl, nil)
	s.SetInitialSlide(1)
	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric, deck.TypeGeneric))

	if got := s.CurrentState().SlideIndex; got != 1 {
		t.Errorf("initial index = %d, want 1", got)
	}

	// Consumed once: the next deck application starts at 0.
	s.ApplyDeck(testDeck(deck.TypeTitle, deck.TypeGeneric))
	if got := s.CurrentState().SlideIndex; got != 0 {
		t.Errorf("index after reload = %d, want 0", got)
	}
}
