package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans presentation messages out across named channels. Participants
// are websocket clients and in-process Transport handles; a broadcast
// reaches every participant on the channel except its origin.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]*channel
}

type channel struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
	subs    map[int]*subscription
	nextSub int
}

type subscription struct {
	owner   *hubTransport
	handler func(Message)
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{channels: make(map[string]*channel)}
}

func (h *Hub) channelFor(name string) *channel {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch, ok := h.channels[name]
	if !ok {
		ch = &channel{
			clients: make(map[*wsClient]bool),
			subs:    make(map[int]*subscription),
		}
		h.channels[name] = ch
	}
	return ch
}

// broadcast delivers msg to every participant on the channel except origin.
func (h *Hub) broadcast(name string, msg Message, origin any) {
	ch := h.channelFor(name)

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("hub: marshal message: %v", err)
		return
	}

	ch.mu.RLock()
	clients := make([]*wsClient, 0, len(ch.clients))
	for c := range ch.clients {
		if c != origin {
			clients = append(clients, c)
		}
	}
	handlers := make([]func(Message), 0, len(ch.subs))
	for _, sub := range ch.subs {
		if sub.owner != origin {
			handlers = append(handlers, sub.handler)
		}
	}
	ch.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop the message, last value wins anyway.
		}
	}
	for _, handler := range handlers {
		handler(msg)
	}
}

// Transport returns an in-process handle publishing to the named channel.
func (h *Hub) Transport(name string) Transport {
	return &hubTransport{hub: h, channel: name}
}

type hubTransport struct {
	hub     *Hub
	channel string
	mu      sync.Mutex
	subIDs  []int
}

func (t *hubTransport) Publish(msg Message) error {
	t.hub.broadcast(t.channel, msg, t)
	return nil
}

func (t *hubTransport) Subscribe(handler func(Message)) func() {
	ch := t.hub.channelFor(t.channel)

	ch.mu.Lock()
	id := ch.nextSub
	ch.nextSub++
	ch.subs[id] = &subscription{owner: t, handler: handler}
	ch.mu.Unlock()

	t.mu.Lock()
	t.subIDs = append(t.subIDs, id)
	t.mu.Unlock()

	return func() {
		ch.mu.Lock()
		delete(ch.subs, id)
		ch.mu.Unlock()
	}
}

func (t *hubTransport) Close() error {
	ch := t.hub.channelFor(t.channel)
	t.mu.Lock()
	ids := t.subIDs
	t.subIDs = nil
	t.mu.Unlock()

	ch.mu.Lock()
	for _, id := range ids {
		delete(ch.subs, id)
	}
	ch.mu.Unlock()
	return nil
}

// wsClient is one connected websocket participant.
type wsClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// ServeWS upgrades the request and attaches the connection to the named
// channel. When emitRequestState is set (receiver views), a request_state
// is broadcast on the client's behalf so the controller re-publishes its
// current slide payload.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, name string, emitRequestState bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: websocket upgrade: %v", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, 16), done: make(chan struct{})}
	ch := h.channelFor(name)

	ch.mu.Lock()
	ch.clients[client] = true
	ch.mu.Unlock()

	go client.writePump()

	if emitRequestState {
		h.broadcast(name, RequestState(), client)
	}

	h.readPump(client, ch, name)
}

func (h *Hub) readPump(client *wsClient, ch *channel, name string) {
	defer func() {
		ch.mu.Lock()
		delete(ch.clients, client)
		ch.mu.Unlock()
		close(client.done)
		client.conn.Close()
	}()

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("hub: websocket read: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("hub: invalid message: %v", err)
			continue
		}
		if msg.Type == "" {
			continue
		}

		h.broadcast(name, msg, client)
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for {
		select {
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
