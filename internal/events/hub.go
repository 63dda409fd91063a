package events

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	send chan Event
}

// Hub keeps the websocket subscribers of every venue and pushes events to them.
// It is the push alternative to dashboard polling.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*subscriber]bool // venue slug -> subscribers
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*subscriber]bool)}
}

// Publish queues the event for every subscriber of its venue. Slow subscribers
// whose buffer is full are dropped.
func (h *Hub) Publish(ctx context.Context, event Event) error {
	h.mu.RLock()
	var slow []*subscriber
	for sub := range h.clients[event.VenueSlug] {
		select {
		case sub.send <- event:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		log.WithField("venue", event.VenueSlug).Warn("Dropping slow websocket subscriber")
		h.unregister(event.VenueSlug, sub)
	}
	return nil
}

// Subscribers returns the number of live subscribers of a venue
func (h *Hub) Subscribers(slug string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[slug])
}

// Serve upgrades the request and streams events of the venue until the peer leaves
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, slug string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, send: make(chan Event, sendBuffer)}
	h.register(slug, sub)
	log.WithFields(logrus.Fields{"venue": slug, "subscribers": h.Subscribers(slug)}).Info("Websocket subscriber joined")

	go h.writeLoop(slug, sub)
	h.readLoop(slug, sub)
	return nil
}

func (h *Hub) register(slug string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[slug] == nil {
		h.clients[slug] = make(map[*subscriber]bool)
	}
	h.clients[slug][sub] = true
}

func (h *Hub) unregister(slug string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[slug][sub]; !ok {
		return
	}
	delete(h.clients[slug], sub)
	if len(h.clients[slug]) == 0 {
		delete(h.clients, slug)
	}
	close(sub.send)
}

// readLoop only consumes control frames; dashboards never send data
func (h *Hub) readLoop(slug string, sub *subscriber) {
	defer func() {
		h.unregister(slug, sub)
		sub.conn.Close()
	}()

	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(slug string, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				log.WithError(err).WithField("venue", slug).Warn("Websocket write failed")
				return
			}
		case <-ticker.C:
			if err := sub.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
