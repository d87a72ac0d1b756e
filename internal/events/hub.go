// Package events pushes puzzle engine events to websocket subscribers.
//
// The HTTP layer subscribes to each session's engine and forwards every
// event to Hub.Broadcast; browsers connected through ServeWS receive them as
// JSON text frames and can drive cell/win animations without polling.
package events

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	clientBuffer = 16
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// Client is a single websocket subscriber for one session.
type Client struct {
	ch        chan []byte
	sessionID string
}

// Hub fans events out to clients grouped by session.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub. checkOrigin may be nil to accept the
// gorilla default (same-origin only).
func NewHub(checkOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		clients:  make(map[*Client]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// Register adds a client for a session and returns it.
func (h *Hub) Register(sessionID string) *Client {
	c := &Client{ch: make(chan []byte, clientBuffer), sessionID: sessionID}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unregister removes a client and closes its channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.ch)
	}
	h.mu.Unlock()
}

// Broadcast JSON-encodes v and queues it for every client of sessionID.
// Slow clients whose buffer is full miss the frame.
func (h *Hub) Broadcast(sessionID string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("session", sessionID).Msg("encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if c.sessionID != sessionID {
			continue
		}
		select {
		case c.ch <- data:
		default:
			log.Warn().Str("session", sessionID).Msg("client buffer full, dropping event")
		}
	}
}

// ClientCount returns the number of clients subscribed to a session.
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.clients {
		if c.sessionID == sessionID {
			n++
		}
	}
	return n
}

// ServeWS upgrades the request and streams the session's events until the
// peer goes away. hello, if non-nil, is sent first (e.g. a snapshot).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string, hello any) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	c := h.Register(sessionID)
	defer h.Unregister(c)

	log.Debug().Str("session", sessionID).Msg("websocket connected")

	// Reader: only control frames and close detection.
	done := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if hello != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(hello); err != nil {
			log.Warn().Err(err).Str("session", sessionID).Msg("websocket hello")
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Debug().Str("session", sessionID).Msg("websocket closed by peer")
			return
		case <-r.Context().Done():
			return
		case msg, ok := <-c.ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warn().Err(err).Str("session", sessionID).Msg("websocket write")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
