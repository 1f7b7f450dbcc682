package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait     = 10 * time.Second
	sendQueueSize = 16
)

// Hub tracks websocket clients by the session channel they joined and
// fans session:update events out to channel members. There is no replay
// for late joiners and no delivery confirmation; a push that cannot be
// delivered drops the client, never the HTTP request that triggered it.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

type outboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	done     chan struct{}
	doneOnce sync.Once
}

func (c *client) disconnect() {
	c.doneOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// HandleWS upgrades the connection and serves the join protocol until the
// client goes away.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
		done: make(chan struct{}),
	}

	go c.writePump()
	h.readLoop(c)
}

func (h *Hub) readLoop(c *client) {
	defer func() {
		h.remove(c)
		c.disconnect()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Type == "join" && msg.SessionID != "" {
			h.join(msg.SessionID, c)
		}
	}
}

func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.disconnect()
				return
			}
		}
	}
}

func (h *Hub) join(sessionID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sessionID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[sessionID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sessionID, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// Publish sends a session:update event to every member of the session's
// channel. Failures are swallowed: a slow or gone client is dropped.
func (h *Hub) Publish(sessionID string, data map[string]any) {
	payload, err := json.Marshal(outboundMessage{
		Type:      "session:update",
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal session update")
		return
	}

	h.mu.RLock()
	members := make([]*client, 0, len(h.rooms[sessionID]))
	for c := range h.rooms[sessionID] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		select {
		case c.send <- payload:
		case <-c.done:
		default:
			// Send queue full: the client is not keeping up.
			c.disconnect()
		}
	}
}

// SessionUpdated implements the store observer boundary: a mutation of
// session data is pushed to the session's channel with the merged data.
func (h *Hub) SessionUpdated(id string, data map[string]any) {
	h.Publish(id, map[string]any{"id": id, "data": data})
}
