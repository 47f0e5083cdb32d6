// Package ws pushes board snapshots to connected displays. Every client
// receives the current snapshot on join and again on every store change.
package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ringboard-service/internal/logging"
	"ringboard-service/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Displays live on the venue network; origin checks add nothing here.
		return true
	},
}

// Message is the wire envelope pushed to displays.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// SnapshotSource provides the snapshot sent to newly joined clients.
type SnapshotSource interface {
	Snapshot() store.Snapshot
}

// Hub maintains the set of active clients and broadcasts snapshots to them.
type Hub struct {
	logger     *slog.Logger
	source     SnapshotSource
	clients    map[*client]bool
	broadcast  chan Message
	register   chan *client
	unregister chan *client
	done       chan struct{}
	once       sync.Once
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewHub constructs a stopped hub.
func NewHub(source SnapshotSource, logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		source:     source,
		clients:    make(map[*client]bool),
		broadcast:  make(chan Message, 16),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
	}
}

// Start begins the hub's main loop in a goroutine.
func (h *Hub) Start() {
	go h.run()
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.done) })
}

// BroadcastSnapshot pushes a snapshot to every connected client. Called from
// the store's change listener.
func (h *Hub) BroadcastSnapshot(snap store.Snapshot) {
	select {
	case h.broadcast <- Message{Type: "snapshot", Payload: snap}:
	case <-h.done:
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			logging.Info(h.logger, "display connected", logging.FieldCount, len(h.clients))

			// Seed the new display with the current board.
			if h.source != nil {
				select {
				case c.send <- Message{Type: "snapshot", Payload: h.source.Snapshot()}:
				default:
				}
			}

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			logging.Info(h.logger, "display disconnected", logging.FieldCount, len(h.clients))

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than stall the fanout.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// ServeHTTP upgrades the connection and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(h.logger, "websocket upgrade failed", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan Message, 64)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// readPump drains the connection; displays never send anything we act on.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
