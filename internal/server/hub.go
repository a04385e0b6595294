package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/game"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/telemetry"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/view"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// sendBuffer is the per-client outbound queue; a client that cannot
	// keep up is dropped rather than blocking the hub.
	sendBuffer = 64
	// eventPollInterval paces the telemetry poller.
	eventPollInterval = 200 * time.Millisecond
)

// wsMessage is the hub's wire envelope. Kind is "snapshot" or "event".
type wsMessage struct {
	Kind     string           `json:"kind"`
	Snapshot *view.Snapshot   `json:"snapshot,omitempty"`
	Event    *telemetry.Event `json:"event,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active websocket clients and fans state
// snapshots and telemetry events out to them.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.Mutex
	log        *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		clients:    make(map[*wsClient]bool),
		log:        logger,
	}
}

// Run is the hub's main loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Printf("server: websocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSnapshot pushes a committed view to every client.
func (h *Hub) BroadcastSnapshot(snap view.Snapshot) {
	h.send(wsMessage{Kind: "snapshot", Snapshot: &snap})
}

func (h *Hub) send(msg wsMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Printf("server: websocket marshal: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// Hub loop not draining; better to drop a frame than wedge a
		// commit path.
	}
}

// StartEventPoller forwards new telemetry events to connected clients.
// FX cues ride this channel; the core never waits on it.
func (h *Hub) StartEventPoller(ctx context.Context, engine *game.Engine) {
	go func() {
		ticker := time.NewTicker(eventPollInterval)
		defer ticker.Stop()

		lastID := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, ev := range engine.EventsAfter(lastID) {
					e := ev
					h.send(wsMessage{Kind: "event", Event: &e})
					lastID = ev.ID
				}
			}
		}
	}()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The debug viewer is same-host; cross-origin embedding is not a
	// supported deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request and attaches the client to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Printf("server: websocket upgrade: %v", err)
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the websocket is push-only and all
// player actions arrive over the HTTP API. Reading keeps close/ping
// handling alive.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
