package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-beetle/internal/log"
)

// Hub maintains the set of active viewers and broadcasts messages to them
type Hub struct {
	name string
	log  *slog.Logger

	clients map[*Client]bool

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once

	// last is replayed to new clients so they don't wait for the next frame
	last    Message
	hasLast bool

	mu      sync.RWMutex
	running atomic.Bool
	dropped atomic.Uint64
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		log:        log.Component("hub").With("hub", name),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Call it in a goroutine; it returns after Close.
func (h *Hub) Run() {
	h.running.Store(true)
	defer h.running.Store(false)

	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			if h.hasLast {
				client.send <- h.last
			}
			h.mu.Unlock()
			h.log.Info("client connected", "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.log.Info("client disconnected", "clients", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			h.last, h.hasLast = message, true
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// too slow to keep up
					close(client.send)
					delete(h.clients, client)
					h.dropped.Add(1)
					h.log.Warn("dropped slow client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Close stops Run and disconnects every client
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Handler returns the fiber websocket handler that attaches viewers to the hub.
// The caller is responsible for the upgrade check middleware.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		NewClient(h, c).Run()
	})
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastJSON encodes and broadcasts a JSON message
func (h *Hub) BroadcastJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewJSONMessage(data))
	return nil
}

// BroadcastBinary broadcasts binary data
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(NewBinaryMessage(data))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many slow clients have been disconnected
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// IsRunning returns whether the hub is running
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}

// Name returns the hub's name
func (h *Hub) Name() string {
	return h.name
}
