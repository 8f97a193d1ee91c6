package events

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/transcribe-mcp/logger"
)

const clientBuffer = 64

// Client is one connected event-stream subscriber.
type Client struct {
	id     string
	events chan []byte
	log    *logger.Logger
}

// NewClient creates a subscriber with a buffered event channel.
func NewClient(id string, log *logger.Logger) *Client {
	return &Client{
		id:     id,
		events: make(chan []byte, clientBuffer),
		log:    log,
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// Events returns the channel events are delivered on.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues data for the client. It returns false and drops the event
// when the client is not keeping up.
func (c *Client) Send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		c.log.Warn("event client channel full, dropping message", logger.Fields("client_id", c.id))
		return false
	}
}

func (c *Client) close() { close(c.events) }

// Hub fans events out to connected clients. All client bookkeeping happens
// on the goroutine running Run.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	log        *logger.Logger
}

type message struct {
	pattern string
	data    []byte
}

// NewHub creates a hub. Call Run in a goroutine before registering clients.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
		log:        log.WithComponent("events"),
	}
}

// Run is the hub's event loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("event client registered", logger.Fields("client_id", client.id, "total_clients", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				client.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("event client unregistered", logger.Fields("client_id", client.id, "total_clients", n))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// Stop shuts the hub down and closes every client. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Done is closed once Stop has been called.
func (h *Hub) Done() <-chan struct{} { return h.done }

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		client.close()
		delete(h.clients, id)
	}
}

// Register adds a client. It returns false when the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client. It is a no-op after Stop.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToPattern sends data to every client whose id matches the glob
// pattern. It does not block on a stopped hub.
func (h *Hub) BroadcastToPattern(pattern string, data []byte) {
	select {
	case h.broadcast <- message{pattern: pattern, data: data}:
	case <-h.done:
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, client := range h.clients {
		matched, err := filepath.Match(msg.pattern, id)
		if err != nil {
			h.log.WithError(err).Error("event pattern match failed", logger.Fields("pattern", msg.pattern))
			return
		}
		if matched && client.Send(msg.data) {
			delivered++
		}
	}
	h.log.Debug("event broadcast", logger.Fields("pattern", msg.pattern, "delivered", delivered))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
