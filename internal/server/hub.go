package server

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/ayusman/handmouse/internal/app"
)

// clientBuffer is the number of pending messages per websocket client.
const clientBuffer = 32

// Hub fans processed frames out to websocket clients. Plain cursor frames are
// rate limited; frames with clicks or scrolls are always delivered. Publish
// never blocks: a client that falls behind loses messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	limiter *rate.Limiter
	logger  *slog.Logger
}

type client struct {
	send    chan []byte
	dropped atomic.Int64
}

// NewHub creates a hub forwarding at most eventsPerSecond move-only frames.
func NewHub(eventsPerSecond float64, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		limiter: rate.NewLimiter(rate.Limit(eventsPerSecond), 1),
		logger:  logger.With("component", "hub"),
	}
}

// Publish implements app.EventSink.
func (h *Hub) Publish(ev app.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}
	if !ev.Significant() && !h.limiter.Allow() {
		return
	}

	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encoding event", "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			c.dropped.Add(1)
		}
	}
}

func (h *Hub) register() *client {
	c := &client{send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client connected", "clients", n)
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("client disconnected", "clients", n, "dropped", c.dropped.Load())
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
