package ws

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zyedidia/generic/mapset"
)

// Hub tracks connected clients and serializes their messages onto one goroutine.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage

	clients mapset.Set[*Client]
	mu      sync.RWMutex
	// done is closed when Run returns.
	done chan struct{}

	// OnMessage is called for each incoming client message.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect is called when a client disconnects.
	OnDisconnect func(client *Client)
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
		clients:    mapset.New[*Client](),
		done:       make(chan struct{}),
	}
}

// Done is closed once the hub has stopped.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Attach registers a client. It returns false if the hub has stopped.
func (h *Hub) Attach(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// submit hands a message to the hub. It returns false if the hub has stopped.
func (h *Hub) submit(cm *ClientMessage) bool {
	select {
	case h.Incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}

// detach unregisters a client unless the hub has already stopped.
func (h *Hub) detach(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Run processes registrations and messages until ctx is done. On shutdown every
// client's send channel is closed so its write pump exits.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.clients.Put(client)
			h.mu.Unlock()
			slog.Info("client connected", "client", client.ID)

		case client := <-h.Unregister:
			h.mu.Lock()
			known := h.clients.Has(client)
			h.clients.Remove(client)
			h.mu.Unlock()
			if known {
				h.disconnect(client)
			}

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	var clients []*Client
	h.clients.Each(func(c *Client) {
		clients = append(clients, c)
	})
	h.clients = mapset.New[*Client]()
	h.mu.Unlock()

	for _, c := range clients {
		h.disconnect(c)
	}
}

// disconnect detaches the client from the application before closing its send
// channel, so nothing broadcasts to a closed channel.
func (h *Hub) disconnect(client *Client) {
	if h.OnDisconnect != nil {
		h.OnDisconnect(client)
	}
	close(client.Send)
	slog.Info("client disconnected", "client", client.ID)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients.Size()
}
