package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Client represents a single WebSocket connection with account context. Keys
// are role-qualified because driver and user IDs live in separate spaces.
type Client struct {
	Key    string // e.g. "DRIVER:12"
	Send   chan []byte
	hub    *RideHub
	mu     sync.Mutex
	closed bool
}

func ClientKey(role string, id uint) string {
	return fmt.Sprintf("%s:%d", strings.ToUpper(role), id)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// trySend delivers without blocking. The mutex serializes against Close so a
// broadcast holding a stale snapshot never writes to a closed channel.
func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// RideHub fans ride lifecycle transitions out to the parties of the ride. One
// account can hold several connections.
type RideHub struct {
	mu    sync.RWMutex
	byKey map[string]map[*Client]struct{}
}

func NewRideHub() *RideHub {
	return &RideHub{byKey: make(map[string]map[*Client]struct{})}
}

func (h *RideHub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byKey[c.Key] == nil {
		h.byKey[c.Key] = make(map[*Client]struct{})
	}
	h.byKey[c.Key][c] = struct{}{}
}

func (h *RideHub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byKey[c.Key]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byKey, c.Key)
		}
	}
}

// BroadcastRideStatus notifies both parties of a ride transition. Slow or
// absent clients are skipped, never blocked on.
func (h *RideHub) BroadcastRideStatus(userID, driverID, rideID uint, status string) {
	payload := map[string]interface{}{
		"type":    "ride_status",
		"ride_id": rideID,
		"status":  status,
	}
	data, _ := json.Marshal(payload)
	h.send(ClientKey("USER", userID), data)
	h.send(ClientKey("DRIVER", driverID), data)
}

func (h *RideHub) send(key string, data []byte) {
	h.mu.RLock()
	m := h.byKey[key]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.trySend(data)
	}
}

func (h *RideHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, m := range h.byKey {
		n += len(m)
	}
	return n
}
