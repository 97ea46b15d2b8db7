// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

// ShutdownReason identifies why the hub stopped.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

const defaultBroadcastQueue = 1024

// SnapshotFunc returns the payload of the snapshot message a new connection
// receives before any broadcast.
type SnapshotFunc func() interface{}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	doneOnce   sync.Once
	snapshot   SnapshotFunc
	mu         sync.RWMutex
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithSnapshot sends the result of fn to every newly registered client.
func WithSnapshot(fn SnapshotFunc) HubOption {
	return func(h *Hub) {
		h.snapshot = fn
	}
}

// WithBroadcastQueue sets the capacity of the broadcast queue.
func WithBroadcastQueue(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.broadcast = make(chan Message, size)
		}
	}
}

// NewHub creates a new Hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		broadcast:  make(chan Message, defaultBroadcastQueue),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds c to the registry. Registering a client twice has no effect.
// It returns false if the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c and closes its send channel. Unknown or already
// removed clients are ignored.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err().
//
// Lifecycle events are drained before broadcasts so that a client is always
// registered or removed before the next message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.register:
			h.addClient(client)
			continue
		case client := <-h.unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	if h.clients[client] {
		h.mu.Unlock()
		return
	}
	if h.snapshot != nil {
		client.enqueue(Message{Type: MessageTypeSnapshot, Data: h.snapshot()})
	}
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("conn_id", client.id).Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if !h.clients[client] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	client.closeSend()
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().Uint64("conn_id", client.id).Int("total_clients", total).Msg("websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()
	h.doneOnce.Do(func() { close(h.done) })

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

// sortedClients must be called with mu held.
func (h *Hub) sortedClients() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients delivers message to every client in id order. A client
// whose buffer is full is removed without delaying the others.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	var dropped []*Client
	for _, client := range h.sortedClients() {
		if !client.enqueue(message) {
			dropped = append(dropped, client)
		}
	}
	for _, client := range dropped {
		delete(h.clients, client)
		client.closeSend()
	}
	total := len(h.clients)
	h.mu.Unlock()

	for _, client := range dropped {
		metrics.BroadcastDropped.WithLabelValues("slow_client").Inc()
		logging.Warn().Uint64("conn_id", client.id).Str("message_type", message.Type).Msg("dropping slow websocket client")
	}
	if len(dropped) > 0 {
		metrics.WSConnections.Set(float64(total))
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClients() {
		client.closeSend()
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastJSON queues a message for every connected client. It never
// blocks; when the queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) bool {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
		return true
	default:
		metrics.BroadcastDropped.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
		return false
	}
}

// BroadcastLocationUpdate fans out an accepted position.
func (h *Hub) BroadcastLocationUpdate(event models.LocationUpdateEvent) {
	h.BroadcastJSON(MessageTypeLocationUpdate, event)
}

// BroadcastLocationExpired fans out the removal of a stale position.
func (h *Hub) BroadcastLocationExpired(event models.LocationExpiredEvent) {
	h.BroadcastJSON(MessageTypeLocationExpired, event)
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
