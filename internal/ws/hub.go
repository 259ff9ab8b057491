package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event types pushed to session subscribers.
const (
	EventCartUpdated    = "cart.updated"
	EventFiltersUpdated = "filters.updated"
	EventNavigated      = "navigated"
	EventSessionClosed  = "session.closed"
)

// ErrHubBusy is returned when the broadcast queue is full. Events are
// dropped rather than blocking the session that produced them.
var ErrHubBusy = errors.New("websocket hub broadcast queue full")

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// sessionEvent routes an event to one session's room
type sessionEvent struct {
	SessionID uuid.UUID
	Event     Event
	close     bool
}

// Hub maintains the set of active clients per menu session and broadcasts
// view updates to them
type Hub struct {
	// Registered clients by session ID
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *sessionEvent
	// closed when Run returns
	done chan struct{}

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *sessionEvent, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns when ctx is done, closing every
// client. Call it as a goroutine: go hub.Run(ctx)
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for sid, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, sid)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.sessionID] == nil {
				h.rooms[client.sessionID] = make(map[*Client]bool)
			}
			h.rooms[client.sessionID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev *sessionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Marshal event to JSON once
	message, err := json.Marshal(ev.Event)
	if err != nil {
		return
	}

	for client := range h.rooms[ev.SessionID] {
		select {
		case client.send <- message:
		default:
			// Send buffer full: drop the client
			h.removeLocked(client)
			continue
		}
		if ev.close {
			h.removeLocked(client)
		}
	}
}

// join registers client. It reports false once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters client. After shutdown there is nothing to leave.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// removeLocked closes and forgets client. h.mu must be held.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.sessionID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.sessionID)
	}
}

// Publish marshals payload and broadcasts it to every subscriber of sessionID
func (h *Hub) Publish(sessionID uuid.UUID, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return h.enqueue(&sessionEvent{
		SessionID: sessionID,
		Event:     Event{Type: eventType, Payload: raw},
	})
}

// CloseSession sends a final session.closed event and disconnects every
// subscriber of sessionID
func (h *Hub) CloseSession(sessionID uuid.UUID) error {
	return h.enqueue(&sessionEvent{
		SessionID: sessionID,
		Event:     Event{Type: EventSessionClosed, Payload: json.RawMessage(`{}`)},
		close:     true,
	})
}

func (h *Hub) enqueue(ev *sessionEvent) error {
	select {
	case h.broadcast <- ev:
		return nil
	default:
		return ErrHubBusy
	}
}

// Subscribers returns the number of clients connected to sessionID
func (h *Hub) Subscribers(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}
