package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/mfreitas/chatterline/internal/services"
	"github.com/mfreitas/chatterline/pkg/logger"
)

// Hub owns every websocket client, the user-id keyed rooms, and the
// presence registry. Each connection joins exactly one room, named by
// its user id, so point-to-point delivery is room delivery.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	rooms    map[uint]map[*Client]bool
	presence *services.PresenceRegistry
	handlers map[string]EventHandler
}

func NewHub(presence *services.PresenceRegistry) *Hub {
	h := &Hub{
		clients:  make(map[*Client]bool),
		rooms:    make(map[uint]map[*Client]bool),
		presence: presence,
	}
	h.handlers = map[string]EventHandler{
		EventSendMessage: h.handleSendMessage,
	}
	return h
}

// Register wires a new connection: join the room, mark presence, send
// the online snapshot back to the connecting client, and tell everyone
// else when a user actually comes online.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	room, ok := h.rooms[c.userID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[c.userID] = room
	}
	room[c] = true
	h.mu.Unlock()

	cameOnline := h.presence.Add(c.userID)

	snapshot, err := newEvent(EventOnlineUsers, h.presence.Snapshot())
	if err == nil {
		c.send(snapshot)
	}

	if cameOnline {
		if evt, err := newEvent(EventUserConnected, c.userID); err == nil {
			h.broadcastExcept(evt, c)
		}
	}

	logger.Info().Str("client_id", c.id).Uint("user_id", c.userID).Int("online", h.presence.Count()).Msg("websocket client connected")
}

// Unregister tears a connection down. Safe to call more than once for
// the same client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	if room, ok := h.rooms[c.userID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.userID)
		}
	}
	h.mu.Unlock()

	c.shutdown()

	if wentOffline := h.presence.Remove(c.userID); wentOffline {
		if evt, err := newEvent(EventUserDisconnected, c.userID); err == nil {
			h.broadcastExcept(evt, c)
		}
	}

	logger.Info().Str("client_id", c.id).Uint("user_id", c.userID).Int("online", h.presence.Count()).Msg("websocket client disconnected")
}

func (h *Hub) routeEvent(evt Event, c *Client) error {
	handler, ok := h.handlers[evt.Event]
	if !ok {
		return errors.New("unknown event type: " + evt.Event)
	}
	return handler(evt, c)
}

// handleSendMessage relays a chat message payload, unmodified, to every
// connection in the recipient's room except the sender. Fire and
// forget: an empty room means nobody hears it.
func (h *Hub) handleSendMessage(evt Event, c *Client) error {
	var routing struct {
		RecipientID uint `json:"recipientId"`
	}
	if err := json.Unmarshal(evt.Data, &routing); err != nil {
		return err
	}

	h.emitToRoom(routing.RecipientID, Event{Event: EventReceiveMessage, Data: evt.Data}, c)
	return nil
}

// emitToRoom delivers an event to every connection in the room named by
// userID, excluding the sender's own connection.
func (h *Hub) emitToRoom(userID uint, evt Event, exclude *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[userID] {
		if c == exclude {
			continue
		}
		c.send(evt)
	}
}

// broadcastExcept delivers an event to every connected client except one.
func (h *Hub) broadcastExcept(evt Event, exclude *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c == exclude {
			continue
		}
		c.send(evt)
	}
}

// ClientCount returns the number of open connections (not distinct users).
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
