package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mfreitas/chatterline/pkg/logger"
)

// Client is one websocket connection owned by the hub. userID is the
// identity the connection joined with; several clients may share it.
type Client struct {
	id     string
	userID uint
	conn   *websocket.Conn
	hub    *Hub
	egress chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, hub *Hub, userID uint) *Client {
	return &Client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		hub:    hub,
		egress: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// send queues an event for delivery. A client whose buffer is full is
// considered stuck and gets disconnected rather than block the hub.
func (c *Client) send(evt Event) {
	select {
	case c.egress <- evt:
	case <-c.done:
	default:
		logger.Warn().Str("client_id", c.id).Uint("user_id", c.userID).Msg("client buffer full, disconnecting")
		go c.hub.Unregister(c)
	}
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// readPump consumes frames until the connection dies. Frames that do
// not decode into the event envelope are logged and dropped; the
// connection stays up.
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Error().Err(err).Str("client_id", c.id).Msg("websocket read error")
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			logger.Warn().Err(err).Str("client_id", c.id).Msg("dropping undecodable frame")
			continue
		}

		if err := c.hub.routeEvent(evt, c); err != nil {
			logger.Warn().Err(err).Str("client_id", c.id).Str("event", evt.Event).Msg("event not handled")
		}
	}
}

// writePump drains the egress buffer onto the wire.
func (c *Client) writePump() {
	defer c.hub.Unregister(c)

	for {
		select {
		case evt := <-c.egress:
			data, err := json.Marshal(evt)
			if err != nil {
				logger.Error().Err(err).Str("client_id", c.id).Msg("marshal outbound event")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-c.done:
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
