package ws

import "encoding/json"

// Event is the wire envelope for every websocket frame, client to server
// and back.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Event names. Casing is uneven because the web client predates this
// server and already listens on these exact strings.
const (
	EventOnlineUsers      = "Online-Users"
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "User-disconnected"
	EventSendMessage      = "send-message"
	EventReceiveMessage   = "Receive-message"
)

// MessagePayload is the shape of a send-message frame. The relay only
// decodes recipientId for routing and forwards the raw payload
// untouched; persistence happens over the HTTP message API instead.
type MessagePayload struct {
	ID             uint   `json:"id"`
	AuthorID       uint   `json:"authorId"`
	RecipientID    uint   `json:"recipientId"`
	ConversationID uint   `json:"conversationId"`
	Message        string `json:"message"`
	TimeSent       string `json:"timeSent"`
}

type EventHandler func(event Event, c *Client) error

func newEvent(name string, data interface{}) (Event, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Event: name, Data: payload}, nil
}
