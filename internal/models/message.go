package models

import "time"

// Message is a persisted chat message. JSON field names match the
// websocket relay payload so the client sees one shape everywhere.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AuthorID       uint      `gorm:"index;not null" json:"authorId"`
	RecipientID    uint      `gorm:"index;not null" json:"recipientId"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	Body           string    `gorm:"type:text;not null" json:"message"`
	TimeSent       time.Time `json:"timeSent"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (Message) TableName() string { return "messages" }
