package models

import "time"

// Conversation groups the messages between two users.
type Conversation struct {
	ID            uint                      `gorm:"primaryKey" json:"id"`
	LastMessageAt time.Time                 `gorm:"index" json:"last_message_at"`
	Participants  []ConversationParticipant `json:"participants"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant links a user to a conversation and carries the
// per-user unread flag.
type ConversationParticipant struct {
	ID             uint `gorm:"primaryKey" json:"-"`
	ConversationID uint `gorm:"uniqueIndex:idx_conversation_user;not null" json:"conversation_id"`
	UserID         uint `gorm:"uniqueIndex:idx_conversation_user;not null" json:"user_id"`
	Unread         bool `gorm:"default:false" json:"unread"`
	User           User `json:"user"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }
