package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/middleware"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

type MessageHandler struct {
	db *gorm.DB
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{db: db}
}

// List returns the messages of one conversation, oldest first.
// GET /api/messages?conversationId=
func (h *MessageHandler) List(c *gin.Context) {
	conversationID, err := strconv.ParseUint(c.Query("conversationId"), 10, 32)
	if err != nil || conversationID == 0 {
		response.BadRequest(c, "conversationId is required")
		return
	}

	var messages []models.Message
	if err := h.db.Where("conversation_id = ?", conversationID).
		Order("time_sent ASC").Find(&messages).Error; err != nil {
		response.ServerError(c, "failed to list messages")
		return
	}

	response.JSON(c, messages)
}

type NewMessageRequest struct {
	RecipientID    uint       `json:"recipientId"`
	ConversationID uint       `json:"conversationId"`
	Message        string     `json:"message"`
	TimeSent       *time.Time `json:"timeSent"`
}

// Create persists a message. The realtime relay does not persist
// anything; clients call this endpoint alongside the socket emit.
// POST /api/messages/new
func (h *MessageHandler) Create(c *gin.Context) {
	var req NewMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if req.Message == "" {
		response.BadRequest(c, "Message is required")
		return
	}
	if req.RecipientID == 0 || req.ConversationID == 0 {
		response.BadRequest(c, "recipientId and conversationId are required")
		return
	}

	timeSent := time.Now()
	if req.TimeSent != nil {
		timeSent = *req.TimeSent
	}

	authorID := middleware.GetUserID(c)
	message := models.Message{
		AuthorID:       authorID,
		RecipientID:    req.RecipientID,
		ConversationID: req.ConversationID,
		Body:           req.Message,
		TimeSent:       timeSent,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", req.ConversationID).
			Update("last_message_at", timeSent).Error; err != nil {
			return err
		}
		return tx.Model(&models.ConversationParticipant{}).
			Where("conversation_id = ? AND user_id = ?", req.ConversationID, req.RecipientID).
			Update("unread", true).Error
	})
	if err != nil {
		response.ServerError(c, "failed to save message")
		return
	}

	response.JSON(c, message)
}

type EditMessageRequest struct {
	Message string `json:"message"`
}

// Update edits a message body. Authors only.
// PUT /api/messages/:id
func (h *MessageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	var message models.Message
	if err := h.db.First(&message, id).Error; err != nil {
		response.NotFound(c, "Message not found")
		return
	}

	if message.AuthorID != middleware.GetUserID(c) {
		response.Forbidden(c, "Forbidden")
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		response.BadRequest(c, "Message is required")
		return
	}

	message.Body = req.Message
	if err := h.db.Save(&message).Error; err != nil {
		response.ServerError(c, "failed to update message")
		return
	}

	response.JSON(c, message)
}

// Delete removes a message. Authors only.
// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	var message models.Message
	if err := h.db.First(&message, id).Error; err != nil {
		response.NotFound(c, "Message not found")
		return
	}

	if message.AuthorID != middleware.GetUserID(c) {
		response.Forbidden(c, "Forbidden")
		return
	}

	if err := h.db.Delete(&message).Error; err != nil {
		response.ServerError(c, "failed to delete message")
		return
	}

	c.Status(http.StatusNoContent)
}
