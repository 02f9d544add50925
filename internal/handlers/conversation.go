package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/middleware"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

type ConversationHandler struct {
	db *gorm.DB
}

func NewConversationHandler(db *gorm.DB) *ConversationHandler {
	return &ConversationHandler{db: db}
}

type NewConversationRequest struct {
	RecipientID uint `json:"recipientId"`
}

// Create starts a conversation between the caller and recipientId,
// reusing the existing one if the pair already talked.
// POST /api/conversations/new
func (h *ConversationHandler) Create(c *gin.Context) {
	var req NewConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecipientID == 0 {
		response.BadRequest(c, "recipientId is required")
		return
	}

	userID := middleware.GetUserID(c)
	if req.RecipientID == userID {
		response.BadRequest(c, "cannot start a conversation with yourself")
		return
	}

	var recipient models.User
	if err := h.db.First(&recipient, req.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.ServerError(c, "failed to look up recipient")
		return
	}

	if existingID := h.findPairConversation(userID, req.RecipientID); existingID != 0 {
		conversation, err := h.load(existingID)
		if err != nil {
			response.ServerError(c, "failed to load conversation")
			return
		}
		response.JSON(c, conversation)
		return
	}

	conversation := models.Conversation{
		LastMessageAt: time.Now(),
		Participants: []models.ConversationParticipant{
			{UserID: userID},
			{UserID: req.RecipientID},
		},
	}
	if err := h.db.Create(&conversation).Error; err != nil {
		response.ServerError(c, "failed to create conversation")
		return
	}

	created, err := h.load(conversation.ID)
	if err != nil {
		response.ServerError(c, "failed to load conversation")
		return
	}
	response.JSON(c, created)
}

// List returns the caller's conversations, most recent activity first.
// GET /api/conversations/:userId
func (h *ConversationHandler) List(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	if uint(id) != middleware.GetUserID(c) {
		response.Forbidden(c, "Forbidden")
		return
	}

	var conversationIDs []uint
	if err := h.db.Model(&models.ConversationParticipant{}).
		Where("user_id = ?", id).
		Pluck("conversation_id", &conversationIDs).Error; err != nil {
		response.ServerError(c, "failed to list conversations")
		return
	}

	conversations := []models.Conversation{}
	if len(conversationIDs) > 0 {
		if err := h.db.Preload("Participants.User").
			Where("id IN ?", conversationIDs).
			Order("last_message_at DESC").
			Find(&conversations).Error; err != nil {
			response.ServerError(c, "failed to list conversations")
			return
		}
	}

	response.JSON(c, conversations)
}

// MarkRead clears the caller's unread flag on a conversation.
// PUT /api/conversations/:conversationId/read
func (h *ConversationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("conversationId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid conversation id")
		return
	}

	userID := middleware.GetUserID(c)
	result := h.db.Model(&models.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", id, userID).
		Update("unread", false)
	if result.Error != nil {
		response.ServerError(c, "failed to mark conversation read")
		return
	}
	if result.RowsAffected == 0 {
		response.NotFound(c, "Conversation not found")
		return
	}

	response.JSON(c, gin.H{"message": "Conversation marked as read"})
}

// findPairConversation returns the id of a conversation both users
// participate in, or 0.
func (h *ConversationHandler) findPairConversation(a, b uint) uint {
	var conversationID uint
	h.db.Model(&models.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id IN ?", []uint{a, b}).
		Group("conversation_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Limit(1).
		Scan(&conversationID)
	return conversationID
}

func (h *ConversationHandler) load(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := h.db.Preload("Participants.User").First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}
