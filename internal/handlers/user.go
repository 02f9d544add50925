package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/middleware"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns every registered user.
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("id ASC").Find(&users).Error; err != nil {
		response.ServerError(c, "failed to list users")
		return
	}
	response.JSON(c, users)
}

type UpdateUserRequest struct {
	DisplayName    *string `json:"display_name"`
	ProfilePicture *string `json:"profile_picture"`
}

// Update edits the caller's own profile.
// PUT /api/users/:userId
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if uint(id) != middleware.GetUserID(c) {
		response.Forbidden(c, "Forbidden")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		response.NotFound(c, "User not found")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if req.DisplayName != nil {
		if *req.DisplayName == "" {
			response.BadRequest(c, "Display name is required")
			return
		}
		user.DisplayName = *req.DisplayName
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}

	if err := h.db.Save(&user).Error; err != nil {
		response.ServerError(c, "failed to update user")
		return
	}

	response.JSON(c, user)
}
