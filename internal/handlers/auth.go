package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/services"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

const (
	refreshCookieName = "jwt"
	// Cookie lifetime matches the refresh token: 7 days.
	refreshCookieMaxAge = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db),
	}
}

// setRefreshCookie sets the refresh token as an http-only secure cookie.
// SameSite=None because the SPA runs on a different origin.
func setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookieName, token, refreshCookieMaxAge, "/", "", true, true)
}

// clearRefreshCookie removes the cookie. The attributes must match the
// ones used when setting it or browsers keep the stale cookie around.
func clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", true, true)
}

// Signup handles account registration
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	payload, refreshToken, err := h.authService.Signup(&req)
	if err != nil {
		services.AuditWarning("signup_failed", err.Error(), nil, c.ClientIP(), c.Request.UserAgent())
		response.Error(c, err)
		return
	}

	services.AuditInfo("signup", "account created: "+payload.Username, &payload.ID, c.ClientIP(), c.Request.UserAgent())
	setRefreshCookie(c, refreshToken)
	response.JSON(c, payload)
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	payload, refreshToken, err := h.authService.Login(&req)
	if err != nil {
		services.AuditWarning("login_failed", "login failed for "+req.Username, nil, c.ClientIP(), c.Request.UserAgent())
		response.Error(c, err)
		return
	}

	services.AuditInfo("login", "user logged in: "+payload.Username, &payload.ID, c.ClientIP(), c.Request.UserAgent())
	setRefreshCookie(c, refreshToken)
	response.JSON(c, payload)
}

// Refresh exchanges the refresh-token cookie for a new access token
// GET /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, _ := c.Cookie(refreshCookieName)

	accessToken, err := h.authService.Refresh(cookie)
	if err != nil {
		services.AuditWarning("refresh_denied", "refresh token rejected", nil, c.ClientIP(), c.Request.UserAgent())
		response.Error(c, err)
		return
	}

	response.JSON(c, gin.H{"accessToken": accessToken})
}

// PersistentLogin silently re-authenticates from the cookie on app load
// GET /api/auth/login/persist
func (h *AuthHandler) PersistentLogin(c *gin.Context) {
	cookie, _ := c.Cookie(refreshCookieName)

	payload, err := h.authService.PersistentLogin(cookie)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, payload)
}

// Logout revokes the session and clears the cookie
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == "" {
		c.Status(http.StatusNoContent)
		return
	}

	found, err := h.authService.Logout(cookie)
	if err != nil {
		response.Error(c, err)
		return
	}

	clearRefreshCookie(c)
	if found {
		services.AuditInfo("logout", "session revoked", nil, c.ClientIP(), c.Request.UserAgent())
	}
	c.Status(http.StatusNoContent)
}
