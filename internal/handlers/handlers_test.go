package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/middleware"
	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetSecrets("test-access-secret-handlers", "test-refresh-secret-handlers")
	utils.SetTokenTTLs(15*time.Minute, 7*24*time.Hour)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.ConversationParticipant{}, &models.Message{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// setupRouter builds the API surface on a fresh in-memory database, the
// same shape registerRoutes produces.
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)

	r := gin.New()
	api := r.Group("/api")

	authHandler := NewAuthHandler(db)
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/refresh", authHandler.Refresh)
	auth.GET("/login/persist", authHandler.PersistentLogin)
	auth.POST("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	userHandler := NewUserHandler(db)
	protected.GET("/users", userHandler.List)
	protected.PUT("/users/:userId", userHandler.Update)

	messageHandler := NewMessageHandler(db)
	protected.GET("/messages", messageHandler.List)
	protected.POST("/messages/new", messageHandler.Create)
	protected.PUT("/messages/:id", messageHandler.Update)
	protected.DELETE("/messages/:id", messageHandler.Delete)

	conversationHandler := NewConversationHandler(db)
	protected.POST("/conversations/new", conversationHandler.Create)
	protected.GET("/conversations/:userId", conversationHandler.List)
	protected.PUT("/conversations/:conversationId/read", conversationHandler.MarkRead)

	return r, db
}

type testRequest struct {
	method string
	path   string
	body   interface{}
	token  string
	cookie string
}

func perform(t *testing.T, r *gin.Engine, req testRequest) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.method, req.path, reader)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.cookie != "" {
		httpReq.AddCookie(&http.Cookie{Name: "jwt", Value: req.cookie})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("status = %d, expected %d (body: %s)", w.Code, status, w.Body.String())
	}
}

func expectMessage(t *testing.T, w *httptest.ResponseRecorder, msg string) {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &body)
	if body.Message != msg {
		t.Errorf("message = %q, expected %q", body.Message, msg)
	}
}

// refreshCookie digs the jwt cookie out of a response, or nil.
func refreshCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	return nil
}

// createAccount signs a user up through the API and returns the session
// payload plus the refresh cookie value.
func createAccount(t *testing.T, r *gin.Engine, displayName, username, password string) (authResponse, string) {
	t.Helper()

	w := perform(t, r, testRequest{
		method: "POST",
		path:   "/api/auth/signup",
		body: map[string]string{
			"display_name": displayName,
			"username":     username,
			"password":     password,
		},
	})
	expectStatus(t, w, http.StatusOK)

	var payload authResponse
	decodeBody(t, w, &payload)

	cookie := refreshCookie(w)
	if cookie == nil {
		t.Fatal("signup did not set the refresh cookie")
	}
	return payload, cookie.Value
}

type authResponse struct {
	ID             uint    `json:"id"`
	DisplayName    string  `json:"display_name"`
	Username       string  `json:"username"`
	AccessToken    string  `json:"accessToken"`
	ProfilePicture *string `json:"profile_picture"`
}
