package services

import (
	"errors"
	"fmt"

	"github.com/mfreitas/chatterline/internal/models"
	"github.com/mfreitas/chatterline/internal/utils"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type SignupRequest struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthPayload is the user-facing session payload. ProfilePicture is
// omitted on signup (a fresh account has none) and present on login and
// persistent login.
type AuthPayload struct {
	ID             uint    `json:"id"`
	DisplayName    string  `json:"display_name"`
	Username       string  `json:"username"`
	AccessToken    string  `json:"accessToken"`
	ProfilePicture *string `json:"profile_picture,omitempty"`
}

// Signup creates an account and opens a session. The refresh token is
// returned separately so the handler can set it as a cookie.
func (s *AuthService) Signup(req *SignupRequest) (*AuthPayload, string, error) {
	if req.DisplayName == "" {
		return nil, "", response.NewBadRequest("Display name is required")
	}
	if req.Username == "" {
		return nil, "", response.NewBadRequest("Username is required")
	}
	if req.Password == "" {
		return nil, "", response.NewBadRequest("Password is required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		DisplayName: req.DisplayName,
		Username:    req.Username,
		Password:    hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", response.NewForbidden("Username is already in use")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := s.openSession(&user)
	if err != nil {
		return nil, "", err
	}

	return &AuthPayload{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Username:    user.Username,
		AccessToken: accessToken,
	}, refreshToken, nil
}

// Login authenticates a username/password pair and opens a session.
func (s *AuthService) Login(req *LoginRequest) (*AuthPayload, string, error) {
	if req.Username == "" {
		return nil, "", response.NewBadRequest("Username is required")
	}
	if req.Password == "" {
		return nil, "", response.NewBadRequest("Password is required")
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", response.NewNotFound("User not found")
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, "", response.NewBadRequest("Incorrect password")
	}

	accessToken, refreshToken, err := s.openSession(&user)
	if err != nil {
		return nil, "", err
	}

	payload := &AuthPayload{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		Username:       user.Username,
		AccessToken:    accessToken,
		ProfilePicture: &user.ProfilePicture,
	}
	return payload, refreshToken, nil
}

// openSession issues both tokens and persists the refresh token on the
// user row, overwriting any previous one. One active session per account.
func (s *AuthService) openSession(user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = utils.GenerateAccessToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err = utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.db.Model(user).Update("refresh_token", refreshToken).Error; err != nil {
		return "", "", fmt.Errorf("persist refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// lookupByRefreshToken resolves the cookie value to a user and verifies
// the token's signature, expiry and embedded user id. Shared by Refresh
// and PersistentLogin.
func (s *AuthService) lookupByRefreshToken(refreshToken string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("refresh_token = ? AND refresh_token <> ''", refreshToken).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewForbidden("Forbidden")
		}
		return nil, fmt.Errorf("find user by refresh token: %w", err)
	}

	claims, err := utils.ParseRefreshToken(refreshToken)
	if err != nil || claims.UserID != user.ID {
		return nil, response.NewForbidden("Forbidden")
	}
	return &user, nil
}

// Refresh exchanges a valid refresh-token cookie for a fresh access
// token. The refresh token itself is not rotated here.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	if refreshToken == "" {
		// Legacy status quirk: missing cookie on this path is 400.
		return "", response.NewBadRequest("Unauthorized")
	}

	user, err := s.lookupByRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return accessToken, nil
}

// PersistentLogin silently re-authenticates from the refresh-token
// cookie on app load, returning the full session payload.
func (s *AuthService) PersistentLogin(refreshToken string) (*AuthPayload, error) {
	if refreshToken == "" {
		return nil, response.NewUnauthorized("Unauthorized")
	}

	user, err := s.lookupByRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := utils.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &AuthPayload{
		ID:             user.ID,
		DisplayName:    user.DisplayName,
		Username:       user.Username,
		AccessToken:    accessToken,
		ProfilePicture: &user.ProfilePicture,
	}, nil
}

// Logout revokes the session matching the cookie value. It reports
// whether a matching user was found; the handler clears the cookie
// either way.
func (s *AuthService) Logout(refreshToken string) (bool, error) {
	if refreshToken == "" {
		return false, nil
	}

	var user models.User
	if err := s.db.Where("refresh_token = ? AND refresh_token <> ''", refreshToken).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user by refresh token: %w", err)
	}

	if err := s.db.Model(&user).Update("refresh_token", "").Error; err != nil {
		return false, fmt.Errorf("clear refresh token: %w", err)
	}
	return true, nil
}

// GetUserByID retrieves a user by ID.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
