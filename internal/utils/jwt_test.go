package utils

import (
	"testing"
	"time"
)

func init() {
	SetSecrets("test-access-secret", "test-refresh-secret")
}

func TestGenerateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateAccessToken() returned empty token")
	}

	if len(token) < 50 {
		t.Errorf("token seems too short: %d chars", len(token))
	}
}

func TestGenerateAccessToken_DifferentUsers(t *testing.T) {
	token1, _ := GenerateAccessToken(1)
	token2, _ := GenerateAccessToken(2)

	if token1 == token2 {
		t.Error("different users should produce different tokens")
	}
}

func TestParseAccessToken(t *testing.T) {
	userID := uint(42)

	token, _ := GenerateAccessToken(userID)

	claims, err := ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken() error = %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("UserID = %d, expected %d", claims.UserID, userID)
	}
}

func TestParseAccessToken_InvalidToken(t *testing.T) {
	invalidTokens := []string{
		"",
		"invalid",
		"not.a.token",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature",
	}

	for _, token := range invalidTokens {
		_, err := ParseAccessToken(token)
		if err == nil {
			t.Errorf("ParseAccessToken(%q) should return error", token)
		}
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	SetSecrets("original-secret", "test-refresh-secret")
	token, _ := GenerateAccessToken(1)

	SetSecrets("different-secret", "test-refresh-secret")
	_, err := ParseAccessToken(token)

	SetSecrets("test-access-secret", "test-refresh-secret")

	if err == nil {
		t.Error("ParseAccessToken should fail with wrong secret")
	}
}

func TestRefreshToken_NotValidAsAccessToken(t *testing.T) {
	refresh, _ := GenerateRefreshToken(7)

	if _, err := ParseAccessToken(refresh); err == nil {
		t.Error("refresh token should not verify against the access secret")
	}

	claims, err := ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("ParseRefreshToken() error = %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, expected 7", claims.UserID)
	}
}

func TestGenerateAccessToken_Expiration(t *testing.T) {
	SetTokenTTLs(900000*time.Millisecond, 7*24*time.Hour)

	token, _ := GenerateAccessToken(1)
	claims, _ := ParseAccessToken(token)

	expiresAt := claims.ExpiresAt.Time
	now := time.Now()

	if expiresAt.Before(now) {
		t.Error("token should not be expired immediately")
	}

	expectedExpiry := now.Add(15 * time.Minute)
	diff := expiresAt.Sub(expectedExpiry)
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration time is off by more than 1 minute: %v", diff)
	}
}

func TestParseRefreshToken_Expired(t *testing.T) {
	SetTokenTTLs(15*time.Minute, time.Millisecond)
	token, _ := GenerateRefreshToken(1)
	SetTokenTTLs(15*time.Minute, 7*24*time.Hour)

	time.Sleep(10 * time.Millisecond)

	if _, err := ParseRefreshToken(token); err == nil {
		t.Error("expired refresh token should fail verification")
	}
}
