package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/test", handler)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestJSON_PayloadUnwrapped(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		JSON(c, gin.H{"id": 1, "username": "alice"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["username"] != "alice" {
		t.Errorf("username = %v, expected alice", body["username"])
	}
	if _, wrapped := body["data"]; wrapped {
		t.Error("payload should not be wrapped in a data envelope")
	}
}

func TestError_AppError(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewBadRequest("bad"), http.StatusBadRequest},
		{NewUnauthorized("unauthorized"), http.StatusUnauthorized},
		{NewForbidden("forbidden"), http.StatusForbidden},
		{NewNotFound("missing"), http.StatusNotFound},
		{NewServerError("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := performRequest(func(c *gin.Context) {
			Error(c, tc.err)
		})

		if w.Code != tc.status {
			t.Errorf("%q: status = %d, expected %d", tc.err.Message, w.Code, tc.status)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON body: %v", err)
		}
		if body["message"] != tc.err.Message {
			t.Errorf("message = %q, expected %q", body["message"], tc.err.Message)
		}
	}
}

func TestError_OpaqueForUnknownErrors(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("sql: connection refused on 10.0.0.3"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["message"] != "internal server error" {
		t.Errorf("internal detail leaked: %q", body["message"])
	}
}

func TestAppError_ErrorInterface(t *testing.T) {
	var err error = NewNotFound("User not found")
	if err.Error() != "User not found" {
		t.Errorf("Error() = %q", err.Error())
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should match *AppError")
	}
	if appErr.HTTPStatus != http.StatusNotFound {
		t.Errorf("HTTPStatus = %d, expected 404", appErr.HTTPStatus)
	}
}
