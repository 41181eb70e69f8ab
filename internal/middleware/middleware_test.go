package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"profilehub/internal/session"

	"github.com/gin-gonic/gin"
)

// Mock session manager for testing
type mockSessionManager struct {
	validateFunc func(ctx context.Context, authorization string) (*session.Session, error)
	calls        int
}

func (m *mockSessionManager) Create(ctx context.Context, userID int64, username string) (*session.Session, error) {
	return nil, nil
}

func (m *mockSessionManager) Get(ctx context.Context, token string) (*session.Session, error) {
	return nil, session.ErrUnauthorized
}

func (m *mockSessionManager) Validate(ctx context.Context, authorization string) (*session.Session, error) {
	m.calls++
	if m.validateFunc != nil {
		return m.validateFunc(ctx, authorization)
	}
	return nil, session.ErrUnauthorized
}

func (m *mockSessionManager) Delete(ctx context.Context, token string) error {
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestSessionAuth_ValidSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotHeader string
	mockMgr := &mockSessionManager{
		validateFunc: func(ctx context.Context, authorization string) (*session.Session, error) {
			gotHeader = authorization
			return &session.Session{Token: "tok", UserID: 42, Username: "alice"}, nil
		},
	}

	r := gin.New()
	r.Use(SessionAuth(mockMgr))
	r.GET("/test", func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok {
			t.Fatal("Expected session in context")
		}
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID, "username": sess.Username})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotHeader != "Bearer tok" {
		t.Errorf("Expected raw header to reach the validator, got %q", gotHeader)
	}

	body := decodeBody(t, w)
	if body["user_id"] != float64(42) {
		t.Errorf("Expected user_id 42, got %v", body["user_id"])
	}
	if body["username"] != "alice" {
		t.Errorf("Expected username alice, got %v", body["username"])
	}
}

func TestSessionAuth_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockMgr := &mockSessionManager{}
	reached := false

	r := gin.New()
	r.Use(SessionAuth(mockMgr))
	r.GET("/test", func(c *gin.Context) {
		reached = true
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if reached {
		t.Error("Handler must not run without a session")
	}

	body := decodeBody(t, w)
	if body["success"] != false {
		t.Errorf("Expected success=false, got %v", body["success"])
	}
	if body["code"] != "unauthorized" {
		t.Errorf("Expected code unauthorized, got %v", body["code"])
	}
}

func TestSessionAuth_StoreUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mockMgr := &mockSessionManager{
		validateFunc: func(ctx context.Context, authorization string) (*session.Session, error) {
			return nil, fmt.Errorf("%w: dial tcp 127.0.0.1:6379: connection refused", session.ErrStoreUnavailable)
		},
	}

	r := gin.New()
	r.Use(SessionAuth(mockMgr))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["code"] != "service_unavailable" {
		t.Errorf("Expected code service_unavailable, got %v", body["code"])
	}
	if msg, _ := body["message"].(string); msg == "" || strings.Contains(msg, "6379") || strings.Contains(msg, "dial") {
		t.Errorf("Internal detail leaked to client: %q", msg)
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("Expected X-Request-ID header")
	}
	if w.Body.String() != id {
		t.Errorf("Expected context request_id %q, got %q", id, w.Body.String())
	}
}

func TestRequestID_KeepsValidIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	const incoming = "0b6f3c1e-8a8e-4f4e-9a57-1d5f7d1c2b3a"
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", incoming)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("Expected %q, got %q", incoming, got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Error("Expected CORS Allow-Origin header")
	}
}

func TestLogging(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID(), Logging())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
