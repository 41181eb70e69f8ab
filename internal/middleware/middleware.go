// Package middleware holds the gin middleware shared by every route:
// request IDs, structured access logs, CORS and bearer-token authentication.
package middleware

import (
	"errors"
	"log/slog"
	"time"

	"profilehub/internal/apperror"
	"profilehub/internal/response"
	"profilehub/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionKey   = "session"
	userIDKey    = "user_id"
	requestIDKey = "request_id"
)

// SessionAuth resolves the Authorization header to a session and stores it
// in the gin context. Missing, malformed, unknown and expired tokens all
// get the same 401 answer.
func SessionAuth(sessions session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Authenticate(c, sessions) {
			return
		}
		c.Next()
	}
}

// Authenticate is SessionAuth for use inside a handler. It reports whether
// the request carries a valid session; on false the response is written and
// the chain aborted.
func Authenticate(c *gin.Context, sessions session.Manager) bool {
	sess, err := sessions.Validate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		if errors.Is(err, session.ErrUnauthorized) {
			slog.Debug("Rejected session",
				"request_id", c.GetString(requestIDKey),
				"path", c.Request.URL.Path,
			)
			response.Error(c, apperror.Unauthorized())
			return false
		}
		response.Error(c, apperror.Unavailable(err))
		return false
	}

	c.Set(sessionKey, sess)
	c.Set(userIDKey, sess.UserID)
	return true
}

// SessionFrom returns the session stored by SessionAuth.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok && sess != nil
}

// CORS allows the browser front-end to send the Authorization header.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// RequestID generates a unique request ID for log correlation
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()
	}
}

// Logging logs every request with structured attributes
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rw := newResponseWriter(c.Writer)
		c.Writer = rw

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"response_size", rw.Size(),
		}

		if userID, exists := c.Get(userIDKey); exists {
			attrs = append(attrs, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.Error("Request failed - server error", attrs...)
		case status >= 400:
			slog.Warn("Request failed - client error", attrs...)
		default:
			slog.Info("Request completed", attrs...)
		}
	}
}
