// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"log/slog"

	"profilehub/internal/apperror"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool          `json:"success"`
	Code    apperror.Code `json:"code"`
	Message string        `json:"message"`
}

// MessageResponse is the body of a successful request that carries no data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OK writes a success envelope with only a message.
func OK(c *gin.Context, status int, message string) {
	c.JSON(status, MessageResponse{Success: true, Message: message})
}

// Error converts err into an envelope, logs internal causes and aborts the
// handler chain. Store details never reach the client.
func Error(c *gin.Context, err error) {
	ErrorWithStatus(c, apperror.HTTPStatus(apperror.From(err)), err)
}

// ErrorWithStatus is Error with an explicit status code.
func ErrorWithStatus(c *gin.Context, status int, err error) {
	appErr := apperror.From(err)

	if appErr.Cause != nil {
		slog.Error("Request failed",
			"request_id", c.GetString("request_id"),
			"path", c.Request.URL.Path,
			"code", string(appErr.Code),
			"error", appErr.Cause.Error(),
		)
		_ = c.Error(appErr.Cause)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
