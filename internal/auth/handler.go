package auth

import (
	"errors"
	"net/http"

	"profilehub/internal/apperror"
	"profilehub/internal/middleware"
	"profilehub/internal/response"

	"github.com/gin-gonic/gin"
)

// Handler handles authentication-related HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new authentication handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /api/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(msgInvalidData))
		return
	}

	if _, err := h.service.Register(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "Registration successful!")
}

// Login handles POST /api/login. Bad credentials are answered with 200 and
// success=false so the status code reveals nothing about the account.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(msgInvalidData))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperror.ErrAuthentication) {
			response.ErrorWithStatus(c, http.StatusOK, err)
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Message:      "Login successful!",
		Username:     result.Username,
		SessionToken: result.Token,
	})
}

// Logout handles POST /api/logout. It runs behind the session middleware and
// deletes the presented token from the session store.
func (h *Handler) Logout(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.Unauthorized())
		return
	}

	if err := h.service.Logout(c.Request.Context(), sess.Token); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Logged out.")
}
