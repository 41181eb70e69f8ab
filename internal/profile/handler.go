package profile

import (
	"net/http"

	"profilehub/internal/apperror"
	"profilehub/internal/middleware"
	"profilehub/internal/response"

	"github.com/gin-gonic/gin"
)

// Handler handles profile HTTP requests. Both routes run behind
// middleware.SessionAuth.
type Handler struct {
	service Service
}

// NewHandler creates a new profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetProfile handles GET /api/profile
func (h *Handler) GetProfile(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.Unauthorized())
		return
	}

	view, err := h.service.Get(c.Request.Context(), sess.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := GetResponse{
		Success:  true,
		Username: sess.Username,
		Status:   view.Status,
	}
	if view.Status == StatusCompleted {
		resp.Profile = view.Profile
	} else {
		resp.Message = "Profile not yet completed."
		resp.Profile = struct{}{}
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles POST /api/profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		response.Error(c, apperror.Unauthorized())
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		response.Error(c, errInvalidUpdate)
		return
	}
	req, err := DecodeUpdate(body)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), sess.UserID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Profile updated successfully!")
}
