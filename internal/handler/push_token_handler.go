package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/middleware"
	"github.com/recipeinbox/backend/internal/service"
)

// PushTokenHandler handles device token registration
type PushTokenHandler struct {
	service service.PushTokenService
}

// NewPushTokenHandler creates a new PushTokenHandler
func NewPushTokenHandler(service service.PushTokenService) *PushTokenHandler {
	return &PushTokenHandler{service: service}
}

// Register handles POST /users/push-tokens
func (h *PushTokenHandler) Register(c *gin.Context) {
	var req domain.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "token is required", err)
		return
	}
	if err := h.service.Register(c.Request.Context(), middleware.GetUserID(c), req.Token); err != nil {
		common.FailWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unregister handles DELETE /users/push-tokens
func (h *PushTokenHandler) Unregister(c *gin.Context) {
	var req domain.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "token is required", err)
		return
	}
	if err := h.service.Unregister(c.Request.Context(), middleware.GetUserID(c), req.Token); err != nil {
		common.FailWith(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
