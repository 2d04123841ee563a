package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/middleware"
	"github.com/recipeinbox/backend/internal/service"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	service service.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(service service.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// CreateMessage handles POST /messages
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	var req domain.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.service.CreateMessage(c.Request.Context(), userID, &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListThreads handles GET /messages/threads?light=true
func (h *MessageHandler) ListThreads(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	light, _ := strconv.ParseBool(c.Query("light"))

	threads, err := h.service.ListThreads(c.Request.Context(), userID, light)
	if err != nil {
		common.FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, threads)
}

// GetThread handles GET /messages?user=<otherUserId>
func (h *MessageHandler) GetThread(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		common.ErrorResponse(c, http.StatusUnauthorized, "login required", nil)
		return
	}

	messages, err := h.service.GetThread(c.Request.Context(), userID, c.Query("user"))
	if err != nil {
		common.FailWith(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
