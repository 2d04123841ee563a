package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/middleware"
	"github.com/recipeinbox/backend/internal/service"
)

// ShoppingListHandler handles collaborative shopping list requests
type ShoppingListHandler struct {
	service service.ShoppingListService
}

// NewShoppingListHandler creates a new ShoppingListHandler
func NewShoppingListHandler(service service.ShoppingListService) *ShoppingListHandler {
	return &ShoppingListHandler{service: service}
}

// Get handles GET /shopping-lists/:id
func (h *ShoppingListHandler) Get(c *gin.Context) {
	list, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AddItems handles POST /shopping-lists/:id/items
func (h *ShoppingListHandler) AddItems(c *gin.Context) {
	var req domain.AddShoppingListItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.service.AddItems(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ReferenceResponse{Reference: ref})
}

// RemoveItems handles DELETE /shopping-lists/:id/items
func (h *ShoppingListHandler) RemoveItems(c *gin.Context) {
	var req domain.RemoveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.service.RemoveItems(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), req.ItemIDs)
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ReferenceResponse{Reference: ref})
}
