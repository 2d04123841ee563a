package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/middleware"
	"github.com/recipeinbox/backend/internal/service"
)

// MealPlanHandler handles collaborative meal plan requests
type MealPlanHandler struct {
	service service.MealPlanService
}

// NewMealPlanHandler creates a new MealPlanHandler
func NewMealPlanHandler(service service.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{service: service}
}

// Get handles GET /meal-plans/:id
func (h *MealPlanHandler) Get(c *gin.Context) {
	plan, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AddItem handles POST /meal-plans/:id/items
func (h *MealPlanHandler) AddItem(c *gin.Context) {
	var req domain.AddMealPlanItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.service.AddItem(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ReferenceResponse{Reference: ref})
}

// RemoveItem handles DELETE /meal-plans/:id/items/:itemId
func (h *MealPlanHandler) RemoveItem(c *gin.Context) {
	ref, err := h.service.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), c.Param("itemId"))
	if err != nil {
		common.FailWith(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.ReferenceResponse{Reference: ref})
}
