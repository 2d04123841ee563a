package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/recipeinbox/backend/internal/handler"
)

// Setup configures all API routes. auth guards every route registered here.
func Setup(
	router *gin.Engine,
	auth gin.HandlerFunc,
	messageLimit gin.HandlerFunc,
	messageHandler *handler.MessageHandler,
	shoppingListHandler *handler.ShoppingListHandler,
	mealPlanHandler *handler.MealPlanHandler,
	pushTokenHandler *handler.PushTokenHandler,
	wsHandler *handler.WSHandler,
) {
	api := router.Group("", auth)

	// Direct messages
	messages := api.Group("/messages")
	messages.POST("", messageLimit, messageHandler.CreateMessage)
	messages.GET("", messageHandler.GetThread)
	messages.GET("/threads", messageHandler.ListThreads)

	// Collaborative resources
	lists := api.Group("/shopping-lists")
	lists.GET("/:id", shoppingListHandler.Get)
	lists.POST("/:id/items", shoppingListHandler.AddItems)
	lists.DELETE("/:id/items", shoppingListHandler.RemoveItems)

	plans := api.Group("/meal-plans")
	plans.GET("/:id", mealPlanHandler.Get)
	plans.POST("/:id/items", mealPlanHandler.AddItem)
	plans.DELETE("/:id/items/:itemId", mealPlanHandler.RemoveItem)

	// Device tokens
	users := api.Group("/users")
	users.POST("/push-tokens", pushTokenHandler.Register)
	users.DELETE("/push-tokens", pushTokenHandler.Unregister)

	// Live events
	api.GET("/ws", wsHandler.Connect)
}
