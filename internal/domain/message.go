package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users, optionally carrying a shared recipe.
// RecipeID points at the recipient's clone, OriginalRecipeID at the sender's source.
type Message struct {
	CreatedAt        time.Time `gorm:"column:created_at;index" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"-"`
	RecipeID         *string   `gorm:"column:recipe_id;size:36" json:"recipe_id,omitempty"`
	OriginalRecipeID *string   `gorm:"column:original_recipe_id;size:36" json:"original_recipe_id,omitempty"`
	FromUser         *User     `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser           *User     `gorm:"foreignKey:ToUserID" json:"-"`
	Recipe           *Recipe   `gorm:"foreignKey:RecipeID" json:"-"`
	OriginalRecipe   *Recipe   `gorm:"foreignKey:OriginalRecipeID" json:"-"`
	ID               string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	FromUserID       string    `gorm:"column:from_user_id;size:36;index" json:"from_user_id"`
	ToUserID         string    `gorm:"column:to_user_id;size:36;index" json:"to_user_id"`
	Body             string    `gorm:"column:body;type:text" json:"body"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// CounterpartID returns the id of the other participant from userID's point of view
func (m *Message) CounterpartID(userID string) string {
	if m.FromUserID == userID {
		return m.ToUserID
	}
	return m.FromUserID
}

// CreateMessageRequest is the body of POST /messages
type CreateMessageRequest struct {
	To       string `json:"to" binding:"required"`
	Body     string `json:"body"`
	RecipeID string `json:"recipeId"`
}

// MessageResponse represents a hydrated message in API responses
type MessageResponse struct {
	CreatedAt        time.Time      `json:"createdAt"`
	FromUser         *UserSummary   `json:"fromUser,omitempty"`
	ToUser           *UserSummary   `json:"toUser,omitempty"`
	OtherUser        *UserSummary   `json:"otherUser,omitempty"`
	Recipe           *RecipeSummary `json:"recipe,omitempty"`
	OriginalRecipe   *RecipeSummary `json:"originalRecipe,omitempty"`
	RecipeID         *string        `json:"recipeId,omitempty"`
	OriginalRecipeID *string        `json:"originalRecipeId,omitempty"`
	ID               string         `json:"id"`
	FromUserID       string         `json:"fromUserId"`
	ToUserID         string         `json:"toUserId"`
	Body             string         `json:"body"`
}

// ToResponse converts a hydrated Message into its API shape.
// viewerID selects the counterpart exposed as otherUser; empty leaves it unset.
func (m *Message) ToResponse(viewerID string) *MessageResponse {
	resp := &MessageResponse{
		ID:               m.ID,
		FromUserID:       m.FromUserID,
		ToUserID:         m.ToUserID,
		Body:             m.Body,
		RecipeID:         m.RecipeID,
		OriginalRecipeID: m.OriginalRecipeID,
		CreatedAt:        m.CreatedAt,
		FromUser:         m.FromUser.Summary(),
		ToUser:           m.ToUser.Summary(),
		Recipe:           m.Recipe.Summary(),
		OriginalRecipe:   m.OriginalRecipe.Summary(),
	}
	switch viewerID {
	case "":
	case m.FromUserID:
		resp.OtherUser = resp.ToUser
	default:
		resp.OtherUser = resp.FromUser
	}
	return resp
}

// ThreadResponse is the read-time projection of all messages with one counterpart.
// Messages is nil (and omitted) for light queries.
type ThreadResponse struct {
	LastMessageAt time.Time          `json:"lastMessageAt"`
	OtherUser     *UserSummary       `json:"otherUser"`
	Messages      []*MessageResponse `json:"messages,omitempty"`
	MessageCount  int                `json:"messageCount"`
}
