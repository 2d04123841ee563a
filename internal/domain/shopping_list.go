package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingList is a list shared between its owner and collaborators
type ShoppingList struct {
	CreatedAt     time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at" json:"updated_at"`
	Collaborators []User             `gorm:"many2many:shopping_list_collaborators;" json:"-"`
	Items         []ShoppingListItem `gorm:"foreignKey:ShoppingListID" json:"items"`
	ID            string             `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID        string             `gorm:"column:user_id;size:36;index" json:"user_id"`
	Title         string             `gorm:"column:title;size:255" json:"title"`
}

func (ShoppingList) TableName() string {
	return "shopping_lists"
}

func (l *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// MemberIDs returns the owner followed by every collaborator
func (l *ShoppingList) MemberIDs() []string {
	return memberIDs(l.UserID, l.Collaborators)
}

// ShoppingListItem is one line of a shopping list
type ShoppingListItem struct {
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	RecipeID       *string   `gorm:"column:recipe_id;size:36" json:"recipe_id,omitempty"`
	ID             string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	ShoppingListID string    `gorm:"column:shopping_list_id;size:36;index" json:"shopping_list_id"`
	UserID         string    `gorm:"column:user_id;size:36" json:"user_id"`
	Title          string    `gorm:"column:title;size:255" json:"title"`
	Completed      bool      `gorm:"column:completed" json:"completed"`
}

func (ShoppingListItem) TableName() string {
	return "shopping_list_items"
}

func (i *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// AddShoppingListItemsRequest is the body of POST /shopping-lists/:id/items
type AddShoppingListItemsRequest struct {
	Items []ShoppingListItemInput `json:"items" binding:"required,min=1,dive"`
}

// ShoppingListItemInput is one item to add
type ShoppingListItemInput struct {
	Title    string `json:"title" binding:"required"`
	RecipeID string `json:"recipeId"`
}

// RemoveItemsRequest is the body of DELETE /shopping-lists/:id/items
type RemoveItemsRequest struct {
	ItemIDs []string `json:"itemIds" binding:"required,min=1"`
}

// ReferenceResponse answers a collaborative mutation with the reference it produced
type ReferenceResponse struct {
	Reference int64 `json:"reference"`
}

func memberIDs(ownerID string, collaborators []User) []string {
	ids := make([]string, 0, len(collaborators)+1)
	ids = append(ids, ownerID)
	for _, c := range collaborators {
		if c.ID != ownerID {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
