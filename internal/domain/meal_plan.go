package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlan is a calendar of meals shared between its owner and collaborators
type MealPlan struct {
	CreatedAt     time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at" json:"updated_at"`
	Collaborators []User         `gorm:"many2many:meal_plan_collaborators;" json:"-"`
	Items         []MealPlanItem `gorm:"foreignKey:MealPlanID" json:"items"`
	ID            string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID        string         `gorm:"column:user_id;size:36;index" json:"user_id"`
	Title         string         `gorm:"column:title;size:255" json:"title"`
}

func (MealPlan) TableName() string {
	return "meal_plans"
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// MemberIDs returns the owner followed by every collaborator
func (p *MealPlan) MemberIDs() []string {
	return memberIDs(p.UserID, p.Collaborators)
}

// MealPlanItem is a scheduled meal
type MealPlanItem struct {
	Scheduled  time.Time `gorm:"column:scheduled;index" json:"scheduled"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	RecipeID   *string   `gorm:"column:recipe_id;size:36" json:"recipe_id,omitempty"`
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	MealPlanID string    `gorm:"column:meal_plan_id;size:36;index" json:"meal_plan_id"`
	UserID     string    `gorm:"column:user_id;size:36" json:"user_id"`
	Title      string    `gorm:"column:title;size:255" json:"title"`
	Meal       string    `gorm:"column:meal;size:32" json:"meal"`
}

func (MealPlanItem) TableName() string {
	return "meal_plan_items"
}

func (i *MealPlanItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// AddMealPlanItemRequest is the body of POST /meal-plans/:id/items
type AddMealPlanItemRequest struct {
	Scheduled time.Time `json:"scheduled" binding:"required"`
	Title     string    `json:"title" binding:"required"`
	RecipeID  string    `json:"recipeId"`
	Meal      string    `json:"meal" binding:"required"`
}
