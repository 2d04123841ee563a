package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FolderInbox is where shared recipes land for the recipient
const FolderInbox = "inbox"

// FolderMain is the default folder for recipes a user created
const FolderMain = "main"

// Recipe represents a user's recipe
type Recipe struct {
	CreatedAt    time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"column:updated_at" json:"updated_at"`
	Image        *RecipeImage `gorm:"column:image;type:text;serializer:json" json:"image,omitempty"`
	FromUserID   *string      `gorm:"column:from_user_id;size:36" json:"from_user_id,omitempty"`
	ID           string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID       string       `gorm:"column:user_id;size:36;index:idx_recipes_user_title" json:"user_id"`
	Title        string       `gorm:"column:title;size:255;index:idx_recipes_user_title" json:"title"`
	Description  string       `gorm:"column:description;type:text" json:"description"`
	Yield        string       `gorm:"column:yield;size:255" json:"yield"`
	ActiveTime   string       `gorm:"column:active_time;size:255" json:"active_time"`
	TotalTime    string       `gorm:"column:total_time;size:255" json:"total_time"`
	Source       string       `gorm:"column:source;size:255" json:"source"`
	URL          string       `gorm:"column:url;size:1024" json:"url"`
	Notes        string       `gorm:"column:notes;type:text" json:"notes"`
	Ingredients  string       `gorm:"column:ingredients;type:text" json:"ingredients"`
	Instructions string       `gorm:"column:instructions;type:text" json:"instructions"`
	Folder       string       `gorm:"column:folder;size:32;default:main" json:"folder"`
}

func (Recipe) TableName() string {
	return "recipes"
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// RecipeImage is the stored image object of a recipe
type RecipeImage struct {
	Key      string `json:"key"`
	Location string `json:"location"`
}

// Summary returns the {id, title, image} projection embedded in messages
func (r *Recipe) Summary() *RecipeSummary {
	if r == nil {
		return nil
	}
	s := &RecipeSummary{ID: r.ID, Title: r.Title}
	if r.Image != nil {
		s.Image = &ImageSummary{Location: r.Image.Location}
	}
	return s
}

// RecipeSummary is the public projection of a recipe
type RecipeSummary struct {
	Image *ImageSummary `json:"image,omitempty"`
	ID    string        `json:"id"`
	Title string        `json:"title"`
}

// ImageSummary exposes only the image location
type ImageSummary struct {
	Location string `json:"location,omitempty"`
}
