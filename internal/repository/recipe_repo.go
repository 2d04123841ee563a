package repository

import (
	"context"
	"errors"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository recipe data access interface
type RecipeRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Recipe, error)
	TitleExists(ctx context.Context, userID, title string) (bool, error)
	Create(ctx context.Context, recipe *domain.Recipe) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// FindByID finds a recipe, returning common.ErrRecipeNotFound when absent
func (r *recipeRepository) FindByID(ctx context.Context, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	err := conn(ctx, r.db).Where("id = ?", id).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// TitleExists reports whether userID already owns a recipe with exactly this title.
// The read locks the matching rows, so inside a transaction it sees rows committed after
// the transaction's snapshot was taken. The comparison is redone in Go because the column
// collation may fold case or accents.
func (r *recipeRepository) TitleExists(ctx context.Context, userID, title string) (bool, error) {
	var titles []string
	err := conn(ctx, r.db).Model(&domain.Recipe{}).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("user_id = ? AND title = ?", userID, title).
		Pluck("title", &titles).Error
	if err != nil {
		return false, err
	}
	for _, t := range titles {
		if t == title {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a recipe
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return conn(ctx, r.db).Create(recipe).Error
}
