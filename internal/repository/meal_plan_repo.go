package repository

import (
	"context"
	"errors"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
)

// MealPlanRepository meal plan data access interface
type MealPlanRepository interface {
	FindAccessible(ctx context.Context, id, userID string) (*domain.MealPlan, error)
	AddItem(ctx context.Context, item *domain.MealPlanItem) error
	RemoveItem(ctx context.Context, planID, itemID string) error
}

type mealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new MealPlanRepository
func NewMealPlanRepository(db *gorm.DB) MealPlanRepository {
	return &mealPlanRepository{db: db}
}

// FindAccessible loads the plan if userID is its owner or a collaborator
func (r *mealPlanRepository) FindAccessible(ctx context.Context, id, userID string) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("scheduled ASC") }).
		Preload("Collaborators", selectUserSummary).
		Where("id = ?", id).
		Where("user_id = ? OR id IN (?)", userID,
			r.db.Table("meal_plan_collaborators").
				Select("meal_plan_id").
				Where("user_id = ?", userID)).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrMealPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// AddItem inserts a scheduled meal
func (r *mealPlanRepository) AddItem(ctx context.Context, item *domain.MealPlanItem) error {
	return conn(ctx, r.db).Create(item).Error
}

// RemoveItem deletes one item of the plan
func (r *mealPlanRepository) RemoveItem(ctx context.Context, planID, itemID string) error {
	result := conn(ctx, r.db).
		Where("meal_plan_id = ? AND id = ?", planID, itemID).
		Delete(&domain.MealPlanItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
