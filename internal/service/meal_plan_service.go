package service

import (
	"context"

	"github.com/recipeinbox/backend/internal/collab"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// EventMealPlanItemsUpdated is broadcast to every member after an item mutation
const EventMealPlanItemsUpdated = "mealPlan:itemsUpdated"

// MealPlanUpdatedPayload lets clients skip the reload triggered by their own change
type MealPlanUpdatedPayload struct {
	MealPlanID string `json:"mealPlanId"`
	UpdatedBy  string `json:"updatedBy"`
	Reference  int64  `json:"reference"`
}

// MealPlanService collaborative meal plan operations
type MealPlanService interface {
	Get(ctx context.Context, userID, planID string) (*domain.MealPlan, error)
	AddItem(ctx context.Context, userID, planID string, req *domain.AddMealPlanItemRequest) (int64, error)
	RemoveItem(ctx context.Context, userID, planID, itemID string) (int64, error)
}

type mealPlanService struct {
	repo      repository.MealPlanRepository
	refs      collab.ReferenceCounter
	publisher collab.Publisher
}

// NewMealPlanService creates a new MealPlanService. publisher may be nil.
func NewMealPlanService(repo repository.MealPlanRepository, refs collab.ReferenceCounter, publisher collab.Publisher) MealPlanService {
	return &mealPlanService{
		repo:      repo,
		refs:      refs,
		publisher: publisher,
	}
}

func (s *mealPlanService) Get(ctx context.Context, userID, planID string) (*domain.MealPlan, error) {
	return s.repo.FindAccessible(ctx, planID, userID)
}

func (s *mealPlanService) AddItem(ctx context.Context, userID, planID string, req *domain.AddMealPlanItemRequest) (int64, error) {
	plan, err := s.repo.FindAccessible(ctx, planID, userID)
	if err != nil {
		return 0, err
	}

	item := &domain.MealPlanItem{
		MealPlanID: plan.ID,
		UserID:     userID,
		Title:      req.Title,
		Meal:       req.Meal,
		Scheduled:  req.Scheduled,
	}
	if req.RecipeID != "" {
		recipeID := req.RecipeID
		item.RecipeID = &recipeID
	}
	if err := s.repo.AddItem(ctx, item); err != nil {
		return 0, err
	}

	return s.announce(ctx, plan, userID), nil
}

func (s *mealPlanService) RemoveItem(ctx context.Context, userID, planID, itemID string) (int64, error) {
	plan, err := s.repo.FindAccessible(ctx, planID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.repo.RemoveItem(ctx, plan.ID, itemID); err != nil {
		return 0, err
	}

	return s.announce(ctx, plan, userID), nil
}

func (s *mealPlanService) announce(ctx context.Context, plan *domain.MealPlan, userID string) int64 {
	ref, err := s.refs.Next(ctx, collab.ResourceKey("mealPlan", plan.ID))
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("meal_plan_id", plan.ID).Msg("failed to allocate reference")
		ref = 0
	}
	collab.Announce(ctx, s.publisher, plan.MemberIDs(), EventMealPlanItemsUpdated, &MealPlanUpdatedPayload{
		MealPlanID: plan.ID,
		UpdatedBy:  userID,
		Reference:  ref,
	})
	return ref
}
