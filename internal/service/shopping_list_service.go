package service

import (
	"context"

	"github.com/recipeinbox/backend/internal/collab"
	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"github.com/recipeinbox/backend/internal/repository"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// EventShoppingListItemsUpdated is broadcast to every member after an item mutation
const EventShoppingListItemsUpdated = "shoppingList:itemsUpdated"

// ShoppingListUpdatedPayload lets clients skip the reload triggered by their own change
type ShoppingListUpdatedPayload struct {
	ShoppingListID string `json:"shoppingListId"`
	UpdatedBy      string `json:"updatedBy"`
	Reference      int64  `json:"reference"`
}

// ShoppingListService collaborative shopping list operations
type ShoppingListService interface {
	Get(ctx context.Context, userID, listID string) (*domain.ShoppingList, error)
	AddItems(ctx context.Context, userID, listID string, req *domain.AddShoppingListItemsRequest) (int64, error)
	RemoveItems(ctx context.Context, userID, listID string, itemIDs []string) (int64, error)
}

type shoppingListService struct {
	repo      repository.ShoppingListRepository
	refs      collab.ReferenceCounter
	publisher collab.Publisher
}

// NewShoppingListService creates a new ShoppingListService. publisher may be nil.
func NewShoppingListService(repo repository.ShoppingListRepository, refs collab.ReferenceCounter, publisher collab.Publisher) ShoppingListService {
	return &shoppingListService{
		repo:      repo,
		refs:      refs,
		publisher: publisher,
	}
}

// Get returns the list if userID is a member
func (s *shoppingListService) Get(ctx context.Context, userID, listID string) (*domain.ShoppingList, error) {
	return s.repo.FindAccessible(ctx, listID, userID)
}

// AddItems appends items and returns the reference of this change
func (s *shoppingListService) AddItems(ctx context.Context, userID, listID string, req *domain.AddShoppingListItemsRequest) (int64, error) {
	list, err := s.repo.FindAccessible(ctx, listID, userID)
	if err != nil {
		return 0, err
	}
	if len(req.Items) == 0 {
		return 0, common.ErrInvalidInput
	}

	items := make([]*domain.ShoppingListItem, 0, len(req.Items))
	for _, in := range req.Items {
		item := &domain.ShoppingListItem{
			ShoppingListID: list.ID,
			UserID:         userID,
			Title:          in.Title,
		}
		if in.RecipeID != "" {
			recipeID := in.RecipeID
			item.RecipeID = &recipeID
		}
		items = append(items, item)
	}
	if err := s.repo.AddItems(ctx, items); err != nil {
		return 0, err
	}

	return s.announce(ctx, list, userID), nil
}

// RemoveItems deletes the given items and returns the reference of this change
func (s *shoppingListService) RemoveItems(ctx context.Context, userID, listID string, itemIDs []string) (int64, error) {
	list, err := s.repo.FindAccessible(ctx, listID, userID)
	if err != nil {
		return 0, err
	}
	if len(itemIDs) == 0 {
		return 0, common.ErrInvalidInput
	}
	if _, err := s.repo.RemoveItems(ctx, list.ID, itemIDs); err != nil {
		return 0, err
	}

	return s.announce(ctx, list, userID), nil
}

// announce allocates the next reference and tells every member. A counter failure yields 0,
// which clients treat as foreign and reload on.
func (s *shoppingListService) announce(ctx context.Context, list *domain.ShoppingList, userID string) int64 {
	ref, err := s.refs.Next(ctx, collab.ResourceKey("shoppingList", list.ID))
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("shopping_list_id", list.ID).Msg("failed to allocate reference")
		ref = 0
	}
	collab.Announce(ctx, s.publisher, list.MemberIDs(), EventShoppingListItemsUpdated, &ShoppingListUpdatedPayload{
		ShoppingListID: list.ID,
		UpdatedBy:      userID,
		Reference:      ref,
	})
	return ref
}
