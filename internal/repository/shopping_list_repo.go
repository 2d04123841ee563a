package repository

import (
	"context"
	"errors"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
)

// ShoppingListRepository shopping list data access interface
type ShoppingListRepository interface {
	FindAccessible(ctx context.Context, id, userID string) (*domain.ShoppingList, error)
	AddItems(ctx context.Context, items []*domain.ShoppingListItem) error
	RemoveItems(ctx context.Context, listID string, itemIDs []string) (int64, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new ShoppingListRepository
func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// FindAccessible loads the list with items and collaborators if userID is its owner or a collaborator
func (r *shoppingListRepository) FindAccessible(ctx context.Context, id, userID string) (*domain.ShoppingList, error) {
	var list domain.ShoppingList
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Collaborators", selectUserSummary).
		Where("id = ?", id).
		Where("user_id = ? OR id IN (?)", userID,
			r.db.Table("shopping_list_collaborators").
				Select("shopping_list_id").
				Where("user_id = ?", userID)).
		First(&list).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrShoppingListNotFound
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// AddItems inserts items
func (r *shoppingListRepository) AddItems(ctx context.Context, items []*domain.ShoppingListItem) error {
	return conn(ctx, r.db).Create(&items).Error
}

// RemoveItems deletes the given items of a list and returns how many were removed
func (r *shoppingListRepository) RemoveItems(ctx context.Context, listID string, itemIDs []string) (int64, error) {
	result := conn(ctx, r.db).
		Where("shopping_list_id = ? AND id IN ?", listID, itemIDs).
		Delete(&domain.ShoppingListItem{})
	return result.RowsAffected, result.Error
}
