package repository

import (
	"context"
	"errors"

	"github.com/recipeinbox/backend/internal/common"
	"github.com/recipeinbox/backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	FindHydrated(ctx context.Context, id string) (*domain.Message, error)
	FindForUser(ctx context.Context, userID string, hydrate bool) ([]*domain.Message, error)
	FindBetween(ctx context.Context, userID, otherUserID string) ([]*domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func selectUserSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func selectRecipeSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "title", "image")
}

// hydrated preloads the sender, recipient, clone and source summaries
func hydrated(db *gorm.DB) *gorm.DB {
	return db.
		Preload("FromUser", selectUserSummary).
		Preload("ToUser", selectUserSummary).
		Preload("Recipe", selectRecipeSummary).
		Preload("OriginalRecipe", selectRecipeSummary)
}

// Create inserts a message
func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	return conn(ctx, r.db).Create(msg).Error
}

// FindHydrated loads a message with all of its summaries
func (r *messageRepository) FindHydrated(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	err := hydrated(conn(ctx, r.db)).Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// FindForUser returns every message the user sent or received, oldest first.
// Without hydrate only the columns needed for grouping are loaded.
func (r *messageRepository) FindForUser(ctx context.Context, userID string, hydrate bool) ([]*domain.Message, error) {
	var messages []*domain.Message
	q := conn(ctx, r.db)
	if hydrate {
		q = hydrated(q)
	} else {
		q = q.Select("id", "from_user_id", "to_user_id", "created_at")
	}
	err := q.Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// FindBetween returns the messages exchanged in either direction, oldest first
func (r *messageRepository) FindBetween(ctx context.Context, userID, otherUserID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := hydrated(conn(ctx, r.db)).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}
